package arkio

import (
	"fmt"
	"strings"
)

// User represents a Data.com account and the credentials used to access it.
type User struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"-"        yaml:"-"`
}

// NewUser creates a user with the given credentials.
func NewUser(username, password string) (*User, error) {
	user := &User{Username: username, Password: password}

	err := user.Validate()
	if err != nil {
		return nil, err
	}

	return user, nil
}

// UserFromLookup reads the default account credentials through lookup. The
// username is trimmed; the password is used as stored.
func UserFromLookup(lookup LookupFunc) (*User, error) {
	if lookup == nil {
		return nil, ErrUserRequired
	}

	password, _ := lookup(AccountPasswordKey)

	return NewUser(lookupTrimmed(lookup, AccountUsernameKey), password)
}

// Validate checks that both credentials are present.
func (u *User) Validate() error {
	if u == nil {
		return ErrUserRequired
	}

	if strings.TrimSpace(u.Username) == "" {
		return ErrUsernameRequired
	}

	if u.Password == "" {
		return ErrPasswordRequired
	}

	return nil
}

// ContactLevel is the seniority level a contact is employed at.
type ContactLevel int

// Contact levels understood by the search API.
const (
	ContactLevelAny ContactLevel = iota
	ContactLevelCLevel
	ContactLevelVicePresident
	ContactLevelDirector
	ContactLevelManager
	ContactLevelStaff
	ContactLevelOther
)

var contactLevelNames = map[ContactLevel]string{
	ContactLevelCLevel:        "C-Level",
	ContactLevelVicePresident: "VP",
	ContactLevelDirector:      "Director",
	ContactLevelManager:       "Manager",
	ContactLevelStaff:         "Staff",
	ContactLevelOther:         "Other",
}

// String returns the wire name of the level, or "" for ContactLevelAny.
func (l ContactLevel) String() string {
	return contactLevelNames[l]
}

// ParseContactLevel parses a level name case-insensitively. The empty string
// and "any" map to ContactLevelAny.
func ParseContactLevel(name string) (ContactLevel, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))

	switch normalized {
	case "", "any", "all":
		return ContactLevelAny, nil
	case "c-level", "clevel", "c":
		return ContactLevelCLevel, nil
	case "vp", "vice-president", "vicepresident":
		return ContactLevelVicePresident, nil
	case "director":
		return ContactLevelDirector, nil
	case "manager":
		return ContactLevelManager, nil
	case "staff":
		return ContactLevelStaff, nil
	case "other":
		return ContactLevelOther, nil
	default:
		return ContactLevelAny, fmt.Errorf("%w: %q", ErrInvalidContactLevel, name)
	}
}

// Contact represents a person record.
type Contact struct {
	ContactID   int64  `json:"contactId"             yaml:"contact_id"`
	CompanyID   int64  `json:"companyId"             yaml:"company_id"`
	CompanyName string `json:"companyName"           yaml:"company_name"`
	FirstName   string `json:"firstname"             yaml:"first_name"`
	LastName    string `json:"lastname"              yaml:"last_name"`
	Title       string `json:"title"                 yaml:"title"`
	Email       string `json:"email,omitempty"       yaml:"email,omitempty"`
	Phone       string `json:"phone,omitempty"       yaml:"phone,omitempty"`
	Address     string `json:"address,omitempty"     yaml:"address,omitempty"`
	City        string `json:"city,omitempty"        yaml:"city,omitempty"`
	State       string `json:"state,omitempty"       yaml:"state,omitempty"`
	ZIP         string `json:"zip,omitempty"         yaml:"zip,omitempty"`
	Country     string `json:"country,omitempty"     yaml:"country,omitempty"`
	AreaCode    string `json:"areaCode,omitempty"    yaml:"area_code,omitempty"`
	UpdatedDate string `json:"updatedDate,omitempty" yaml:"updated_date,omitempty"`
	ContactURL  string `json:"contactURL,omitempty"  yaml:"contact_url,omitempty"`
	Owned       bool   `json:"owned"                 yaml:"owned"`
	OwnedType   string `json:"ownedType,omitempty"   yaml:"owned_type,omitempty"`
	Graveyarded bool   `json:"graveyardStatus"       yaml:"graveyarded"`
}

// FullName returns the first and last name joined by a space.
func (c *Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// ContactSearchResult is one page of a contact search.
type ContactSearchResult struct {
	TotalHits int       `json:"totalHits" yaml:"total_hits"`
	Contacts  []Contact `json:"contacts"  yaml:"contacts"`
}

// ContactSearch holds the criteria for a contact search by company.
type ContactSearch struct {
	CompanyName string
	// FirstLast is the first and last name of the contact.
	FirstLast string
	Level     ContactLevel
	Offset    int
	Size      int
}

// Company represents an organisation record.
type Company struct {
	CompanyID      int64  `json:"companyId"                yaml:"company_id"`
	Name           string `json:"name"                     yaml:"name"`
	Address        string `json:"address,omitempty"        yaml:"address,omitempty"`
	City           string `json:"city,omitempty"           yaml:"city,omitempty"`
	State          string `json:"state,omitempty"          yaml:"state,omitempty"`
	ZIP            string `json:"zip,omitempty"            yaml:"zip,omitempty"`
	Country        string `json:"country,omitempty"        yaml:"country,omitempty"`
	Phone          string `json:"phone,omitempty"          yaml:"phone,omitempty"`
	Website        string `json:"website,omitempty"        yaml:"website,omitempty"`
	StockSymbol    string `json:"stockSymbol,omitempty"    yaml:"stock_symbol,omitempty"`
	StockExchange  string `json:"stockExchange,omitempty"  yaml:"stock_exchange,omitempty"`
	Industry1      string `json:"industry1,omitempty"      yaml:"industry1,omitempty"`
	Industry2      string `json:"industry2,omitempty"      yaml:"industry2,omitempty"`
	Industry3      string `json:"industry3,omitempty"      yaml:"industry3,omitempty"`
	SubIndustry1   string `json:"subIndustry1,omitempty"   yaml:"sub_industry1,omitempty"`
	EmployeeCount  int64  `json:"employeeCount,omitempty"  yaml:"employee_count,omitempty"`
	EmployeeRange  string `json:"employeeRange,omitempty"  yaml:"employee_range,omitempty"`
	Revenue        int64  `json:"revenue,omitempty"        yaml:"revenue,omitempty"`
	RevenueRange   string `json:"revenueRange,omitempty"   yaml:"revenue_range,omitempty"`
	Ownership      string `json:"ownership,omitempty"      yaml:"ownership,omitempty"`
	SICCode        string `json:"sicCode,omitempty"        yaml:"sic_code,omitempty"`
	ActiveContacts int    `json:"activeContacts,omitempty" yaml:"active_contacts,omitempty"`
	CompanyURL     string `json:"companyURL,omitempty"     yaml:"company_url,omitempty"`
	UpdatedDate    string `json:"updatedDate,omitempty"    yaml:"updated_date,omitempty"`
	Graveyarded    bool   `json:"graveyarded"              yaml:"graveyarded"`
}

// Location returns city, state and country joined for display.
func (c *Company) Location() string {
	parts := make([]string, 0, 3)

	for _, part := range []string{c.City, c.State, c.Country} {
		if part != "" {
			parts = append(parts, part)
		}
	}

	return strings.Join(parts, ", ")
}

// CompanySearchResult is one page of a company search.
type CompanySearchResult struct {
	TotalHits int       `json:"totalHits" yaml:"total_hits"`
	Companies []Company `json:"companies" yaml:"companies"`
}

// CompanyStatistics holds the contact count statistics of a company.
type CompanyStatistics struct {
	CompanyID     int64             `json:"companyId"     yaml:"company_id"`
	TotalContacts int               `json:"totalContacts" yaml:"total_contacts"`
	Levels        []LevelCount      `json:"levels"        yaml:"levels"`
	Departments   []DepartmentCount `json:"departments"   yaml:"departments"`
}

// LevelCount is the number of contacts at one seniority level.
type LevelCount struct {
	Level string `json:"level" yaml:"level"`
	Count int    `json:"count" yaml:"count"`
}

// DepartmentCount is the number of contacts in one department.
type DepartmentCount struct {
	Department string `json:"department" yaml:"department"`
	Count      int    `json:"count"      yaml:"count"`
}

// UserInfo is the account information returned for the session user.
type UserInfo struct {
	Points int64 `json:"points" yaml:"points"`
}
