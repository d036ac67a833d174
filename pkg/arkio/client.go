package arkio

import (
	"context"
	"time"
)

// DeveloperTokenKey is the query parameter that carries the developer token
// on every request.
const DeveloperTokenKey = "token"

// AccountClient provides the user and authentication requests.
type AccountClient interface {
	// Authenticate checks the session credentials with the service.
	Authenticate(ctx context.Context) (*Result[bool], error)
	// UserInformation returns the point balance of the session user.
	UserInformation(ctx context.Context) (*Result[int64], error)
}

// ContactsClient provides the contact search and get requests.
type ContactsClient interface {
	// SearchContacts finds contacts whose email address or name matches query.
	SearchContacts(ctx context.Context, query string, offset, size int) (*Result[*ContactSearchResult], error)
	// SearchContactsByCompany finds contacts matching the given criteria.
	SearchContactsByCompany(ctx context.Context, search *ContactSearch) (*Result[*ContactSearchResult], error)
	// Contact gets a contact's full record. It is a point spend.
	Contact(ctx context.Context, contactID int64) (*Result[*Contact], error)
}

// CompaniesClient provides the company search and get requests.
type CompaniesClient interface {
	// CompanyStatistics returns the contact count statistics of a company.
	CompanyStatistics(ctx context.Context, companyID int64) (*Result[*CompanyStatistics], error)
	// SearchCompanies finds companies whose name, website domain or stock
	// ticker matches query.
	SearchCompanies(ctx context.Context, query string, offset, size int, detailed bool) (*Result[*CompanySearchResult], error)
}

// Session is a connection to a Server on behalf of a User.
//
// Every request method issues exactly one HTTP request and is safe for
// concurrent use. A non-nil error reports a transport failure; application
// errors reported by the API are carried in Result.AppError.
type Session interface {
	AccountClient
	ContactsClient
	CompaniesClient

	User() *User
	Server() *Server
	DeveloperToken() string
	// SetDeveloperToken replaces the token sent with new requests. The error
	// reports a TokenStore that failed to persist it.
	SetDeveloperToken(token string) error
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// TokenStore persists the developer token when it is replaced.
type TokenStore interface {
	UpdateDeveloperToken(token string) error
}

// Config represents session configuration for building an arkio.Session.
//
// # Server resolution
//
// If Server is nil, the server is resolved from the ARKIO_API_* environment
// variables with NewServerFromLookup, falling back to DefaultEndpoint.
//
// # Timeouts, retries and rate limits
//
// Per-request timeouts should be controlled via the context passed to
// session methods. RetryMax is 0 by default: no request is retried unless the
// caller opts in. RateLimit caps outgoing requests per second on this session.
type Config struct {
	// Server is the API server the session sends requests to.
	Server *Server
	// User holds the account credentials. Required.
	User *User
	// DeveloperToken is sent with every request. It can be changed later with
	// Session.SetDeveloperToken.
	DeveloperToken string

	// HTTPTimeout bounds a single HTTP attempt. Zero uses the package default.
	HTTPTimeout time.Duration
	// RetryMax: number of retries on connection errors, 5xx and 429.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries.
	RetryWaitMax time.Duration
	// RateLimit: maximum requests per second, 0 for unlimited.
	RateLimit float64
	// RateBurst: burst size for RateLimit, defaults to 1.
	RateBurst int

	// Debug: enables HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string

	// Cache: optional response cache for search and statistics requests.
	Cache Cache
	// CacheTTL: lifetime of cached responses. Zero uses DefaultCacheOptions.
	CacheTTL time.Duration
	// CachingPolicy: operations eligible for caching. Nil uses
	// DefaultCachingPolicy.
	CachingPolicy *CachingPolicy

	// TokenStore: optional persistence for developer token replacements.
	TokenStore TokenStore

	// Metrics: optional Prometheus collectors updated for every request.
	Metrics *Metrics
	// Interceptors: optional request/response hooks.
	Interceptors *InterceptorChain
}
