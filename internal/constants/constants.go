package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Configuration file location.
const (
	// ConfigDirName is the configuration directory under the user's home.
	ConfigDirName = ".arkio"

	// ConfigFileName is the configuration file name without extension.
	ConfigFileName = "config"

	// ConfigFileType is the configuration file format.
	ConfigFileType = "yml"

	// EnvPrefix prefixes environment variables read by the CLI.
	EnvPrefix = "ARKIO"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits. Requests are not retried unless the caller opts in.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// API paths.
const (
	// APIPathUser serves authentication and user information.
	APIPathUser = "/user.json"

	// APIPathSearchContact serves contact searches.
	APIPathSearchContact = "/searchContact.json"

	// APIPathSearchCompany serves company searches.
	APIPathSearchCompany = "/searchCompany.json"

	// APIPathContactFormat formats the path of a single contact.
	APIPathContactFormat = "/contacts/%d.json"

	// APIPathCompanyStatisticsFormat formats the path of a company's statistics.
	APIPathCompanyStatisticsFormat = "/companies/%d/statistics.json"
)

// API query parameters.
const (
	ParamName         = "name"
	ParamEmail        = "email"
	ParamCompanyName  = "companyName"
	ParamLevels       = "levels"
	ParamOffset       = "offset"
	ParamPageSize     = "pageSize"
	ParamFetchDetails = "fetchDetails"
	ParamPurchaseFlag = "purchaseFlag"
)

// Pagination limits.
const (
	// MaxPageSize is the largest page the API returns.
	MaxPageSize = 500

	// DefaultPageSize is the number of items per page used by the CLI.
	DefaultPageSize = 50
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// None is used when no value is present.
	None = "none"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"
)

// Boolean string constants.
const (
	// BooleanTrue string representation.
	BooleanTrue = "true"

	// BooleanFalse string representation.
	BooleanFalse = "false"
)

// Format constants.
const (
	// FormatTable for table output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"
)

// Additional mathematical and calculation constants.
const (
	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2

	// StringTruncationLength is the default length for truncating strings.
	StringTruncationLength = 40
)

// Cache defaults used by the CLI.
const (
	// DefaultCacheTTL is the default cache time-to-live.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultNATSBucket is the default NATS KV bucket.
	DefaultNATSBucket = "arkio-cache"

	// LocalCacheSize bounds the in-process layer in front of a remote cache.
	LocalCacheSize = 256
)
