package constants

import "errors"

// Configuration errors.
var (
	ErrNoCredentials       = errors.New("no credentials configured, use 'arkio login' or set ARKIO_ACCOUNT_USERNAME and ARKIO_ACCOUNT_PASSWORD")
	ErrUnknownConfigKey    = errors.New("unknown configuration key")
	ErrConfigKeyNotSet     = errors.New("configuration key is not set")
	ErrInvalidOutputFormat = errors.New("invalid output format, use table, json or yaml")
)

// Validation errors.
var (
	ErrInvalidContactID = errors.New("contact ID must be a positive integer")
	ErrInvalidCompanyID = errors.New("company ID must be a positive integer")
	ErrCompanyRequired  = errors.New("--company flag is required")
)

// Operation errors.
var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRequestRejected      = errors.New("request rejected by the API")
)
