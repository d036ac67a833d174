package arkio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError represents an application error reported by the Data.com API
// inside an otherwise successful HTTP exchange.
type APIError struct {
	Code    string `json:"errorCode" yaml:"error_code"`
	Message string `json:"errorMsg"  yaml:"error_msg"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Code
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ResponseError represents an error payload returned by the API.
type ResponseError struct {
	Errors []APIError `json:"errors"`
}

// Error implements the error interface for ResponseError.
func (e *ResponseError) Error() string {
	if len(e.Errors) == 0 {
		return "unknown error"
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	messages := make([]string, 0, len(e.Errors))
	for i := range e.Errors {
		messages = append(messages, e.Errors[i].Error())
	}

	return "multiple errors: " + strings.Join(messages, "; ")
}

// FirstError returns the first error or nil.
func (e *ResponseError) FirstError() *APIError {
	if len(e.Errors) > 0 {
		return &e.Errors[0]
	}

	return nil
}

// Application error codes returned by the API.
const (
	ErrorCodeLoginFail          = "LOGIN_FAIL"
	ErrorCodeTokenFail          = "TOKEN_FAIL"
	ErrorCodePurchaseLowPoints  = "PURCHASE_LOW_POINTS"
	ErrorCodeNotFound           = "CONTACT_NOT_EXIST"
	ErrorCodeCompanyNotFound    = "COMPANY_NOT_EXIST"
	ErrorCodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	ErrorCodeParamRequired      = "PARAM_REQUIRED"
	ErrorCodeSearchError        = "SEARCH_ERROR"
	ErrorCodeSystemError        = "SYS_ERROR"
	ErrorCodeInvalidDeveloperID = "INVALID_DEVELOPER_TOKEN"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired        = errors.New("config is required")
	ErrServerRequired        = errors.New("server is required")
	ErrUserRequired          = errors.New("user is required")
	ErrUsernameRequired      = errors.New("username is required")
	ErrPasswordRequired      = errors.New("password is required")
	ErrInvalidURL            = errors.New("invalid URL")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrUnexpectedStatus      = errors.New("unexpected HTTP status")
	ErrMalformedResponse     = errors.New("malformed response body")
	ErrInvalidContactLevel   = errors.New("invalid contact level")
	ErrCacheMiss             = errors.New("key not found")
	ErrCacheEntryExpired     = errors.New("entry expired")
	ErrCacheDisabled         = errors.New("cache disabled")
	ErrKeyNotFoundInAnyCache = errors.New("key not found in any cache")
	ErrNATSConfigRequired    = errors.New("NATS configuration required for NATS cache")
	ErrRedisConfigRequired   = errors.New("redis configuration required for redis cache")
	ErrUnsupportedCacheType  = errors.New("unsupported cache type")
)

// TransportError is returned when the HTTP exchange itself failed: the server
// was unreachable, replied with a non-2xx status, or sent a body that could
// not be decoded. It is never used for application errors.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err is, or wraps, a TransportError.
func IsTransportError(err error) bool {
	transportErr := &TransportError{}

	return errors.As(err, &transportErr)
}

// IsInsufficientPoints reports whether the application error signals that the
// account does not hold enough points for a purchase.
func IsInsufficientPoints(err error) bool {
	return hasCode(err, ErrorCodePurchaseLowPoints)
}

// IsNotFound reports whether the application error signals a missing contact
// or company.
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound) || hasCode(err, ErrorCodeCompanyNotFound)
}

// IsLoginFailure reports whether the application error signals rejected
// account credentials.
func IsLoginFailure(err error) bool {
	return hasCode(err, ErrorCodeLoginFail)
}

// IsRateLimited reports whether the application error signals that the
// developer token exceeded its request quota.
func IsRateLimited(err error) bool {
	return hasCode(err, ErrorCodeRateLimited)
}

func hasCode(err error, code string) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}

	errResp := &ResponseError{}
	if errors.As(err, &errResp) {
		first := errResp.FirstError()
		if first != nil {
			return first.Code == code
		}
	}

	return false
}

// ParseResponseError extracts application errors from a response body. The
// API reports them either as a bare JSON array of error objects, as an object
// with an "errors" array, or as a single error object. It returns nil, nil
// when the body is valid JSON that carries no error.
func ParseResponseError(data []byte) (*ResponseError, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var list []APIError

		err := json.Unmarshal(trimmed, &list)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal response error: %w", err)
		}

		list = withCode(list)
		if len(list) == 0 {
			return nil, nil
		}

		return &ResponseError{Errors: list}, nil
	case '{':
		var envelope struct {
			Errors []APIError `json:"errors"`
			APIError
		}

		err := json.Unmarshal(trimmed, &envelope)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal response error: %w", err)
		}

		list := withCode(envelope.Errors)
		if envelope.Code != "" {
			list = append(list, envelope.APIError)
		}

		if len(list) == 0 {
			return nil, nil
		}

		return &ResponseError{Errors: list}, nil
	default:
		return nil, nil
	}
}

func withCode(list []APIError) []APIError {
	out := list[:0]

	for _, apiErr := range list {
		if apiErr.Code != "" {
			out = append(out, apiErr)
		}
	}

	return out
}
