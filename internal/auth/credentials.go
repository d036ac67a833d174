package auth

import (
	"net/url"

	"github.com/arkio/arkio-client/pkg/arkio"
)

// Query parameters carrying the account credentials.
const (
	UsernameParam = "username"
	PasswordParam = "password"
)

// CredentialSigner adds account credentials to request queries.
type CredentialSigner struct {
	username string
	password string
}

// NewCredentialSigner creates a signer for user. The credentials are copied.
func NewCredentialSigner(user *arkio.User) (*CredentialSigner, error) {
	err := user.Validate()
	if err != nil {
		return nil, err
	}

	return &CredentialSigner{username: user.Username, password: user.Password}, nil
}

// Sign returns a copy of query carrying the username and password.
func (s *CredentialSigner) Sign(query url.Values) url.Values {
	signed := make(url.Values, len(query)+2)
	for key, values := range query {
		signed[key] = append([]string(nil), values...)
	}

	signed.Set(UsernameParam, s.username)
	signed.Set(PasswordParam, s.password)

	return signed
}

// SensitiveParams lists query parameters that must never be logged.
var SensitiveParams = []string{PasswordParam, arkio.DeveloperTokenKey}

// Redact returns a copy of query with every sensitive value masked.
func Redact(query url.Values) url.Values {
	redacted := make(url.Values, len(query))
	for key, values := range query {
		redacted[key] = append([]string(nil), values...)
	}

	for _, key := range SensitiveParams {
		if _, ok := redacted[key]; ok {
			redacted.Set(key, "REDACTED")
		}
	}

	return redacted
}
