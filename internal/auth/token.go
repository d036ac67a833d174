package auth

import (
	"context"
	"sync"
)

// TokenManager supplies the developer token sent with every request.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	// SetToken replaces the token. An error reports that the new token was
	// applied but could not be persisted.
	SetToken(token string) error
}

// DeveloperToken holds a developer token that may be replaced while requests
// are in flight. Readers get a consistent snapshot of the current value.
type DeveloperToken struct {
	mutex sync.RWMutex
	token string
}

// NewDeveloperToken creates a holder for token.
func NewDeveloperToken(token string) *DeveloperToken {
	return &DeveloperToken{token: token}
}

// GetToken returns the current token. It never fails; an empty string means
// no token is configured.
func (d *DeveloperToken) GetToken(ctx context.Context) (string, error) {
	return d.Value(), nil
}

// Value returns the current token.
func (d *DeveloperToken) Value() string {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	return d.token
}

// SetToken replaces the token. Requests already built keep the previous value.
// It never fails.
func (d *DeveloperToken) SetToken(token string) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.token = token

	return nil
}
