package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Static errors for err113 compliance.
var (
	ErrNoConfigPersister = errors.New("no config persister configured")
)

// ConfigPersister defines the interface for persisting config changes.
type ConfigPersister interface {
	UpdateDeveloperToken(token string) error
}

// ConfigTokenManager wraps a DeveloperToken and persists replacements to the
// configuration file.
type ConfigTokenManager struct {
	token           *DeveloperToken
	configPersister ConfigPersister
	mutex           sync.Mutex
}

// NewConfigTokenManager creates a new config-persisting token manager.
func NewConfigTokenManager(initialToken string, configPersister ConfigPersister) *ConfigTokenManager {
	return &ConfigTokenManager{
		token:           NewDeveloperToken(initialToken),
		configPersister: configPersister,
	}
}

// GetToken returns the current developer token.
func (m *ConfigTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.token.GetToken(ctx)
}

// SetToken replaces the developer token and persists it. A persistence
// failure does not roll back the in-memory token; it is returned.
func (m *ConfigTokenManager) SetToken(token string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	_ = m.token.SetToken(token)

	return m.persistToken(token)
}

// persistToken saves the token to config.
func (m *ConfigTokenManager) persistToken(token string) error {
	if m.configPersister == nil {
		return ErrNoConfigPersister
	}

	err := m.configPersister.UpdateDeveloperToken(token)
	if err != nil {
		return fmt.Errorf("failed to update developer token: %w", err)
	}

	return nil
}
