package commands

import (
	"sync"

	"github.com/spf13/viper"

	"github.com/arkio/arkio-client/pkg/arkio"
)

// ConfigPersister implements the arkio.TokenStore interface.
type ConfigPersister struct {
	mutex sync.Mutex
}

// NewConfigPersister creates a new config persister.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{}
}

// UpdateDeveloperToken saves the developer token to the configuration file.
func (p *ConfigPersister) UpdateDeveloperToken(token string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config := loadConfig()
	config.Arkio.API.Token = token

	err := saveConfigStruct(config)
	if err != nil {
		return err
	}

	viper.Set(arkio.APITokenKey, token)

	return nil
}

var _ arkio.TokenStore = (*ConfigPersister)(nil)
