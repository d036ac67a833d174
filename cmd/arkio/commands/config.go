package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/arkio/arkio-client/internal/constants"
	"github.com/arkio/arkio-client/pkg/arkio"
)

// Configuration keys read by the CLI in addition to the arkio.* server and
// account keys.
const (
	APIRateLimitKey = "arkio.api.rate_limit"
	APIRetriesKey   = "arkio.api.retries"
	CacheTypeKey    = "arkio.cache.type"
	CacheURLKey     = "arkio.cache.url"
	CacheAddrKey    = "arkio.cache.addr"
	CacheBucketKey  = "arkio.cache.bucket"
	CacheTTLKey     = "arkio.cache.ttl"
	OutputKey       = "output"
)

// Config represents the CLI configuration file.
type Config struct {
	Arkio  ArkioConfig `json:"arkio"            yaml:"arkio"`
	Output string      `json:"output,omitempty" yaml:"output,omitempty"`
}

// ArkioConfig groups the API, account and cache settings.
type ArkioConfig struct {
	API     APIConfig     `json:"api"     yaml:"api"`
	Account AccountConfig `json:"account" yaml:"account"`
	Cache   CacheConfig   `json:"cache"   yaml:"cache"`
}

// APIConfig holds the server and transport settings.
type APIConfig struct {
	Host      string `json:"host,omitempty"       yaml:"host,omitempty"`
	Path      string `json:"path,omitempty"       yaml:"path,omitempty"`
	URL       string `json:"url,omitempty"        yaml:"url,omitempty"`
	Token     string `json:"token,omitempty"      yaml:"token,omitempty"`
	RateLimit string `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
	Retries   string `json:"retries,omitempty"    yaml:"retries,omitempty"`
}

// AccountConfig holds the default account credentials.
type AccountConfig struct {
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
}

// CacheConfig holds the response cache settings.
type CacheConfig struct {
	Type   string `json:"type,omitempty"   yaml:"type,omitempty"`
	URL    string `json:"url,omitempty"    yaml:"url,omitempty"`
	Addr   string `json:"addr,omitempty"   yaml:"addr,omitempty"`
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	TTL    string `json:"ttl,omitempty"    yaml:"ttl,omitempty"`
}

// configField binds a configuration key to its field.
type configField struct {
	field    func(*Config) *string
	validate func(string) error
	secret   bool
}

var configFields = map[string]configField{
	arkio.APIHostKey:         {field: func(c *Config) *string { return &c.Arkio.API.Host }, validate: validateURL},
	arkio.APIPathKey:         {field: func(c *Config) *string { return &c.Arkio.API.Path }},
	arkio.APIURLKey:          {field: func(c *Config) *string { return &c.Arkio.API.URL }, validate: validateURL},
	arkio.APITokenKey:        {field: func(c *Config) *string { return &c.Arkio.API.Token }, secret: true},
	APIRateLimitKey:          {field: func(c *Config) *string { return &c.Arkio.API.RateLimit }, validate: validateFloat},
	APIRetriesKey:            {field: func(c *Config) *string { return &c.Arkio.API.Retries }, validate: validateInt},
	arkio.AccountUsernameKey: {field: func(c *Config) *string { return &c.Arkio.Account.Username }},
	arkio.AccountPasswordKey: {field: func(c *Config) *string { return &c.Arkio.Account.Password }, secret: true},
	CacheTypeKey:             {field: func(c *Config) *string { return &c.Arkio.Cache.Type }, validate: validateCacheType},
	CacheURLKey:              {field: func(c *Config) *string { return &c.Arkio.Cache.URL }},
	CacheAddrKey:             {field: func(c *Config) *string { return &c.Arkio.Cache.Addr }},
	CacheBucketKey:           {field: func(c *Config) *string { return &c.Arkio.Cache.Bucket }},
	CacheTTLKey:              {field: func(c *Config) *string { return &c.Arkio.Cache.TTL }, validate: validateDuration},
	OutputKey:                {field: func(c *Config) *string { return &c.Output }, validate: validateOutput},
}

// ConfigKeys returns the supported configuration keys, sorted.
func ConfigKeys() []string {
	keys := make([]string, 0, len(configFields))
	for key := range configFields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// BindEnvironment maps every configuration key to its ARKIO_* variable.
func BindEnvironment() {
	for _, key := range ConfigKeys() {
		_ = viper.BindEnv(key, arkio.EnvName(key))
	}
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the settings stored in the arkio configuration file",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := maskConfig(loadConfig())

			return render(cmd.OutOrStdout(), config, []string{"Key", "Value"}, func() [][]string {
				rows := make([][]string, 0, len(configFields))

				for _, key := range ConfigKeys() {
					value := *configFields[key].field(config)
					if value == "" {
						continue
					}

					rows = append(rows, []string{key, value})
				}

				return rows
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value and save it to the configuration file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := setConfigValue(args[0], args[1])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value from the configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := unsetConfigValue(args[0])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

// loadConfig reads the effective configuration from viper.
func loadConfig() *Config {
	config := &Config{}

	for key, binding := range configFields {
		*binding.field(config) = viper.GetString(key)
	}

	return config
}

func maskConfig(config *Config) *Config {
	masked := *config

	for _, binding := range configFields {
		if binding.secret {
			field := binding.field(&masked)
			*field = maskSecret(*field)
		}
	}

	return &masked
}

func setConfigValue(key, value string) error {
	binding, ok := configFields[key]
	if !ok {
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	if binding.validate != nil {
		err := binding.validate(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
	}

	config := loadConfig()
	*binding.field(config) = value

	err := saveConfigStruct(config)
	if err != nil {
		return err
	}

	viper.Set(key, value)

	return nil
}

func unsetConfigValue(key string) error {
	binding, ok := configFields[key]
	if !ok {
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	config := loadConfig()

	field := binding.field(config)
	if *field == "" {
		return fmt.Errorf("%w: %s", constants.ErrConfigKeyNotSet, key)
	}

	*field = ""

	err := saveConfigStruct(config)
	if err != nil {
		return err
	}

	viper.Set(key, "")

	return nil
}

// configFilePath returns the file in use, or ~/.arkio/config.yml.
func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, constants.ConfigDirName, constants.ConfigFileName+"."+constants.ConfigFileType), nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func validateURL(value string) error {
	_, err := arkio.NewServerWithEndpoint(value)

	return err
}

func validateFloat(value string) error {
	_, err := strconv.ParseFloat(value, 64)

	return err
}

func validateInt(value string) error {
	_, err := strconv.Atoi(value)

	return err
}

func validateDuration(value string) error {
	_, err := time.ParseDuration(value)

	return err
}

func validateCacheType(value string) error {
	_, err := arkio.ParseCacheType(value)

	return err
}

func validateOutput(value string) error {
	switch value {
	case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		return nil
	default:
		return constants.ErrInvalidOutputFormat
	}
}
