package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arkio/arkio-client/cmd/arkio/commands"
	"github.com/arkio/arkio-client/internal/constants"
	"github.com/arkio/arkio-client/pkg/arkio"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "arkio",
	Short: "Data.com contact and company API CLI",
	Long: `A command-line interface for the Data.com (Jigsaw) contact and company API.

This CLI searches contacts and companies, shows company statistics, purchases
contact records and reports the account point balance.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.arkio/config.yml)")
	flags.String("host", "", "API host URL")
	flags.String("path", "", "API path on the host")
	flags.StringP("api", "a", "", "API endpoint URL")
	flags.StringP("token", "t", "", "developer token")
	flags.String("output", constants.FormatTable, "output format (table, json, yaml)")
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.String("cache", "", "response cache backend (memory, nats, redis)")

	// Bind flags to viper
	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag(arkio.APIHostKey, flags.Lookup("host"))
	_ = viper.BindPFlag(arkio.APIPathKey, flags.Lookup("path"))
	_ = viper.BindPFlag(arkio.APIURLKey, flags.Lookup("api"))
	_ = viper.BindPFlag(arkio.APITokenKey, flags.Lookup("token"))
	_ = viper.BindPFlag(commands.OutputKey, flags.Lookup("output"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag(commands.CacheTypeKey, flags.Lookup("cache"))

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewLoginCommand())
	rootCmd.AddCommand(commands.NewBalanceCommand())
	rootCmd.AddCommand(commands.NewContactsCommand())
	rootCmd.AddCommand(commands.NewCompaniesCommand())
	rootCmd.AddCommand(commands.NewServerCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.arkio/config.yml
		viper.AddConfigPath(filepath.Join(home, constants.ConfigDirName))
		viper.SetConfigType(constants.ConfigFileType)
		viper.SetConfigName(constants.ConfigFileName)
	}

	// Read ARKIO_* environment variables
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.AutomaticEnv()
	commands.BindEnvironment()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
