package commands_test

import "github.com/spf13/cobra"

// findSubcommand returns the direct subcommand of cmd called name, or nil.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, subcmd := range cmd.Commands() {
		if subcmd.Name() == name {
			return subcmd
		}
	}

	return nil
}
