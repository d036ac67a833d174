package commands

import (
	"github.com/spf13/cobra"

	"github.com/arkio/arkio-client/internal/constants"
	"github.com/arkio/arkio-client/pkg/arkio"
)

// NewServerCommand creates the server command.
func NewServerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Show the resolved API server",
		Long:  "Display the API endpoint resolved from arkio.api.host, arkio.api.path and arkio.api.url",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := arkio.NewServerFromLookup(viperLookup)

			info := struct {
				Endpoint string `json:"endpoint"       yaml:"endpoint"`
				Host     string `json:"host,omitempty" yaml:"host,omitempty"`
				Path     string `json:"path,omitempty" yaml:"path,omitempty"`
			}{
				Endpoint: server.Endpoint().String(),
				Path:     server.Path(),
			}

			if host := server.Host(); host != nil {
				info.Host = host.String()
			}

			return render(cmd.OutOrStdout(), info, []string{"Property", "Value"}, func() [][]string {
				host := info.Host
				if host == "" {
					host = constants.None
				}

				return [][]string{
					{"Endpoint", info.Endpoint},
					{"Host", host},
					{"Path", orNotAvailable(info.Path)},
				}
			})
		},
	}
}
