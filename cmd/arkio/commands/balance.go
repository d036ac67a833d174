package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewBalanceCommand creates the balance command.
func NewBalanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "balance",
		Aliases: []string{"points"},
		Short:   "Show the account point balance",
		Long:    "Display the number of points available to purchase contacts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, closeSession, err := createSession()
			if err != nil {
				return err
			}
			defer closeSession()

			result, err := session.UserInformation(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get user information: %w", err)
			}

			points, err := unwrapResult(result)
			if err != nil {
				return err
			}

			info := struct {
				Username string `json:"username" yaml:"username"`
				Points   int64  `json:"points"   yaml:"points"`
			}{
				Username: session.User().Username,
				Points:   points,
			}

			return render(cmd.OutOrStdout(), info, []string{"Username", "Points"}, func() [][]string {
				return [][]string{{info.Username, strconv.FormatInt(info.Points, 10)}}
			})
		},
	}
}
