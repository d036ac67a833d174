package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/arkio/arkio-client/internal/constants"
	"github.com/arkio/arkio-client/pkg/arkclient"
	"github.com/arkio/arkio-client/pkg/arkio"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		username string
		password string
		token    string
		save     bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify account credentials",
		Long:  "Authenticate with the Data.com API and optionally save the credentials as the default account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error

			if username == "" {
				username = viper.GetString(arkio.AccountUsernameKey)
			}

			if username == "" {
				username, err = promptLine(cmd.OutOrStdout(), cmd.InOrStdin(), "Username: ")
				if err != nil {
					return err
				}
			}

			if password == "" {
				password, err = promptPassword(cmd.OutOrStdout())
				if err != nil {
					return err
				}
			}

			opts, closeCache, err := sessionOptions()
			if err != nil {
				return err
			}
			defer closeCache()

			session, err := arkclient.NewWithPassword(username, password, opts...)
			if err != nil {
				return fmt.Errorf("failed to create session: %w", err)
			}

			if token != "" {
				err = session.SetDeveloperToken(token)
				if err != nil {
					return fmt.Errorf("failed to save developer token: %w", err)
				}
			}

			result, err := session.Authenticate(context.Background())
			if err != nil {
				return fmt.Errorf("failed to connect to API: %w", err)
			}

			if result.AppError != nil {
				return fmt.Errorf("%w: %w", constants.ErrAuthenticationFailed, result.AppError)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Authenticated as %s at %s\n", username, session.Server())

			if save {
				err = saveCredentials(username, password)
				if err != nil {
					return err
				}

				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Credentials saved")
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when omitted)")
	cmd.Flags().StringVar(&token, "token", "", "replace the developer token and save it to the config file")
	cmd.Flags().BoolVar(&save, "save", false, "save the credentials as the default account")

	return cmd
}

func saveCredentials(username, password string) error {
	config := loadConfig()
	config.Arkio.Account.Username = username
	config.Arkio.Account.Password = password

	err := saveConfigStruct(config)
	if err != nil {
		return err
	}

	viper.Set(arkio.AccountUsernameKey, username)
	viper.Set(arkio.AccountPasswordKey, password)

	return nil
}

func promptLine(out io.Writer, in io.Reader, prompt string) (string, error) {
	_, _ = fmt.Fprint(out, prompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

func promptPassword(out io.Writer) (string, error) {
	_, _ = fmt.Fprint(out, "Password: ")

	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	_, _ = fmt.Fprintln(out)

	return string(bytePassword), nil
}
