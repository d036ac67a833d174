package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arkio/arkio-client/internal/constants"
	"github.com/arkio/arkio-client/pkg/arkio"
)

// NewContactsCommand creates the contacts command group.
func NewContactsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contacts",
		Aliases: []string{"contact"},
		Short:   "Search and purchase contacts",
		Long:    "Search the contact directory and purchase full contact records",
	}

	cmd.AddCommand(newContactsSearchCommand())
	cmd.AddCommand(newContactsByCompanyCommand())
	cmd.AddCommand(newContactsGetCommand())

	return cmd
}

func newContactsSearchCommand() *cobra.Command {
	var offset, size int

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search contacts by name or email",
		Long:  "Search contacts by name, or by email address when QUERY contains '@'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, closeSession, err := createSession()
			if err != nil {
				return err
			}
			defer closeSession()

			result, err := session.SearchContacts(context.Background(), args[0], offset, size)
			if err != nil {
				return fmt.Errorf("failed to search contacts: %w", err)
			}

			return renderContactSearch(cmd, result)
		},
	}

	addPageFlags(cmd, &offset, &size)

	return cmd
}

func newContactsByCompanyCommand() *cobra.Command {
	var (
		company string
		name    string
		level   string
		offset  int
		size    int
	)

	cmd := &cobra.Command{
		Use:   "by-company",
		Short: "Search contacts at a company",
		Long:  "Search contacts employed at a company, optionally filtered by name and seniority level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if company == "" {
				return constants.ErrCompanyRequired
			}

			contactLevel, err := arkio.ParseContactLevel(level)
			if err != nil {
				return err
			}

			session, closeSession, err := createSession()
			if err != nil {
				return err
			}
			defer closeSession()

			result, err := session.SearchContactsByCompany(context.Background(), &arkio.ContactSearch{
				CompanyName: company,
				FirstLast:   name,
				Level:       contactLevel,
				Offset:      offset,
				Size:        size,
			})
			if err != nil {
				return fmt.Errorf("failed to search contacts: %w", err)
			}

			return renderContactSearch(cmd, result)
		},
	}

	cmd.Flags().StringVar(&company, "company", "", "company name (required)")
	cmd.Flags().StringVar(&name, "name", "", "contact first and last name")
	cmd.Flags().StringVar(&level, "level", "", "seniority level (c-level, vp, director, manager, staff, other)")
	addPageFlags(cmd, &offset, &size)

	return cmd
}

func newContactsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get CONTACT_ID",
		Short: "Purchase a contact record",
		Long:  "Retrieve the full record of a contact. This spends points unless the contact is already owned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contactID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || contactID <= 0 {
				return fmt.Errorf("%w: %s", constants.ErrInvalidContactID, args[0])
			}

			session, closeSession, err := createSession()
			if err != nil {
				return err
			}
			defer closeSession()

			result, err := session.Contact(context.Background(), contactID)
			if err != nil {
				return fmt.Errorf("failed to get contact: %w", err)
			}

			contact, err := unwrapResult(result)
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), contact, []string{"Property", "Value"}, func() [][]string {
				return [][]string{
					{"ID", strconv.FormatInt(contact.ContactID, 10)},
					{"Name", contact.FullName()},
					{"Title", orNotAvailable(contact.Title)},
					{"Company", orNotAvailable(contact.CompanyName)},
					{"Email", orNotAvailable(contact.Email)},
					{"Phone", orNotAvailable(contact.Phone)},
					{"Address", orNotAvailable(contact.Address)},
					{"City", orNotAvailable(contact.City)},
					{"State", orNotAvailable(contact.State)},
					{"Country", orNotAvailable(contact.Country)},
					{"Updated", orNotAvailable(contact.UpdatedDate)},
				}
			})
		},
	}
}

func addPageFlags(cmd *cobra.Command, offset, size *int) {
	cmd.Flags().IntVar(offset, "offset", 0, "index of the first result")
	cmd.Flags().IntVar(size, "size", constants.DefaultPageSize, fmt.Sprintf("results per page (max %d)", constants.MaxPageSize))
}

func renderContactSearch(cmd *cobra.Command, result *arkio.Result[*arkio.ContactSearchResult]) error {
	page, err := unwrapResult(result)
	if err != nil {
		return err
	}

	err = render(cmd.OutOrStdout(), page, []string{"ID", "Name", "Title", "Company", "Owned"}, func() [][]string {
		rows := make([][]string, 0, len(page.Contacts))

		for _, contact := range page.Contacts {
			rows = append(rows, []string{
				strconv.FormatInt(contact.ContactID, 10),
				contact.FullName(),
				truncate(contact.Title),
				truncate(contact.CompanyName),
				strconv.FormatBool(contact.Owned),
			})
		}

		return rows
	})
	if err != nil {
		return err
	}

	format, _ := outputFormat()
	if format == constants.FormatTable {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Showing %d of %d contacts\n", len(page.Contacts), page.TotalHits)
	}

	return nil
}
