package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arkio/arkio-client/internal/constants"
)

// NewCompaniesCommand creates the companies command group.
func NewCompaniesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "companies",
		Aliases: []string{"company"},
		Short:   "Search companies",
		Long:    "Search the company directory and show contact statistics",
	}

	cmd.AddCommand(newCompaniesSearchCommand())
	cmd.AddCommand(newCompaniesStatsCommand())

	return cmd
}

func newCompaniesSearchCommand() *cobra.Command {
	var (
		offset   int
		size     int
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search companies",
		Long:  "Search companies by name, website domain or stock ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, closeSession, err := createSession()
			if err != nil {
				return err
			}
			defer closeSession()

			result, err := session.SearchCompanies(context.Background(), args[0], offset, size, detailed)
			if err != nil {
				return fmt.Errorf("failed to search companies: %w", err)
			}

			page, err := unwrapResult(result)
			if err != nil {
				return err
			}

			err = render(cmd.OutOrStdout(), page, []string{"ID", "Name", "Location", "Website", "Contacts"}, func() [][]string {
				rows := make([][]string, 0, len(page.Companies))

				for _, company := range page.Companies {
					rows = append(rows, []string{
						strconv.FormatInt(company.CompanyID, 10),
						truncate(company.Name),
						orNotAvailable(company.Location()),
						orNotAvailable(company.Website),
						strconv.Itoa(company.ActiveContacts),
					})
				}

				return rows
			})
			if err != nil {
				return err
			}

			format, _ := outputFormat()
			if format == constants.FormatTable {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Showing %d of %d companies\n", len(page.Companies), page.TotalHits)
			}

			return nil
		},
	}

	addPageFlags(cmd, &offset, &size)
	cmd.Flags().BoolVar(&detailed, "details", false, "fetch full company records")

	return cmd
}

func newCompaniesStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats COMPANY_ID",
		Short: "Show company contact statistics",
		Long:  "Display contact counts of a company by seniority level and department",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			companyID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || companyID <= 0 {
				return fmt.Errorf("%w: %s", constants.ErrInvalidCompanyID, args[0])
			}

			session, closeSession, err := createSession()
			if err != nil {
				return err
			}
			defer closeSession()

			result, err := session.CompanyStatistics(context.Background(), companyID)
			if err != nil {
				return fmt.Errorf("failed to get company statistics: %w", err)
			}

			stats, err := unwrapResult(result)
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), stats, []string{"Group", "Name", "Contacts"}, func() [][]string {
				rows := [][]string{{"total", constants.None, strconv.Itoa(stats.TotalContacts)}}

				for _, level := range stats.Levels {
					rows = append(rows, []string{"level", level.Level, strconv.Itoa(level.Count)})
				}

				for _, department := range stats.Departments {
					rows = append(rows, []string{"department", department.Department, strconv.Itoa(department.Count)})
				}

				return rows
			})
		},
	}
}
