package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/arkio/arkio-client/internal/constants"
	"github.com/arkio/arkio-client/pkg/arkio"
)

// CompaniesClient implements arkio.CompaniesClient.
type CompaniesClient struct {
	requester *requester
}

// NewCompaniesClient creates a new companies client.
func NewCompaniesClient(requester *requester) *CompaniesClient {
	return &CompaniesClient{
		requester: requester,
	}
}

// CompanyStatistics implements arkio.CompaniesClient.CompanyStatistics.
func (c *CompaniesClient) CompanyStatistics(ctx context.Context, companyID int64) (*arkio.Result[*arkio.CompanyStatistics], error) {
	const operation = arkio.OperationCompanyStatistics

	if companyID <= 0 {
		return nil, invalidArgument(operation, "company ID must be positive, got %d", companyID)
	}

	return execute(ctx, c.requester, call{
		operation: operation,
		path:      fmt.Sprintf(constants.APIPathCompanyStatisticsFormat, companyID),
	}, func(body []byte) (*arkio.CompanyStatistics, error) {
		stats, err := decodeJSON[arkio.CompanyStatistics](body)
		if err != nil {
			return nil, err
		}

		if stats.CompanyID == 0 {
			stats.CompanyID = companyID
		}

		return stats, nil
	})
}

// SearchCompanies implements arkio.CompaniesClient.SearchCompanies. The query
// is matched against company names, website domains and stock tickers;
// detailed requests the full company records.
func (c *CompaniesClient) SearchCompanies(ctx context.Context, query string, offset, size int, detailed bool) (*arkio.Result[*arkio.CompanySearchResult], error) {
	const operation = arkio.OperationSearchCompanies

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalidArgument(operation, "query is required")
	}

	params, err := pageQuery(operation, offset, size)
	if err != nil {
		return nil, err
	}

	params.Set(constants.ParamName, query)
	params.Set(constants.ParamFetchDetails, strconv.FormatBool(detailed))

	return execute(ctx, c.requester, call{
		operation: operation,
		path:      constants.APIPathSearchCompany,
		query:     params,
	}, decodeJSON[arkio.CompanySearchResult])
}
