package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/arkio/arkio-client/internal/constants"
	"github.com/arkio/arkio-client/pkg/arkio"
)

// ContactsClient implements arkio.ContactsClient.
type ContactsClient struct {
	requester *requester
}

// NewContactsClient creates a new contacts client.
func NewContactsClient(requester *requester) *ContactsClient {
	return &ContactsClient{
		requester: requester,
	}
}

// SearchContacts implements arkio.ContactsClient.SearchContacts. A query
// containing "@" is matched against email addresses, anything else against
// contact names.
func (c *ContactsClient) SearchContacts(ctx context.Context, query string, offset, size int) (*arkio.Result[*arkio.ContactSearchResult], error) {
	const operation = arkio.OperationSearchContacts

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalidArgument(operation, "query is required")
	}

	params, err := pageQuery(operation, offset, size)
	if err != nil {
		return nil, err
	}

	if strings.Contains(query, "@") {
		params.Set(constants.ParamEmail, query)
	} else {
		params.Set(constants.ParamName, query)
	}

	return execute(ctx, c.requester, call{
		operation: operation,
		path:      constants.APIPathSearchContact,
		query:     params,
	}, decodeJSON[arkio.ContactSearchResult])
}

// SearchContactsByCompany implements arkio.ContactsClient.SearchContactsByCompany.
func (c *ContactsClient) SearchContactsByCompany(ctx context.Context, search *arkio.ContactSearch) (*arkio.Result[*arkio.ContactSearchResult], error) {
	const operation = arkio.OperationSearchContactsByCompany

	if search == nil {
		return nil, invalidArgument(operation, "search criteria are required")
	}

	companyName := strings.TrimSpace(search.CompanyName)
	if companyName == "" {
		return nil, invalidArgument(operation, "company name is required")
	}

	params, err := pageQuery(operation, search.Offset, search.Size)
	if err != nil {
		return nil, err
	}

	params.Set(constants.ParamCompanyName, companyName)

	firstLast := strings.TrimSpace(search.FirstLast)
	if firstLast != "" {
		params.Set(constants.ParamName, firstLast)
	}

	if search.Level != arkio.ContactLevelAny {
		level := search.Level.String()
		if level == "" {
			return nil, invalidArgument(operation, "%v", fmt.Errorf("%w: %d", arkio.ErrInvalidContactLevel, search.Level))
		}

		params.Set(constants.ParamLevels, level)
	}

	return execute(ctx, c.requester, call{
		operation: operation,
		path:      constants.APIPathSearchContact,
		query:     params,
	}, decodeJSON[arkio.ContactSearchResult])
}

// Contact implements arkio.ContactsClient.Contact. The request purchases the
// contact; when the account lacks points the result carries the
// PURCHASE_LOW_POINTS application error and no contact.
func (c *ContactsClient) Contact(ctx context.Context, contactID int64) (*arkio.Result[*arkio.Contact], error) {
	const operation = arkio.OperationContact

	if contactID <= 0 {
		return nil, invalidArgument(operation, "contact ID must be positive, got %d", contactID)
	}

	params := make(map[string][]string, 1)
	params[constants.ParamPurchaseFlag] = []string{constants.BooleanTrue}

	return execute(ctx, c.requester, call{
		operation: operation,
		path:      fmt.Sprintf(constants.APIPathContactFormat, contactID),
		query:     params,
		signed:    true,
	}, decodeJSON[arkio.Contact])
}
