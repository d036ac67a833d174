package client

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkio/arkio-client/pkg/arkio"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestContactsClient_SearchContacts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     string
		offset    int
		size      int
		wantQuery url.Values
		wantErr   error
	}{
		{
			name:   "by name",
			query:  "John Smith",
			offset: 0,
			size:   25,
			wantQuery: url.Values{
				"name":     {"John Smith"},
				"offset":   {"0"},
				"pageSize": {"25"},
				"token":    {testToken},
			},
		},
		{
			name:   "by email",
			query:  " jsmith@acme.com ",
			offset: 50,
			size:   50,
			wantQuery: url.Values{
				"email":    {"jsmith@acme.com"},
				"offset":   {"50"},
				"pageSize": {"50"},
				"token":    {testToken},
			},
		},
		{
			name:    "empty query",
			query:   "  ",
			size:    10,
			wantErr: arkio.ErrInvalidArgument,
		},
		{
			name:    "negative offset",
			query:   "smith",
			offset:  -1,
			size:    10,
			wantErr: arkio.ErrInvalidArgument,
		},
		{
			name:    "zero size",
			query:   "smith",
			wantErr: arkio.ErrInvalidArgument,
		},
		{
			name:    "oversized page",
			query:   "smith",
			size:    501,
			wantErr: arkio.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false

			client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
				called = true

				assert.Equal(t, "/rest/searchContact.json", request.URL.Path)
				assert.Equal(t, tt.wantQuery, request.URL.Query())

				writeJSON(t, writer, arkio.ContactSearchResult{
					TotalHits: 1,
					Contacts:  []arkio.Contact{{ContactID: 9, FirstName: "John", LastName: "Smith"}},
				})
			})

			result, err := client.SearchContacts(context.Background(), tt.query, tt.offset, tt.size)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, arkio.IsTransportError(err))
				assert.Nil(t, result)
				assert.False(t, called)

				return
			}

			require.NoError(t, err)
			require.True(t, result.OK())
			assert.Equal(t, 1, result.Value.TotalHits)
			require.Len(t, result.Value.Contacts, 1)
			assert.Equal(t, "John Smith", result.Value.Contacts[0].FullName())
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestContactsClient_SearchContactsByCompany(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		search    *arkio.ContactSearch
		wantQuery url.Values
		wantErr   error
	}{
		{
			name:   "company only",
			search: &arkio.ContactSearch{CompanyName: "Acme", Size: 10},
			wantQuery: url.Values{
				"companyName": {"Acme"},
				"offset":      {"0"},
				"pageSize":    {"10"},
				"token":       {testToken},
			},
		},
		{
			name: "all criteria",
			search: &arkio.ContactSearch{
				CompanyName: "Acme",
				FirstLast:   "Jane Doe",
				Level:       arkio.ContactLevelVicePresident,
				Offset:      20,
				Size:        20,
			},
			wantQuery: url.Values{
				"companyName": {"Acme"},
				"name":        {"Jane Doe"},
				"levels":      {"VP"},
				"offset":      {"20"},
				"pageSize":    {"20"},
				"token":       {testToken},
			},
		},
		{
			name:    "nil criteria",
			wantErr: arkio.ErrInvalidArgument,
		},
		{
			name:    "missing company",
			search:  &arkio.ContactSearch{FirstLast: "Jane Doe", Size: 10},
			wantErr: arkio.ErrInvalidArgument,
		},
		{
			name:    "unknown level",
			search:  &arkio.ContactSearch{CompanyName: "Acme", Level: arkio.ContactLevel(99), Size: 10},
			wantErr: arkio.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, "/rest/searchContact.json", request.URL.Path)
				assert.Equal(t, tt.wantQuery, request.URL.Query())

				writeJSON(t, writer, arkio.ContactSearchResult{TotalHits: 0, Contacts: []arkio.Contact{}})
			})

			result, err := client.SearchContactsByCompany(context.Background(), tt.search)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)

				return
			}

			require.NoError(t, err)
			require.True(t, result.OK())
			assert.Empty(t, result.Value.Contacts)
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestContactsClient_Contact(t *testing.T) {
	t.Parallel()

	t.Run("purchases contact", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/rest/contacts/1234.json", request.URL.Path)

			query := request.URL.Query()
			assert.Equal(t, "true", query.Get("purchaseFlag"))
			assert.Equal(t, testUsername, query.Get("username"))
			assert.Equal(t, testPassword, query.Get("password"))
			assert.Equal(t, testToken, query.Get("token"))

			writeJSON(t, writer, arkio.Contact{
				ContactID:   1234,
				FirstName:   "Ada",
				LastName:    "Lovelace",
				Email:       "ada@example.com",
				CompanyName: "Analytical Engines",
				Owned:       true,
			})
		})

		result, err := client.Contact(context.Background(), 1234)
		require.NoError(t, err)
		require.True(t, result.OK())
		assert.Equal(t, int64(1234), result.Value.ContactID)
		assert.Equal(t, "ada@example.com", result.Value.Email)
		assert.True(t, result.Value.Owned)
	})

	t.Run("insufficient points", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			writeJSON(t, writer, []arkio.APIError{{
				Code:    arkio.ErrorCodePurchaseLowPoints,
				Message: "not enough points",
			}})
		})

		result, err := client.Contact(context.Background(), 1234)
		require.NoError(t, err)
		assert.Nil(t, result.Value)
		require.NotNil(t, result.AppError)
		assert.True(t, arkio.IsInsufficientPoints(result.AppError))
		assert.False(t, result.OK())
	})

	t.Run("contact does not exist", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			writeJSON(t, writer, []arkio.APIError{{Code: arkio.ErrorCodeNotFound, Message: "no such contact"}})
		})

		result, err := client.Contact(context.Background(), 99)
		require.NoError(t, err)
		assert.Nil(t, result.Value)
		assert.True(t, arkio.IsNotFound(result.AppError))
	})

	t.Run("invalid ID", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			t.Error("no request expected")
		})

		for _, id := range []int64{0, -5} {
			result, err := client.Contact(context.Background(), id)
			require.ErrorIs(t, err, arkio.ErrInvalidArgument)
			assert.Nil(t, result)
		}
	})
}
