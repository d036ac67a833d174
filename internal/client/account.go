package client

import (
	"context"
	"errors"

	"github.com/arkio/arkio-client/internal/constants"
	"github.com/arkio/arkio-client/pkg/arkio"
)

// Static errors for err113 compliance.
var (
	errInvalidJSON = errors.New("invalid JSON")
)

// AccountClient implements arkio.AccountClient.
type AccountClient struct {
	requester *requester
}

// NewAccountClient creates a new account client.
func NewAccountClient(requester *requester) *AccountClient {
	return &AccountClient{
		requester: requester,
	}
}

// Authenticate implements arkio.AccountClient.Authenticate. A rejected login
// is an application error; the value is true only when the API accepted the
// credentials.
func (c *AccountClient) Authenticate(ctx context.Context) (*arkio.Result[bool], error) {
	return execute(ctx, c.requester, call{
		operation: arkio.OperationAuthenticate,
		path:      constants.APIPathUser,
		signed:    true,
	}, func(body []byte) (bool, error) {
		err := validJSON(body)
		if err != nil {
			return false, err
		}

		return true, nil
	})
}

// UserInformation implements arkio.AccountClient.UserInformation.
func (c *AccountClient) UserInformation(ctx context.Context) (*arkio.Result[int64], error) {
	return execute(ctx, c.requester, call{
		operation: arkio.OperationUserInformation,
		path:      constants.APIPathUser,
		signed:    true,
	}, func(body []byte) (int64, error) {
		info, err := decodeJSON[arkio.UserInfo](body)
		if err != nil {
			return 0, err
		}

		return info.Points, nil
	})
}
