package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/arkio/arkio-client/internal/constants"
	internalhttp "github.com/arkio/arkio-client/internal/http"
	"github.com/arkio/arkio-client/pkg/arkio"
)

// call describes one API request.
type call struct {
	operation string
	path      string
	query     url.Values
	// signed requests carry the account credentials.
	signed bool
}

// decodeFunc turns a successful response body into the operation payload.
type decodeFunc[T any] func(body []byte) (T, error)

// decodeJSON decodes body into a new T.
func decodeJSON[T any](body []byte) (*T, error) {
	var value T

	err := json.Unmarshal(body, &value)
	if err != nil {
		return nil, err
	}

	return &value, nil
}

// execute issues c and sorts the outcome into the transport error return or
// the Result. Cacheable operations are served from and stored to the cache.
func execute[T any](ctx context.Context, r *requester, c call, decode decodeFunc[T]) (*arkio.Result[T], error) {
	cacheable := r.cache != nil && !c.signed && r.policy.ShouldCache(c.operation)

	var cacheKey string

	if cacheable {
		cacheKey = r.cacheKey(c)

		result, ok := cachedResult(ctx, r, cacheKey, decode)
		r.metrics.ObserveCacheLookup(c.operation, ok)

		if ok {
			return result, nil
		}
	}

	query := c.query
	if c.signed {
		query = r.signer.Sign(query)
	}

	resp, err := r.httpClient.Do(ctx, &internalhttp.Request{
		Method:    http.MethodGet,
		Path:      c.path,
		Operation: c.operation,
		Query:     query,
	})
	if err != nil {
		return nil, err
	}

	errResp, err := arkio.ParseResponseError(resp.Body)
	if err != nil {
		return nil, malformed(c.operation, resp, err)
	}

	if errResp != nil {
		appErr := errResp.FirstError()
		r.metrics.ObserveApplicationError(c.operation, appErr)

		if r.logger != nil {
			r.logger.Debug("API application error", map[string]interface{}{
				"operation": c.operation,
				"code":      appErr.Code,
				"message":   appErr.Message,
			})
		}

		return arkio.NewAppErrorResult[T](appErr), nil
	}

	value, err := decode(resp.Body)
	if err != nil {
		return nil, malformed(c.operation, resp, err)
	}

	if cacheable {
		err = r.cache.Set(ctx, cacheKey, resp.Body, 0)
		if err != nil && r.logger != nil {
			r.logger.Warn("failed to cache response", map[string]interface{}{
				"operation": c.operation,
				"error":     err.Error(),
			})
		}
	}

	return arkio.NewResult(value), nil
}

func cachedResult[T any](ctx context.Context, r *requester, key string, decode decodeFunc[T]) (*arkio.Result[T], bool) {
	data, err := r.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	value, err := decode(data)
	if err != nil {
		return nil, false
	}

	return arkio.NewResult(value), true
}

// cacheKey derives a backend-safe key from the operation, path and query.
func (r *requester) cacheKey(c call) string {
	params := make(map[string]string, len(c.query))
	for key := range c.query {
		params[key] = c.query.Get(key)
	}

	return r.cache.HashKey(r.cache.GetCacheKey(c.operation, c.path, params))
}

func malformed(operation string, resp *internalhttp.Response, err error) error {
	return &arkio.TransportError{
		Op:         operation,
		StatusCode: resp.StatusCode,
		Err:        fmt.Errorf("%w: %w", arkio.ErrMalformedResponse, err),
	}
}

func invalidArgument(operation, format string, args ...interface{}) error {
	return &arkio.TransportError{
		Op:  operation,
		Err: fmt.Errorf("%w: %s", arkio.ErrInvalidArgument, fmt.Sprintf(format, args...)),
	}
}

// pageQuery validates and encodes an offset and page size.
func pageQuery(operation string, offset, size int) (url.Values, error) {
	if offset < 0 {
		return nil, invalidArgument(operation, "offset must not be negative, got %d", offset)
	}

	if size < 1 || size > constants.MaxPageSize {
		return nil, invalidArgument(operation, "size must be between 1 and %d, got %d", constants.MaxPageSize, size)
	}

	return url.Values{
		constants.ParamOffset:   []string{strconv.Itoa(offset)},
		constants.ParamPageSize: []string{strconv.Itoa(size)},
	}, nil
}

// validJSON accepts an empty body or any well-formed JSON document.
func validJSON(body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && !json.Valid(trimmed) {
		return errInvalidJSON
	}

	return nil
}
