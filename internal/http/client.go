// Package http is the transport used by sessions: it signs each request with
// the developer token, runs interceptors, and reports every failure as an
// arkio.TransportError.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/arkio/arkio-client/internal/auth"
	"github.com/arkio/arkio-client/internal/constants"
	"github.com/arkio/arkio-client/pkg/arkio"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "arkio-client-go"

// Request is an API request relative to the client's base URL.
type Request struct {
	Method    string
	Path      string
	Operation string
	Query     url.Values
	Headers   map[string]string
}

// Response is a completed HTTP exchange.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client sends API requests.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	tokenManager auth.TokenManager
	interceptors *arkio.InterceptorChain
	logger       arkio.Logger
	userAgent    string
	debug        bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug and retry logging.
func WithLogger(logger arkio.Logger) Option {
	return func(c *Client) {
		c.logger = logger
		if logger != nil {
			c.httpClient.Logger = &leveledLogger{logger: logger}
		}
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithRetryConfig enables retries on connection errors, 5xx and 429
// responses, with exponential backoff between waitMin and waitMax.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		if waitMin > 0 {
			c.httpClient.RetryWaitMin = waitMin
		}

		if waitMax > 0 {
			c.httpClient.RetryWaitMax = waitMax
		}
	}
}

// WithTimeout bounds a single HTTP attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.HTTPClient.Timeout = timeout
		}
	}
}

// WithInterceptors sets the interceptor chain run around every request.
func WithInterceptors(chain *arkio.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a client for baseURL. A nil tokenManager sends no
// developer token.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout

	client := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   retryClient,
		tokenManager: tokenManager,
		userAgent:    DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the URL every request path is appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Do sends req. The developer token is read once and added to the query. A
// non-2xx status is returned together with the response; every error is an
// *arkio.TransportError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	operation := req.Operation
	if operation == "" {
		operation = req.Method + " " + req.Path
	}

	fail := func(statusCode int, err error) error {
		return &arkio.TransportError{Op: operation, StatusCode: statusCode, Err: err}
	}

	query := make(url.Values, len(req.Query)+1)
	for key, values := range req.Query {
		query[key] = append([]string(nil), values...)
	}

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fail(0, fmt.Errorf("getting developer token: %w", err))
		}

		if token != "" {
			query.Set(arkio.DeveloperTokenKey, token)
		}
	}

	intercepted := &arkio.Request{
		Method:    req.Method,
		Path:      req.Path,
		Operation: req.Operation,
		Headers:   make(http.Header),
		Metadata:  make(map[string]interface{}),
	}

	intercepted.Headers.Set("Accept", "application/json")
	intercepted.Headers.Set("User-Agent", c.userAgent)

	for key, value := range req.Headers {
		intercepted.Headers.Set(key, value)
	}

	err := c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
	if err != nil {
		return nil, fail(0, err)
	}

	fullURL, err := c.requestURL(req.Path, query)
	if err != nil {
		return nil, fail(0, fmt.Errorf("building request URL: %w", err))
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, nil)
	if err != nil {
		return nil, fail(0, fmt.Errorf("creating request: %w", err))
	}

	httpReq.Header = intercepted.Headers.Clone()

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method":    req.Method,
			"url":       redactURL(fullURL),
			"operation": req.Operation,
		})
	}

	start := time.Now()

	resp, err := c.doRequest(httpReq)

	interceptedResp := &arkio.Response{Error: err}
	if resp != nil {
		interceptedResp.StatusCode = resp.StatusCode
		interceptedResp.Headers = resp.Headers
		interceptedResp.Body = resp.Body
	}

	c.runResponseInterceptors(ctx, intercepted, interceptedResp)

	if err != nil {
		statusCode := 0
		if resp != nil {
			statusCode = resp.StatusCode
		}

		return nil, fail(statusCode, err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status_code": resp.StatusCode,
			"duration":    time.Since(start).String(),
			"size":        len(resp.Body),
			"operation":   req.Operation,
		})
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return resp, fail(resp.StatusCode, statusError(resp))
	}

	return resp, nil
}

// requestURL resolves path against the base URL. Query values already present
// on the base URL are kept unless query sets the same key.
func (c *Client) requestURL(path string, query url.Values) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}

	target := base.JoinPath(path)

	merged := base.Query()
	for key, values := range query {
		merged[key] = values
	}

	target.RawQuery = merged.Encode()

	return target.String(), nil
}

func (c *Client) doRequest(httpReq *retryablehttp.Request) (*Response, error) {
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", redactError(err))
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return &Response{StatusCode: httpResp.StatusCode, Headers: httpResp.Header},
			fmt.Errorf("reading response body: %w", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}, nil
}

func (c *Client) runResponseInterceptors(ctx context.Context, req *arkio.Request, resp *arkio.Response) {
	err := c.interceptors.ExecuteResponseInterceptors(ctx, req, resp)
	if err != nil && c.logger != nil {
		c.logger.Warn("response interceptor failed", map[string]interface{}{
			"operation": req.Operation,
			"error":     err.Error(),
		})
	}
}

// statusError returns the API errors carried by a non-2xx body, or
// ErrUnexpectedStatus when there are none.
func statusError(resp *Response) error {
	errResp, err := arkio.ParseResponseError(resp.Body)
	if err == nil && errResp != nil {
		return errResp
	}

	return fmt.Errorf("%w: %d %s", arkio.ErrUnexpectedStatus, resp.StatusCode, http.StatusText(resp.StatusCode))
}

// redactURL masks the sensitive query values of raw, as listed by
// auth.SensitiveParams. A query that does not parse is dropped.
func redactURL(raw string) string {
	base, rawQuery, found := strings.Cut(raw, "?")
	if !found {
		return raw
	}

	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return base
	}

	return base + "?" + auth.Redact(query).Encode()
}

// redactText masks credentials in every URL quoted in text.
func redactText(text string) string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == '"'
	})

	for _, word := range words {
		redacted := redactURL(word)
		if redacted != word {
			text = strings.ReplaceAll(text, word, redacted)
		}
	}

	return text
}

// redactError strips credentials from errors that quote the request URL.
func redactError(err error) error {
	urlErr := &url.Error{}
	if errors.As(err, &urlErr) {
		return &url.Error{Op: urlErr.Op, URL: redactURL(urlErr.URL), Err: urlErr.Err}
	}

	return err
}
