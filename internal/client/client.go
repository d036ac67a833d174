package client

import (
	"context"
	"fmt"

	"github.com/arkio/arkio-client/internal/auth"
	"github.com/arkio/arkio-client/internal/constants"
	"github.com/arkio/arkio-client/internal/http"
	"github.com/arkio/arkio-client/pkg/arkio"
)

// Client implements the arkio.Session interface.
type Client struct {
	server       *arkio.Server
	user         arkio.User
	tokenManager auth.TokenManager

	*AccountClient
	*ContactsClient
	*CompaniesClient
}

// requester is shared by the resource clients of one session.
type requester struct {
	httpClient *http.Client
	signer     *auth.CredentialSigner
	logger     arkio.Logger
	metrics    *arkio.Metrics
	cache      *arkio.CacheManager
	policy     *arkio.CachingPolicy
}

// createTokenManager holds the developer token, persisting replacements when
// the config carries a store.
func createTokenManager(config *arkio.Config) auth.TokenManager {
	if config.TokenStore != nil {
		return auth.NewConfigTokenManager(config.DeveloperToken, config.TokenStore)
	}

	return auth.NewDeveloperToken(config.DeveloperToken)
}

// createInterceptorChain builds the chain run around every request: rate
// limiting first, then request IDs, metrics, logging, and finally the
// caller's own interceptors.
func createInterceptorChain(config *arkio.Config) *arkio.InterceptorChain {
	chain := arkio.NewInterceptorChain()

	if config.RateLimit > 0 {
		chain.AddRequestInterceptor(arkio.RateLimitInterceptor(arkio.NewRateLimiter(config.RateLimit, config.RateBurst)))
	}

	chain.AddRequestInterceptor(arkio.RequestIDInterceptor())

	if config.Metrics != nil {
		chain.AddRequestInterceptor(config.Metrics.RequestInterceptor())
		chain.AddResponseInterceptor(config.Metrics.ResponseInterceptor())
	}

	if config.Logger != nil {
		chain.AddResponseInterceptor(arkio.LoggingResponseInterceptor(config.Logger))
	}

	chain.Append(config.Interceptors)

	return chain
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *arkio.Config, chain *arkio.InterceptorChain) []http.Option {
	httpOpts := []http.Option{http.WithInterceptors(chain)}

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// createCacheManager returns nil when caching is off.
func createCacheManager(config *arkio.Config) *arkio.CacheManager {
	if config.Cache == nil {
		return nil
	}

	options := arkio.DefaultCacheOptions()
	if config.CacheTTL > 0 {
		options.TTL = config.CacheTTL
	}

	return arkio.NewCacheManager(config.Cache, options)
}

// New creates a session from config. The user is copied; the server is
// resolved from the environment when config.Server is nil.
func New(config *arkio.Config) (*Client, error) {
	if config == nil {
		return nil, arkio.ErrConfigRequired
	}

	signer, err := auth.NewCredentialSigner(config.User)
	if err != nil {
		return nil, err
	}

	server := config.Server
	if server == nil {
		server = arkio.DefaultServer()
	}

	tokenManager := createTokenManager(config)
	chain := createInterceptorChain(config)
	httpClient := http.NewClient(server.Endpoint().String(), tokenManager, createHTTPClientOptions(config, chain)...)

	policy := config.CachingPolicy
	if policy == nil {
		policy = arkio.DefaultCachingPolicy()
	}

	req := &requester{
		httpClient: httpClient,
		signer:     signer,
		logger:     config.Logger,
		metrics:    config.Metrics,
		cache:      createCacheManager(config),
		policy:     policy,
	}

	return &Client{
		server:          server,
		user:            *config.User,
		tokenManager:    tokenManager,
		AccountClient:   NewAccountClient(req),
		ContactsClient:  NewContactsClient(req),
		CompaniesClient: NewCompaniesClient(req),
	}, nil
}

// User returns a copy of the session user.
func (c *Client) User() *arkio.User {
	user := c.user

	return &user
}

// Server returns the server the session sends requests to.
func (c *Client) Server() *arkio.Server {
	return c.server
}

// DeveloperToken returns the developer token sent with new requests.
func (c *Client) DeveloperToken() string {
	token, err := c.tokenManager.GetToken(context.Background())
	if err != nil {
		return ""
	}

	return token
}

// SetDeveloperToken replaces the developer token. Requests already in flight
// keep the token they were built with. With a TokenStore configured, a failure
// to persist the token is returned; the new token is used either way.
func (c *Client) SetDeveloperToken(token string) error {
	err := c.tokenManager.SetToken(token)
	if err != nil {
		return fmt.Errorf("persisting developer token: %w", err)
	}

	return nil
}

var _ arkio.Session = (*Client)(nil)
