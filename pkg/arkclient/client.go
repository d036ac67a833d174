package arkclient

import (
	"fmt"
	"time"

	"github.com/arkio/arkio-client/internal/client"
	"github.com/arkio/arkio-client/pkg/arkio"
)

// Option configures a session built by one of the convenience constructors.
type Option func(*arkio.Config)

// WithDeveloperToken sets the developer token sent with every request.
func WithDeveloperToken(token string) Option {
	return func(config *arkio.Config) {
		config.DeveloperToken = token
	}
}

// WithServer overrides the default server.
func WithServer(server *arkio.Server) Option {
	return func(config *arkio.Config) {
		config.Server = server
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger arkio.Logger) Option {
	return func(config *arkio.Config) {
		config.Logger = logger
	}
}

// WithDebug enables HTTP request and response logging.
func WithDebug(debug bool) Option {
	return func(config *arkio.Config) {
		config.Debug = debug
	}
}

// WithHTTPTimeout bounds a single HTTP attempt.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(config *arkio.Config) {
		config.HTTPTimeout = timeout
	}
}

// WithRetry enables automatic retries of connection errors, 5xx and 429
// responses.
func WithRetry(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(config *arkio.Config) {
		config.RetryMax = retryMax
		config.RetryWaitMin = waitMin
		config.RetryWaitMax = waitMax
	}
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(config *arkio.Config) {
		config.RateLimit = requestsPerSecond
		config.RateBurst = burst
	}
}

// WithCache enables response caching for searches and company statistics.
func WithCache(cache arkio.Cache, ttl time.Duration) Option {
	return func(config *arkio.Config) {
		config.Cache = cache
		config.CacheTTL = ttl
	}
}

// WithCachingPolicy restricts which operations are cached.
func WithCachingPolicy(policy *arkio.CachingPolicy) Option {
	return func(config *arkio.Config) {
		config.CachingPolicy = policy
	}
}

// WithMetrics records Prometheus metrics for every request.
func WithMetrics(metrics *arkio.Metrics) Option {
	return func(config *arkio.Config) {
		config.Metrics = metrics
	}
}

// WithInterceptors adds request and response hooks.
func WithInterceptors(chain *arkio.InterceptorChain) Option {
	return func(config *arkio.Config) {
		config.Interceptors = chain
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(config *arkio.Config) {
		config.UserAgent = userAgent
	}
}

// WithTokenStore persists developer token replacements.
func WithTokenStore(store arkio.TokenStore) Option {
	return func(config *arkio.Config) {
		config.TokenStore = store
	}
}

// New creates a new session from config. When config.Server is nil the
// server is resolved from the ARKIO_API_* environment variables.
func New(config *arkio.Config) (arkio.Session, error) {
	if config == nil {
		return nil, arkio.ErrConfigRequired
	}

	if config.User == nil {
		return nil, arkio.ErrUserRequired
	}

	session, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new session: %w", err)
	}

	return session, nil
}

// NewWithPassword creates a session for username and password against the
// default server.
func NewWithPassword(username, password string, opts ...Option) (arkio.Session, error) {
	user, err := arkio.NewUser(username, password)
	if err != nil {
		return nil, err
	}

	return NewWithUser(user, opts...)
}

// NewWithUser creates a session for user against the default server.
func NewWithUser(user *arkio.User, opts ...Option) (arkio.Session, error) {
	return newSession(user, nil, opts)
}

// NewWithDefaultUser creates a session for the default account credentials
// read through lookup. The server is resolved through the same lookup.
func NewWithDefaultUser(lookup arkio.LookupFunc, opts ...Option) (arkio.Session, error) {
	if lookup == nil {
		lookup = arkio.EnvLookup
	}

	user, err := arkio.UserFromLookup(lookup)
	if err != nil {
		return nil, fmt.Errorf("reading default credentials: %w", err)
	}

	return newSession(user, arkio.NewServerFromLookup(lookup), opts)
}

// NewWithPasswordAndServer creates a session for username and password
// against server.
func NewWithPasswordAndServer(username, password string, server *arkio.Server, opts ...Option) (arkio.Session, error) {
	user, err := arkio.NewUser(username, password)
	if err != nil {
		return nil, err
	}

	return NewWithUserAndServer(user, server, opts...)
}

// NewWithUserAndServer creates a session for user against server. server
// takes precedence over a WithServer option.
func NewWithUserAndServer(user *arkio.User, server *arkio.Server, opts ...Option) (arkio.Session, error) {
	if server == nil {
		return nil, arkio.ErrServerRequired
	}

	return newSession(user, server, opts)
}

func newSession(user *arkio.User, server *arkio.Server, opts []Option) (arkio.Session, error) {
	if user == nil {
		return nil, arkio.ErrUserRequired
	}

	config := &arkio.Config{}

	for _, opt := range opts {
		opt(config)
	}

	config.User = user
	if server != nil {
		config.Server = server
	}

	return New(config)
}
