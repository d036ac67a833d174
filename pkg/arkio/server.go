package arkio

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Process configuration keys consulted when resolving a Server or the default
// account credentials.
const (
	APIHostKey         = "arkio.api.host"
	APIPathKey         = "arkio.api.path"
	APIURLKey          = "arkio.api.url"
	APITokenKey        = "arkio.api.token"
	AccountUsernameKey = "arkio.account.username"
	AccountPasswordKey = "arkio.account.password"

	// DefaultEndpoint is used when no endpoint is configured.
	DefaultEndpoint = "https://www.jigsaw.com/rest"
)

// LookupFunc returns the value stored under key and whether it was present.
type LookupFunc func(key string) (string, bool)

// MapLookup returns a LookupFunc over a static map.
func MapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]

		return value, ok
	}
}

// EnvLookup reads keys from the environment, "arkio.api.host" becoming
// ARKIO_API_HOST.
func EnvLookup(key string) (string, bool) {
	return os.LookupEnv(EnvName(key))
}

// EnvName returns the environment variable name used for a configuration key.
func EnvName(key string) string {
	return strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

// ServerConfig lists the configuration values a Server can be resolved from.
//
// Resolution precedence, most specific first:
//  1. Host: the endpoint is Host followed by Path (or Host alone when Path is empty).
//  2. URL: the endpoint is URL as given.
//  3. DefaultEndpoint, or the package DefaultEndpoint when that is empty.
//
// Empty or unparsable values count as absent.
type ServerConfig struct {
	Host            string `json:"host,omitempty"             yaml:"host,omitempty"`
	Path            string `json:"path,omitempty"             yaml:"path,omitempty"`
	URL             string `json:"url,omitempty"              yaml:"url,omitempty"`
	DefaultEndpoint string `json:"default_endpoint,omitempty" yaml:"default_endpoint,omitempty"`
}

// ServerConfigFromLookup reads the three server keys through lookup.
func ServerConfigFromLookup(lookup LookupFunc) *ServerConfig {
	config := &ServerConfig{}
	if lookup == nil {
		return config
	}

	config.Host = lookupTrimmed(lookup, APIHostKey)
	config.Path = lookupTrimmed(lookup, APIPathKey)
	config.URL = lookupTrimmed(lookup, APIURLKey)

	return config
}

func lookupTrimmed(lookup LookupFunc, key string) string {
	value, ok := lookup(key)
	if !ok {
		return ""
	}

	return strings.TrimSpace(value)
}

// Server represents a remote Data.com server exposing the API. It is
// immutable and may be shared by any number of sessions.
type Server struct {
	host     *url.URL
	path     string
	endpoint *url.URL
}

// NewServer creates a server from a host URL and a path on that host. The
// endpoint is the host followed by the path.
func NewServer(host, path string) (*Server, error) {
	hostURL, err := parseAbsoluteURL(host)
	if err != nil {
		return nil, fmt.Errorf("parsing host: %w", err)
	}

	endpoint, err := parseAbsoluteURL(host + path)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}

	return &Server{
		host:     hostURL,
		path:     path,
		endpoint: endpoint,
	}, nil
}

// NewServerWithEndpoint creates a server from a complete API endpoint URL.
// Host and Path are left unset.
func NewServerWithEndpoint(endpoint string) (*Server, error) {
	endpointURL, err := parseAbsoluteURL(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}

	return &Server{endpoint: endpointURL}, nil
}

// NewServerFromConfig resolves a server from config using the precedence
// documented on ServerConfig. It never fails: when nothing usable is
// configured the default endpoint is used. A value that does not parse is
// treated as absent, so an invalid Host falls through to URL and an invalid
// URL to DefaultEndpoint.
func NewServerFromConfig(config *ServerConfig) *Server {
	if config == nil {
		config = &ServerConfig{}
	}

	if config.Host != "" {
		server, err := NewServer(config.Host, config.Path)
		if err == nil {
			return server
		}
	}

	if config.URL != "" {
		server, err := NewServerWithEndpoint(config.URL)
		if err == nil {
			return server
		}
	}

	if config.DefaultEndpoint != "" {
		server, err := NewServerWithEndpoint(config.DefaultEndpoint)
		if err == nil {
			return server
		}
	}

	server, err := NewServerWithEndpoint(DefaultEndpoint)
	if err != nil {
		panic("arkio: invalid DefaultEndpoint: " + err.Error())
	}

	return server
}

// NewServerFromLookup resolves a server from the process configuration
// exposed by lookup.
func NewServerFromLookup(lookup LookupFunc) *Server {
	return NewServerFromConfig(ServerConfigFromLookup(lookup))
}

// DefaultServer resolves a server from ARKIO_API_* environment variables.
func DefaultServer() *Server {
	return NewServerFromLookup(EnvLookup)
}

// Host returns the server host, or nil when the server was created from an
// endpoint URL.
func (s *Server) Host() *url.URL {
	if s.host == nil {
		return nil
	}

	host := *s.host

	return &host
}

// Path returns the endpoint path on the host, or "" when the server was
// created from an endpoint URL.
func (s *Server) Path() string {
	return s.path
}

// Endpoint returns the API service endpoint.
func (s *Server) Endpoint() *url.URL {
	endpoint := *s.endpoint

	return &endpoint
}

// String returns the endpoint URL.
func (s *Server) String() string {
	return s.endpoint.String()
}

func parseAbsoluteURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidURL, raw, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%w %q: scheme must be http or https", ErrInvalidURL, raw)
	}

	if parsed.Host == "" {
		return nil, fmt.Errorf("%w %q: missing host", ErrInvalidURL, raw)
	}

	return parsed, nil
}
