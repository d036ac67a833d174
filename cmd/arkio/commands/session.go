package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/arkio/arkio-client/internal/constants"
	"github.com/arkio/arkio-client/pkg/arkclient"
	"github.com/arkio/arkio-client/pkg/arkio"
)

// viperLookup exposes the CLI configuration as an arkio.LookupFunc.
func viperLookup(key string) (string, bool) {
	if !viper.IsSet(key) {
		return "", false
	}

	return viper.GetString(key), true
}

// sessionOptions builds the options shared by every CLI session. The returned
// function releases the cache backend.
func sessionOptions() ([]arkclient.Option, func(), error) {
	opts := []arkclient.Option{
		arkclient.WithServer(arkio.NewServerFromLookup(viperLookup)),
		arkclient.WithDeveloperToken(viper.GetString(arkio.APITokenKey)),
		arkclient.WithTokenStore(NewConfigPersister()),
	}

	if viper.GetBool("verbose") {
		opts = append(opts,
			arkclient.WithLogger(arkio.NewDefaultLogger(os.Stderr, "debug", false)),
			arkclient.WithDebug(true),
		)
	}

	if value := viper.GetString(APIRateLimitKey); value != "" {
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid %s: %w", APIRateLimitKey, err)
		}

		opts = append(opts, arkclient.WithRateLimit(rate, 1))
	}

	if value := viper.GetString(APIRetriesKey); value != "" {
		retries, err := strconv.Atoi(value)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid %s: %w", APIRetriesKey, err)
		}

		opts = append(opts, arkclient.WithRetry(retries, constants.DefaultRetryWaitMin, constants.DefaultRetryWaitMax))
	}

	cache, closeCache, err := createCache()
	if err != nil {
		return nil, nil, err
	}

	if cache != nil {
		ttl, err := cacheTTL()
		if err != nil {
			closeCache()

			return nil, nil, err
		}

		opts = append(opts, arkclient.WithCache(cache, ttl))
	}

	return opts, closeCache, nil
}

// createSession builds a session for the configured default account.
func createSession() (arkio.Session, func(), error) {
	opts, closeCache, err := sessionOptions()
	if err != nil {
		return nil, nil, err
	}

	session, err := arkclient.NewWithDefaultUser(viperLookup, opts...)
	if err != nil {
		closeCache()

		if errors.Is(err, arkio.ErrUsernameRequired) || errors.Is(err, arkio.ErrPasswordRequired) {
			return nil, nil, constants.ErrNoCredentials
		}

		return nil, nil, err
	}

	return session, closeCache, nil
}

func cacheTTL() (time.Duration, error) {
	value := viper.GetString(CacheTTLKey)
	if value == "" {
		return constants.DefaultCacheTTL, nil
	}

	ttl, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", CacheTTLKey, err)
	}

	return ttl, nil
}

// createCache builds the configured response cache, or nil when caching is
// off.
func createCache() (arkio.Cache, func(), error) {
	noop := func() {}

	cacheType, err := arkio.ParseCacheType(strings.ToLower(viper.GetString(CacheTypeKey)))
	if err != nil {
		return nil, noop, err
	}

	if cacheType == arkio.CacheTypeNone {
		return nil, noop, nil
	}

	ttl, err := cacheTTL()
	if err != nil {
		return nil, noop, err
	}

	options := arkio.DefaultCacheOptions()
	options.TTL = ttl

	builder := arkio.NewCacheBuilder().WithType(cacheType).WithOptions(options)

	switch cacheType {
	case arkio.CacheTypeNATS:
		bucket := viper.GetString(CacheBucketKey)
		if bucket == "" {
			bucket = constants.DefaultNATSBucket
		}

		builder = builder.WithNATSConfig(&arkio.NATSKVConfig{
			URL:            viper.GetString(CacheURLKey),
			Bucket:         bucket,
			TTL:            ttl,
			ConnectTimeout: constants.ShortHTTPTimeout,
		})
	case arkio.CacheTypeRedis:
		builder = builder.WithRedisConfig(&arkio.RedisCacheConfig{
			Addr:        viper.GetString(CacheAddrKey),
			DialTimeout: constants.ShortHTTPTimeout,
		})
	case arkio.CacheTypeMemory, arkio.CacheTypeNone:
	}

	backend, err := builder.Build()
	if err != nil {
		return nil, noop, fmt.Errorf("creating %s cache: %w", cacheType, err)
	}

	return layered(cacheType, backend), closerFor(backend), nil
}

// layered fronts a remote backend with an in-process memory layer.
func layered(cacheType arkio.CacheType, backend arkio.Cache) arkio.Cache {
	switch cacheType {
	case arkio.CacheTypeNATS, arkio.CacheTypeRedis:
		return arkio.NewCacheChain(arkio.NewMemoryCache(constants.LocalCacheSize), backend)
	case arkio.CacheTypeMemory, arkio.CacheTypeNone:
	}

	return backend
}

func closerFor(cache arkio.Cache) func() {
	switch backend := cache.(type) {
	case *arkio.NATSKVCache:
		return backend.Close
	case *arkio.RedisCache:
		return func() { _ = backend.Close() }
	default:
		return func() {}
	}
}
