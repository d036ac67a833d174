package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	arkhttp "github.com/arkio/arkio-client/internal/http"
	"github.com/arkio/arkio-client/pkg/arkio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockTokenManager for testing.
type MockTokenManager struct {
	token string
	err   error
}

func (m *MockTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.token, m.err
}

func (m *MockTokenManager) SetToken(token string) error {
	m.token = token

	return nil
}

// MockLogger for testing.
type MockLogger struct {
	mu   sync.Mutex
	logs []map[string]interface{}
}

func (l *MockLogger) add(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) { l.add("debug", msg, fields) }
func (l *MockLogger) Info(msg string, fields map[string]interface{})  { l.add("info", msg, fields) }
func (l *MockLogger) Warn(msg string, fields map[string]interface{})  { l.add("warn", msg, fields) }
func (l *MockLogger) Error(msg string, fields map[string]interface{}) { l.add("error", msg, fields) }

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/rest/user.json", request.URL.Path)
			assert.Equal(t, http.MethodGet, request.Method)
			assert.Equal(t, "test-token", request.URL.Query().Get("token"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			assert.Equal(t, arkhttp.DefaultUserAgent, request.Header.Get("User-Agent"))

			_ = json.NewEncoder(writer).Encode(map[string]int64{"points": 250})
		}))
		defer server.Close()

		tokenManager := &MockTokenManager{token: "test-token"}
		client := arkhttp.NewClient(server.URL+"/rest/", tokenManager)

		resp, err := client.Do(context.Background(), &arkhttp.Request{
			Method: http.MethodGet,
			Path:   "/user.json",
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result map[string]int64

		err = json.Unmarshal(resp.Body, &result)
		require.NoError(t, err)
		assert.Equal(t, int64(250), result["points"])
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/searchCompany.json", request.URL.Path)
			assert.Equal(t, "name=acme&offset=0", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := arkhttp.NewClient(server.URL, nil)

		resp, err := client.Get(context.Background(), "/searchCompany.json", url.Values{
			"name":   []string{"acme"},
			"offset": []string{"0"},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("empty token is not sent", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			_, present := request.URL.Query()["token"]
			assert.False(t, present)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := arkhttp.NewClient(server.URL, &MockTokenManager{})

		_, err := client.Get(context.Background(), "/user.json", nil)
		require.NoError(t, err)
	})

	t.Run("token failure is a transport error", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			calls.Add(1)
		}))
		defer server.Close()

		client := arkhttp.NewClient(server.URL, &MockTokenManager{err: errors.New("vault sealed")})

		_, err := client.Get(context.Background(), "/user.json", nil)
		require.Error(t, err)
		assert.True(t, arkio.IsTransportError(err))
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("error response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusForbidden)

			_ = json.NewEncoder(writer).Encode([]arkio.APIError{
				{Code: arkio.ErrorCodeInvalidDeveloperID, Message: "Invalid developer token"},
			})
		}))
		defer server.Close()

		client := arkhttp.NewClient(server.URL, nil)

		resp, err := client.Do(context.Background(), &arkhttp.Request{
			Method:    http.MethodGet,
			Path:      "/user.json",
			Operation: arkio.OperationAuthenticate,
		})
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, 403, resp.StatusCode)

		transportErr := &arkio.TransportError{}
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, arkio.OperationAuthenticate, transportErr.Op)
		assert.Equal(t, 403, transportErr.StatusCode)

		errResp := &arkio.ResponseError{}
		require.ErrorAs(t, err, &errResp)
		assert.Len(t, errResp.Errors, 1)
		assert.Equal(t, arkio.ErrorCodeInvalidDeveloperID, errResp.Errors[0].Code)
	})

	t.Run("error response without body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusBadGateway)
			_, _ = writer.Write([]byte("<html>bad gateway</html>"))
		}))
		defer server.Close()

		client := arkhttp.NewClient(server.URL, nil)

		_, err := client.Get(context.Background(), "/user.json", nil)
		require.Error(t, err)
		require.ErrorIs(t, err, arkio.ErrUnexpectedStatus)
	})

	t.Run("connection failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {}))
		serverURL := server.URL
		server.Close()

		client := arkhttp.NewClient(serverURL, nil)

		resp, err := client.Get(context.Background(), "/user.json", url.Values{"password": []string{"secret"}})
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.True(t, arkio.IsTransportError(err))
		assert.NotContains(t, err.Error(), "secret")
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			assert.Equal(t, "my-agent/1.0", request.Header.Get("User-Agent"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := arkhttp.NewClient(server.URL, nil, arkhttp.WithUserAgent("my-agent/1.0"))

		resp, err := client.Do(context.Background(), &arkhttp.Request{
			Method: http.MethodGet,
			Path:   "/user.json",
			Headers: map[string]string{
				"X-Custom-Header": "custom-value",
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := arkhttp.NewClient(server.URL, &MockTokenManager{token: "dev-token"},
			arkhttp.WithLogger(logger), arkhttp.WithDebug(true))

		_, err := client.Get(context.Background(), "/user.json", url.Values{
			"username": []string{"jane"},
			"password": []string{"secret"},
		})
		require.NoError(t, err)

		// Should have logged request and response
		require.Len(t, logger.logs, 2)
		assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
		assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])

		fields, ok := logger.logs[0]["fields"].(map[string]interface{})
		require.True(t, ok)

		loggedURL, ok := fields["url"].(string)
		require.True(t, ok)
		assert.Contains(t, loggedURL, "username=jane")
		assert.Contains(t, loggedURL, "password=REDACTED")
		assert.Contains(t, loggedURL, "token=REDACTED")
		assert.NotContains(t, loggedURL, "secret")
		assert.NotContains(t, loggedURL, "dev-token")
	})
}

func TestClient_BaseURLWithPathAndQuery(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/rest/v2/user.json", request.URL.Path)
		assert.Equal(t, "eu", request.URL.Query().Get("region"))
		assert.Equal(t, "jane", request.URL.Query().Get("username"))
		assert.Equal(t, "dev-token", request.URL.Query().Get("token"))
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := arkhttp.NewClient(server.URL+"/rest/v2/?region=eu", &MockTokenManager{token: "dev-token"})

	_, err := client.Get(context.Background(), "/user.json", url.Values{"username": []string{"jane"}})
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "user.json", url.Values{"username": []string{"jane"}})
	require.NoError(t, err)
}

func TestClient_TokenSnapshotPerRequest(t *testing.T) {
	t.Parallel()

	var seen []string

	var mu sync.Mutex

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		mu.Lock()
		seen = append(seen, request.URL.Query().Get("token"))
		mu.Unlock()
	}))
	defer server.Close()

	tokenManager := &MockTokenManager{token: "first"}
	client := arkhttp.NewClient(server.URL, tokenManager)

	_, err := client.Get(context.Background(), "/user.json", nil)
	require.NoError(t, err)

	require.NoError(t, tokenManager.SetToken("second"))

	_, err = client.Get(context.Background(), "/user.json", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, seen)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Interceptors(t *testing.T) {
	t.Parallel()

	t.Run("request interceptors set headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.NotEmpty(t, request.Header.Get(arkio.RequestIDHeader))
			assert.Equal(t, "yes", request.Header.Get("X-Intercepted"))
		}))
		defer server.Close()

		chain := arkio.NewInterceptorChain()
		chain.AddRequestInterceptor(arkio.RequestIDInterceptor())
		chain.AddRequestInterceptor(arkio.HeaderInterceptor(map[string]string{"X-Intercepted": "yes"}))

		var observed atomic.Int32

		chain.AddResponseInterceptor(func(ctx context.Context, req *arkio.Request, resp *arkio.Response) error {
			observed.Add(1)
			assert.Equal(t, arkio.OperationUserInformation, req.Operation)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			return nil
		})

		client := arkhttp.NewClient(server.URL, nil, arkhttp.WithInterceptors(chain))

		_, err := client.Do(context.Background(), &arkhttp.Request{
			Method:    http.MethodGet,
			Path:      "/user.json",
			Operation: arkio.OperationUserInformation,
		})
		require.NoError(t, err)
		assert.Equal(t, int32(1), observed.Load())
	})

	t.Run("request interceptor failure aborts the request", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			calls.Add(1)
		}))
		defer server.Close()

		errBlocked := errors.New("blocked")
		chain := arkio.NewInterceptorChain()
		chain.AddRequestInterceptor(func(ctx context.Context, req *arkio.Request) error {
			return errBlocked
		})

		client := arkhttp.NewClient(server.URL, nil, arkhttp.WithInterceptors(chain))

		_, err := client.Get(context.Background(), "/user.json", nil)
		require.ErrorIs(t, err, errBlocked)
		assert.True(t, arkio.IsTransportError(err))
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("response interceptors see transport failures", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {}))
		serverURL := server.URL
		server.Close()

		var sawError atomic.Bool

		chain := arkio.NewInterceptorChain()
		chain.AddResponseInterceptor(func(ctx context.Context, req *arkio.Request, resp *arkio.Response) error {
			sawError.Store(resp.Error != nil && resp.StatusCode == 0)

			return nil
		})

		client := arkhttp.NewClient(serverURL, nil, arkhttp.WithInterceptors(chain))

		_, err := client.Get(context.Background(), "/user.json", nil)
		require.Error(t, err)
		assert.True(t, sawError.Load())
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RetryLogic(t *testing.T) {
	t.Parallel()
	t.Run("does not retry by default", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writer.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := arkhttp.NewClient(server.URL, nil)

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 503, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load())
	})

	t.Run("retries on 5xx errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 3 {
				writer.WriteHeader(http.StatusInternalServerError)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := arkhttp.NewClient(server.URL, nil, arkhttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int32(3), attempts.Load())
	})

	t.Run("retries on rate limiting", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 2 {
				writer.WriteHeader(http.StatusTooManyRequests)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := arkhttp.NewClient(server.URL, nil, arkhttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int32(2), attempts.Load())
	})

	t.Run("does not retry on client errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)

			writer.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := arkhttp.NewClient(server.URL, nil, arkhttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load()) // Should not retry
	})

	t.Run("retry warnings are logged without credentials", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {}))
		serverURL := server.URL
		server.Close()

		logger := &MockLogger{}
		client := arkhttp.NewClient(serverURL, &MockTokenManager{token: "dev-token"},
			arkhttp.WithLogger(logger),
			arkhttp.WithRetryConfig(1, time.Millisecond, 2*time.Millisecond))

		_, err := client.Get(context.Background(), "/user.json", url.Values{"password": []string{"secret"}})
		require.Error(t, err)

		logger.mu.Lock()
		defer logger.mu.Unlock()

		for _, entry := range logger.logs {
			fields, _ := entry["fields"].(map[string]interface{})
			for _, value := range fields {
				text, isString := value.(string)
				if isString {
					assert.False(t, strings.Contains(text, "secret") || strings.Contains(text, "dev-token"))
				}
			}
		}
	})
}

func TestClient_Timeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := arkhttp.NewClient(server.URL, nil, arkhttp.WithTimeout(20*time.Millisecond))

	_, err := client.Get(context.Background(), "/user.json", nil)
	require.Error(t, err)
	assert.True(t, arkio.IsTransportError(err))
}

func TestClient_ContextCancelled(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {}))
	defer server.Close()

	client := arkhttp.NewClient(server.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Get(ctx, "/user.json", nil)
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}
