// Package arkio provides types, interfaces, and helpers for working with the
// Data.com (Jigsaw) REST API.
//
// # Overview
//
// The arkio package defines the value types (User, Contact, Company,
// CompanyStatistics), the Server endpoint, and the Session interface through
// which every request is issued. A concrete Session is provided by the
// arkclient package, which wires configuration, transport, the developer
// token, caching, and metrics. Most consumers should import arkclient to
// construct a session and then call the methods exposed here.
//
// Getting a session
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/arkio/arkio-client/pkg/arkclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  session, err := arkclient.NewWithPassword("user@example.com", "secret",
//	    arkclient.WithDeveloperToken("dev-token"))
//	  if err != nil { log.Fatal(err) }
//
//	  res, err := session.SearchContacts(ctx, "jane@example.com", 0, 50)
//	  if err != nil { log.Fatal(err) }      // transport failure
//	  if res.AppError != nil { log.Fatal(res.AppError) } // rejected by the API
//	  _ = res.Value.Contacts
//	}
//
// # Servers
//
// A Server is resolved with NewServer (host and path), NewServerWithEndpoint,
// or from process configuration with NewServerFromLookup. Configuration keys
// are arkio.api.host, arkio.api.path and arkio.api.url; host and path take
// precedence over the URL, and DefaultEndpoint is used when neither resolves.
//
// # Errors
//
// Every request returns a Result and an error. A non-nil error is a
// TransportError: the server could not be reached, answered with a non-2xx
// status, or returned an undecodable body. An application error reported by
// the API inside a successful exchange is carried in Result.AppError, and
// Result.Value is then the zero value. Helpers such as IsInsufficientPoints,
// IsNotFound and IsLoginFailure branch on common error codes.
//
// Callers preferring callbacks can use Dispatch, which invokes exactly one of
// a success or failure function per request.
//
// # Interceptors, caching and metrics
//
// InterceptorChain hooks into every request. Responses to searches and
// company statistics can be cached in memory, NATS KV, or Redis; account
// requests and contact purchases are never cached. Metrics exposes Prometheus
// collectors for request counts, latency, application errors and cache
// lookups.
package arkio
