// Package arkclient provides the primary entry point for constructing a
// Data.com (Jigsaw) API session that implements the arkio.Session interface.
//
// It layers configuration, HTTP transport, credential signing, the developer
// token, caching and metrics on top of the types and interfaces defined in the
// arkio package. Most applications should import arkclient to build a
// session, then call its request methods.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/arkio/arkio-client/pkg/arkclient"
//	  "github.com/arkio/arkio-client/pkg/arkio"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Credentials against the server resolved from ARKIO_API_* variables:
//	  session, err := arkclient.NewWithPassword("user@example.com", "secret",
//	    arkclient.WithDeveloperToken("dev-token"))
//	  if err != nil { log.Fatal(err) }
//
//	  // Or against an explicit server:
//	  server, err := arkio.NewServer("https://api.example.com", "/rest")
//	  if err != nil { log.Fatal(err) }
//	  session, err = arkclient.NewWithPasswordAndServer("user@example.com", "secret", server)
//	  if err != nil { log.Fatal(err) }
//
//	  res, err := session.UserInformation(ctx)
//	  if err != nil { log.Fatal(err) }
//	  log.Printf("points: %d", res.Value)
//	}
//
// # Default credentials
//
// NewWithDefaultUser reads arkio.account.username and arkio.account.password
// through a lookup function, and resolves the server through the same lookup.
// Pass arkio.EnvLookup to read ARKIO_ACCOUNT_USERNAME and friends.
//
// # Options
//
// Every constructor accepts Option values such as WithDeveloperToken,
// WithLogger, WithRetry, WithRateLimit, WithCache and WithMetrics. New takes a
// full arkio.Config instead.
package arkclient
