// Package auth holds the contracts shared by everything that issues or
// checks tokens, and the configuration section that builds the authority.
//
//   - auth/jwt      the stateless token authority (access and refresh tokens)
//   - auth/authctx  request context propagation of the verified Principal
//
// Transport code depends on AccessVerifier and Refresher rather than on
// *jwt.Authority, so tests can substitute an AccessVerifierFunc.
//
// The configuration section loads from YAML or env:
//
//	auth:
//	  enabled: true
//	  jwt:
//	    access_secret: "..."
//	    refresh_secret: "..."
//	    access_token_ttl: "1h"
//	    refresh_token_ttl: "720h"
package auth
