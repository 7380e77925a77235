// Package auth is the authentication and authorization envelope of the API:
// password hashing, token issuance and verification, the middleware that gates
// protected routes, and the register/login/current-user handlers.
//
// Identity flows one way: TokenMiddleware verifies the token found in the
// configured request header and stores an Identity in the request context;
// handlers read it back with IdentityFromContext. There are no roles.
package auth

// DefaultTokenHeader is the request header that carries the token unless
// configured otherwise.
const DefaultTokenHeader = "auth-token"
