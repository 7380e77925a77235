package auth

import (
	"net/http"
	"strings"

	"github.com/user/notekeeper/apperror"
)

// TokenMiddleware creates the authentication middleware.
// It reads the token from header, verifies it and adds the caller's Identity
// to the request context. Requests without a token, or with one that fails
// verification, are answered with 401 and never reach next.
// The returned middleware conforms to the standard `func(next http.Handler) http.Handler` pattern.
func TokenMiddleware(tokens TokenVerifier, header string) func(next http.Handler) http.Handler {
	if header == "" {
		header = DefaultTokenHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// The token travels bare in its own header, not as `Authorization: Bearer ...`.
			tokenString := strings.TrimSpace(r.Header.Get(header))
			if tokenString == "" {
				WriteError(w, r, apperror.NewAuthError("missing token", nil))
				return
			}

			// Verify checks signature, algorithm and expiry; the cause is kept in
			// the AppError for logs but the client only sees "invalid token".
			userID, err := tokens.Verify(tokenString)
			if err != nil {
				WriteError(w, r, apperror.NewAuthError("invalid token", err))
				return
			}

			// Handlers downstream read the caller with IdentityFromContext.
			ctx := NewContextWithIdentity(r.Context(), Identity{ID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
