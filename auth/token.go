package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is wrapped by every verification failure.
var ErrInvalidToken = errors.New("invalid token")

// TokenUser is the identity section of the token payload.
type TokenUser struct {
	ID string `json:"id"`
}

// Claims is the JWT payload: {"user":{"id":...}} plus the registered claims
// (`iat` always, `exp` only when a lifetime is configured).
type Claims struct {
	User TokenUser `json:"user"`
	jwt.RegisteredClaims
}

// TokenVerifier is what the middleware needs from a token service.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// TokenService issues and verifies HS256-signed identity tokens.
// The secret is fixed for the lifetime of the service.
type TokenService struct {
	secret   []byte
	duration time.Duration
	now      func() time.Time
}

// NewTokenService creates a TokenService. A zero duration issues tokens that
// never expire.
func NewTokenService(secret string, duration time.Duration) *TokenService {
	return &TokenService{
		secret:   []byte(secret),
		duration: duration,
		now:      time.Now,
	}
}

// Issue signs a token identifying userID.
func (s *TokenService) Issue(userID string) (string, error) {
	now := s.now()
	claims := &Claims{
		User: TokenUser{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.duration > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.duration))
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks the signature (HS256 only), structure and, if present, the
// expiry of tokenString and returns the user id it carries.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.User.ID == "" {
		return "", fmt.Errorf("%w: user id claim is missing", ErrInvalidToken)
	}
	return claims.User.ID, nil
}
