package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/user/notekeeper/apperror"
	"github.com/user/notekeeper/users"
	"github.com/user/notekeeper/validation"
)

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

// Messages returned to clients. Login failures share one message so a caller
// cannot tell an unknown email from a wrong password.
const (
	msgEmailTaken         = "Sorry a user with this email already exists"
	msgInvalidCredentials = "Please try to login with correct credentials"
)

// AuthService provides authentication-related services.
// Its dependencies are injected explicitly through NewAuthService.
type AuthService struct {
	users  users.Store
	hasher PasswordHasher
	tokens *TokenService
}

// NewAuthService creates a new AuthService.
func NewAuthService(store users.Store, hasher PasswordHasher, tokens *TokenService) *AuthService {
	return &AuthService{
		users:  store,
		hasher: hasher,
		tokens: tokens,
	}
}

// normalizeEmail keeps emails in one canonical form so uniqueness is case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates req, creates the user and returns a token for it.
// Invalid input never reaches the store.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (string, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validation.Struct(&req); err != nil {
		return "", err
	}
	if len(req.Password) > maxPasswordBytes {
		return "", apperror.NewValidationError([]apperror.Violation{{
			Type:     "field",
			Value:    "",
			Msg:      "Password must be at most 72 bytes",
			Path:     "password",
			Location: "body",
		}})
	}

	_, err := s.users.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return "", apperror.NewBadRequestError(msgEmailTaken, nil)
	case !errors.Is(err, users.ErrNotFound):
		return "", apperror.NewDatabaseError("failed to look up user", err)
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return "", apperror.NewInternalError("failed to hash password", err)
	}

	user, err := s.users.Create(ctx, &users.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
	})
	if err != nil {
		// Another registration won the race between the lookup and the insert.
		if errors.Is(err, users.ErrEmailTaken) {
			return "", apperror.NewBadRequestError(msgEmailTaken, nil)
		}
		return "", apperror.NewDatabaseError("failed to create user", err)
	}

	return s.issue(user.ID)
}

// Login authenticates a user by email and password and returns a token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (string, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validation.Struct(&req); err != nil {
		return "", err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return "", apperror.NewBadRequestError(msgInvalidCredentials, nil)
		}
		return "", apperror.NewDatabaseError("failed to get user", err)
	}

	ok, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return "", apperror.NewInternalError("failed to verify password", err)
	}
	if !ok {
		return "", apperror.NewBadRequestError(msgInvalidCredentials, nil)
	}

	return s.issue(user.ID)
}

// CurrentUser returns the user behind a verified identity.
// A user removed after its token was issued yields (nil, nil); callers
// render that as an empty payload.
func (s *AuthService) CurrentUser(ctx context.Context, id Identity) (*users.User, error) {
	user, err := s.users.FindByID(ctx, id.ID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, nil
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return user, nil
}

func (s *AuthService) issue(userID string) (string, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return "", apperror.NewInternalError("failed to issue token", err)
	}
	return token, nil
}
