package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/user/notekeeper/apperror"
)

// Handlers wraps the AuthService to provide HTTP handlers.
type Handlers struct {
	service *AuthService
}

// NewHandlers creates a new Handlers instance
func NewHandlers(service *AuthService) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the auth endpoints on router. requireAuth gates the
// routes that need a verified identity.
func (h *Handlers) RegisterRoutes(router chi.Router, requireAuth func(http.Handler) http.Handler) {
	router.Post("/createuser", h.HandleRegister())
	router.Post("/login", h.HandleLogin())
	router.With(requireAuth).Post("/getuser", h.HandleGetUser())
}

// The `godoc` comments (`@Summary`, `@Router`, ...) are read by swaggo/swag
// to build the OpenAPI document served under /swagger.

// HandleRegister godoc
// @Summary Create a user
// @Description Registers a new user and returns a token for it.
// @Tags Auth
// @Accept json
// @Produce json
// @Param registerBody body auth.RegisterRequest true "User registration details"
// @Success 200 {object} auth.TokenResponse
// @Failure 400 {object} apperror.ErrorResponse "Validation failed or email already registered"
// @Failure 500 {string} string "Internal Server Error"
// @Router /auth/createuser [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := DecodeJSON(r, &req); err != nil {
			WriteError(w, r, err)
			return
		}

		token, err := h.service.Register(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, TokenResponse{Success: true, AuthToken: token})
	}
}

// HandleLogin godoc
// @Summary Log in
// @Description Authenticates with email and password and returns a token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "User login credentials"
// @Success 200 {object} auth.TokenResponse
// @Failure 400 {object} apperror.ErrorResponse "Validation failed or invalid credentials"
// @Failure 500 {string} string "Internal Server Error"
// @Router /auth/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := DecodeJSON(r, &req); err != nil {
			WriteError(w, r, err)
			return
		}

		token, err := h.service.Login(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, TokenResponse{Success: true, AuthToken: token})
	}
}

// HandleGetUser godoc
// @Summary Get the logged-in user
// @Description Returns the caller's user record without the password hash, or null if the account no longer exists.
// @Tags Auth
// @Produce json
// @Security TokenAuth
// @Success 200 {object} users.User
// @Failure 401 {object} apperror.ErrorResponse "Missing or invalid token"
// @Failure 500 {string} string "Internal Server Error"
// @Router /auth/getuser [post]
func (h *Handlers) HandleGetUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("missing token", nil))
			return
		}

		user, err := h.service.CurrentUser(r.Context(), id)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, user)
	}
}

// DecodeJSON decodes the request body into dst. An empty body leaves dst at
// its zero value so validation can report the missing fields.
func DecodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperror.NewBadRequestError("invalid request body", err)
	}
	return nil
}

// WriteJSON serializes data to JSON and writes it with the given status.
// A nil data is written as `null`.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// WriteError converts err into the standardized error response.
// Errors that are not *apperror.AppError become internal errors. Server-side
// failures are logged with their cause and answered with a plain-text 500 so
// nothing internal reaches the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}

	if appErr.IsServerError() {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", appErr.Error(),
		)
		http.Error(w, "Internal Server Error", appErr.StatusCode())
		return
	}

	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
