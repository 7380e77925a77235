package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  *AppError
		want int
	}{
		{NewDatabaseError("db", nil), http.StatusInternalServerError},
		{NewInternalError("boom", nil), http.StatusInternalServerError},
		{NewAuthError("missing token", nil), http.StatusUnauthorized},
		{NewForbiddenError("Not Allowed", nil), http.StatusUnauthorized},
		{NewNotFoundError("Not found", nil), http.StatusNotFound},
		{NewBadRequestError("bad", nil), http.StatusBadRequest},
		{NewValidationError(nil), http.StatusBadRequest},
		{NewAppError(UnknownError, "?", nil), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.StatusCode(), tc.err.Message)
	}
}

func TestToResponse(t *testing.T) {
	v := []Violation{{Type: "field", Msg: "Enter a valid name", Path: "name", Location: "body"}}
	resp := NewValidationError(v).ToResponse()
	assert.False(t, resp.Success)
	assert.Empty(t, resp.Error)
	assert.Equal(t, v, resp.Errors)

	resp = NewBadRequestError("Sorry a user with this email already exists", errors.New("hidden")).ToResponse()
	assert.Equal(t, "Sorry a user with this email already exists", resp.Error)
	assert.Nil(t, resp.Errors)
}

func TestFromErrorLooksThroughWrapping(t *testing.T) {
	inner := NewNotFoundError("Not found", nil)
	wrapped := fmt.Errorf("update note: %w", inner)

	got, ok := FromError(wrapped)
	require.True(t, ok)
	assert.Same(t, inner, got)
	assert.True(t, IsNotFound(wrapped))

	_, ok = FromError(errors.New("plain"))
	assert.False(t, ok)
	_, ok = FromError(nil)
	assert.False(t, ok)
}

func TestErrorIncludesUnderlying(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDatabaseError("failed to get user", cause)
	assert.Equal(t, "failed to get user: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, err.IsServerError())
}
