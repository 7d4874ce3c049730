package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		code   ErrorCode
		status int
	}{
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodePasswordNotSet, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeTokenInvalid, http.StatusNotFound},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeAccountDeactivated, http.StatusUnauthorized},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.status, MapErrorCodeToHTTPStatus(tt.code))
		})
	}
}

func TestIsCode(t *testing.T) {
	err := Forbidden("status change is not allowed")

	assert.True(t, IsCode(err, ErrCodeForbidden))
	assert.False(t, IsCode(err, ErrCodeNotFound))
	assert.False(t, IsCode(errors.New("plain"), ErrCodeForbidden))

	// Wrapped errors still expose their code
	wrapped := fmt.Errorf("handling request: %w", err)
	assert.True(t, IsCode(wrapped, ErrCodeForbidden))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, ErrCodeInternal, "failed to reach store")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to reach store")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "nothing"))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("team member", "abc")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeValidation, GetCode(Validation("missing fields")))
	assert.Equal(t, ErrCodeInternal, GetCode(errors.New("plain")))
}
