package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_MatchesSentinels(t *testing.T) {
	notFound := NewNotFoundError("loan not found")
	assert.ErrorIs(t, notFound, ErrNotFound)
	assert.NotErrorIs(t, notFound, ErrValidation)
	assert.Equal(t, "loan not found: resource not found", notFound.Error())

	internal := NewAppError(http.StatusInternalServerError, "failed to begin transaction", assert.AnError)
	assert.ErrorIs(t, internal, assert.AnError)
	assert.NotErrorIs(t, internal, ErrNotFound)

	conflictByCode := NewAppError(http.StatusConflict, "cedula already registered", nil)
	assert.ErrorIs(t, conflictByCode, ErrDuplicate)
	assert.Equal(t, "cedula already registered", conflictByCode.Error())
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"wrapped not found", fmt.Errorf("service: %w", ErrNotFound), http.StatusNotFound},
		{"validation app error", NewValidationError("amount must be positive"), http.StatusBadRequest},
		{"duplicate", fmt.Errorf("%w: cedula", ErrDuplicate), http.StatusConflict},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"custom code", NewAppError(http.StatusServiceUnavailable, "backup busy", nil), http.StatusServiceUnavailable},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}
