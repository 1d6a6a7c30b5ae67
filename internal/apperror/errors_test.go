package apperror_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"aurachat/backend/internal/apperror"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperror.Validation(apperror.ErrInvalidStars), http.StatusBadRequest},
		{"not found", apperror.NotFound("user"), http.StatusNotFound},
		{"gorm not found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), http.StatusNotFound},
		{"policy", apperror.Policy(apperror.ErrSelfRating), http.StatusForbidden},
		{"duplicate edge", apperror.Policy(apperror.ErrDuplicateEdge), http.StatusConflict},
		{"duplicate rating", apperror.Policy(apperror.ErrDuplicateRating), http.StatusConflict},
		{"transient", apperror.Transient(errors.New("db down")), http.StatusServiceUnavailable},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable},
		{"unauthorized", apperror.ErrUnauthorized, http.StatusUnauthorized},
		{"unauthorized with message", apperror.Unauthorized("invalid or expired token"), http.StatusUnauthorized},
		{"protocol", apperror.Protocol("invalid message format"), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperror.MapErrorToStatus(tt.err))
		})
	}
}

func TestAppError_UnwrapAndMessage(t *testing.T) {
	err := apperror.Policy(apperror.ErrSelfConnection)

	assert.ErrorIs(t, err, apperror.ErrSelfConnection)
	assert.Equal(t, "you cannot connect with yourself", err.Error())
	assert.Equal(t, apperror.KindPolicy, apperror.KindOf(fmt.Errorf("wrapped: %w", err)))
}

func TestPublicMessage_HidesInternalErrors(t *testing.T) {
	assert.Equal(t, "internal server error", apperror.PublicMessage(errors.New("pq: password leaked")))
	assert.Equal(t, "user not found", apperror.PublicMessage(apperror.NotFound("user")))
	assert.Equal(t, "unknown message type: typing", apperror.PublicMessage(apperror.Protocol("unknown message type: typing")))
}
