package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{name: "nil", err: nil},
		{name: "domain error passes through", err: NewForbidden("nope"), code: "FORBIDDEN", status: http.StatusForbidden},
		{name: "wrapped domain error", err: fmt.Errorf("ctx: %w", NewUnauthorized("bad")), code: "UNAUTHORIZED", status: http.StatusUnauthorized},
		{name: "no rows", err: pgx.ErrNoRows, code: "NOT_FOUND", status: http.StatusNotFound},
		{name: "anything else", err: errors.New("boom"), code: "INTERNAL_ERROR", status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			if tt.err == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.status, got.HTTPStatus)
		})
	}
}

func TestServiceUnavailable_KeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewServiceUnavailable("profile store unavailable", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusServiceUnavailable, ToDomainError(err).HTTPStatus)
}
