package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorUnwrap(t *testing.T) {
	err := Conflict("DUPLICATE", "already there")
	assert.True(t, errors.Is(err, ErrConflict))

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "DUPLICATE", appErr.Code)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error carries its status", Gone("EXPIRED", "gone"), http.StatusGone},
		{"rate limited maps to 429", TooManyRequests("TOO_MANY", "slow down"), http.StatusTooManyRequests},
		{"wrapped app error", fmt.Errorf("ctx: %w", NotFound("course", "c1")), http.StatusNotFound},
		{"bare sentinel", ErrForbidden, http.StatusForbidden},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{"bad gateway", BadGateway("UPSTREAM", "down"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestWrapPreservesChain(t *testing.T) {
	base := NotFound("account", "a1")
	wrapped := Wrap(base, "loading account")

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Contains(t, wrapped.Error(), "loading account")
}
