package resilience

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"explicit transient", NewTransientError(errors.New("429"), 429), true},
		{"wrapped transient", fmt.Errorf("outer: %w", NewTransientError(errors.New("503"), 503)), true},
		{"connection reset errno", syscall.ECONNRESET, true},
		{"connection refused errno", syscall.ECONNREFUSED, true},
		{"reset by message", errors.New("read tcp: connection reset by peer"), true},
		{"dns by message", errors.New("dial tcp: lookup api.worldbank.org: no such host"), true},
		{"io timeout by message", errors.New("i/o timeout"), true},
		{"validation error", errors.New("indicator code is required"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestTransientError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	te := NewTransientError(inner, 500)

	assert.Equal(t, "inner", te.Error())
	assert.True(t, errors.Is(te, inner))
	assert.Equal(t, 500, te.StatusCode)
}

func TestIsTransientHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsTransientHTTPStatus(code), "status %d", code)
	}
	for _, code := range []int{200, 201, 301, 400, 401, 403, 404, 422} {
		assert.False(t, IsTransientHTTPStatus(code), "status %d", code)
	}
}
