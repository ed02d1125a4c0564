package resilience

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "deadline exceeded" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("bad input"), false},
		{"transient error", NewTransientError(errors.New("overloaded"), 529), true},
		{"wrapped transient", fmt.Errorf("call failed: %w", NewTransientError(errors.New("rate limited"), 429)), true},
		{"net timeout", timeoutErr{}, true},
		{"connection reset", syscall.ECONNRESET, true},
		{"connection refused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), true},
		{"reset by peer string", errors.New("read tcp: connection reset by peer"), true},
		{"dns failure string", errors.New("lookup api.example.com: no such host"), true},
		{"io timeout string", errors.New("Post \"https://api\": i/o timeout"), true},
		{"validation error", errors.New("model: unknown model name"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestTransientErrorUnwrap(t *testing.T) {
	inner := errors.New("server error")
	te := NewTransientError(inner, 500)
	assert.EqualError(t, te, "server error")
	assert.ErrorIs(t, te, inner)
	assert.Equal(t, 500, te.StatusCode)
}
