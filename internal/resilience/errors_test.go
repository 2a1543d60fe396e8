package resilience

import (
	"syscall"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil",
			err:  nil,
			want: false,
		},
		{
			name: "explicit transient error",
			err:  NewTransientError(eris.New("rate limited"), 429),
			want: true,
		},
		{
			name: "wrapped transient error",
			err:  eris.Wrap(NewTransientError(eris.New("overloaded"), 503), "call failed"),
			want: true,
		},
		{
			name: "connection refused errno",
			err:  syscall.ECONNREFUSED,
			want: true,
		},
		{
			name: "connection reset message",
			err:  eris.New("read tcp 10.0.0.1:443: connection reset by peer"),
			want: true,
		},
		{
			name: "dns failure message",
			err:  eris.New("dial tcp: lookup api.example.com: no such host"),
			want: true,
		},
		{
			name: "io timeout message",
			err:  eris.New("read tcp 10.0.0.1:443: i/o timeout"),
			want: true,
		},
		{
			name: "permanent error",
			err:  eris.New("invalid request body"),
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestTransientError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := eris.New("underlying")
	te := NewTransientError(cause, 500)

	assert.Equal(t, "underlying", te.Error())
	assert.Equal(t, cause, te.Unwrap())
	assert.Equal(t, 500, te.StatusCode)
}
