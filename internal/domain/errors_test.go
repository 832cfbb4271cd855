package domain

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrLoad,
		ErrBind,
		ErrConnection,
		ErrRateLimited,
		ErrUnavailable,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b,
					"sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestLoadError(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		reason      string
		cause       error
		expectedMsg string
	}{
		{
			name:        "without cause",
			source:      "/etc/qotdd/quotes.txt",
			reason:      "no quotes found",
			expectedMsg: `loading quotes from "/etc/qotdd/quotes.txt": no quotes found`,
		},
		{
			name:        "with cause",
			source:      "quotes.txt",
			reason:      "opening file",
			cause:       fs.ErrNotExist,
			expectedMsg: `loading quotes from "quotes.txt": opening file: file does not exist`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewLoadError(tt.source, tt.reason, tt.cause)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrLoad)
			assert.True(t, IsLoad(err))

			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tt.source, loadErr.Source)
		})
	}
}

func TestLoadError_PreservesCause(t *testing.T) {
	err := NewLoadError("quotes.txt", "opening file", fs.ErrPermission)

	require.ErrorIs(t, err, ErrLoad)
	require.ErrorIs(t, err, fs.ErrPermission)
}

func TestBindError(t *testing.T) {
	cause := errors.New("address already in use")
	err := NewBindError("tcp", "0.0.0.0:17", cause)

	assert.Equal(t, "binding tcp listener on 0.0.0.0:17: address already in use", err.Error())
	require.ErrorIs(t, err, ErrBind)
	require.ErrorIs(t, err, cause)
	assert.True(t, IsBind(err))
	assert.False(t, IsLoad(err))

	var bindErr *BindError
	require.ErrorAs(t, err, &bindErr)
	assert.Equal(t, "tcp", bindErr.Network)
	assert.Equal(t, "0.0.0.0:17", bindErr.Addr)
}

func TestConnectionError(t *testing.T) {
	cause := errors.New("broken pipe")
	err := NewConnectionError("writing quote", "192.0.2.7:54321", cause)

	assert.Equal(t, "writing quote to 192.0.2.7:54321: broken pipe", err.Error())
	require.ErrorIs(t, err, ErrConnection)
	require.ErrorIs(t, err, cause)
	assert.True(t, IsConnection(err))
}

func TestRateLimitedError(t *testing.T) {
	err := NewRateLimitedError("192.0.2.7")

	assert.Equal(t, "client 192.0.2.7 rate limited", err.Error())
	require.ErrorIs(t, err, ErrRateLimited)
	assert.True(t, IsRateLimited(err))

	var rlErr *RateLimitedError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "192.0.2.7", rlErr.RemoteIP)
}

func TestUnavailableError(t *testing.T) {
	tests := []struct {
		name        string
		component   string
		reason      string
		expectedMsg string
	}{
		{
			name:        "with reason",
			component:   "quote-store",
			reason:      "not loaded",
			expectedMsg: `component "quote-store" unavailable: not loaded`,
		},
		{
			name:        "without reason",
			component:   "listener",
			expectedMsg: `component "listener" unavailable`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewUnavailableError(tt.component, tt.reason)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrUnavailable)
			assert.True(t, IsUnavailable(err))
		})
	}
}
