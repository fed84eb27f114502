package errkind

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOf(t *testing.T) {
	base := New(InvalidArgument, "bad name")
	wrapped := fmt.Errorf("create deployment: %w", base)

	assert.Equal(t, InvalidArgument, Of(base))
	assert.Equal(t, InvalidArgument, Of(wrapped))
	assert.Equal(t, Kind(""), Of(errors.New("plain")))
	assert.Equal(t, Kind(""), Of(nil))
}

func TestWrap(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:6443: connect: connection refused")
	err := Wrap(ClusterUnreachable, cause)

	assert.Equal(t, cause.Error(), err.Error())
	assert.ErrorIs(t, err, cause)

	e, ok := As(fmt.Errorf("list pods: %w", err))
	require.True(t, ok)
	assert.Equal(t, ClusterUnreachable, e.Kind)
}

func TestRejectedCode(t *testing.T) {
	tests := []struct {
		name string
		code int
		want int
	}{
		{"conflict kept", http.StatusConflict, http.StatusConflict},
		{"forbidden kept", http.StatusForbidden, http.StatusForbidden},
		{"zero defaults", 0, http.StatusBadRequest},
		{"server error defaults", http.StatusInternalServerError, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Rejected("rejected", tt.code, nil)
			assert.Equal(t, ClusterRejected, err.Kind)
			assert.Equal(t, tt.want, err.Code)
		})
	}
}

func TestErrorMessageFallback(t *testing.T) {
	assert.Equal(t, "cluster_unreachable", (&Error{Kind: ClusterUnreachable}).Error())
}
