package apierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"classified", New(KindMissingAuth, "no credential"), KindMissingAuth},
		{"wrapped classified", fmt.Errorf("outer: %w", New(KindNotFound, "gone")), KindNotFound},
		{"plain error", errors.New("boom"), KindUnknown},
		{"double wrapped", Wrap(New(KindForbidden, "inner"), KindServerError, "outer"), KindServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{401, KindUnauthorized},
		{403, KindForbidden},
		{404, KindNotFound},
		{429, KindRateLimited},
		{500, KindServerError},
		{503, KindServerError},
		{418, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, FromStatus(tt.status, "msg").Kind)
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("network down")
	err := Wrap(cause, KindUnknown, "request failed")
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "request failed", err.Error())
}
