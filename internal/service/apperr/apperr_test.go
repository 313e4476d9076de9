package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind error
	}{
		{"validation", Validation("no items"), ErrValidation},
		{"not found", NotFound("order %d not found", 7), ErrNotFound},
		{"upstream", Upstream(errors.New("timeout"), "provider unavailable"), ErrUpstream},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			wrapped := fmt.Errorf("failed to do something: %w", c.err)
			assert.ErrorIs(t, wrapped, c.kind)
			for _, other := range []error{ErrValidation, ErrNotFound, ErrUpstream} {
				if other != c.kind {
					assert.NotErrorIs(t, wrapped, other)
				}
			}
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "order 42 not found", Message(fmt.Errorf("wrap: %w", NotFound("order %d not found", 42))))
	assert.Empty(t, Message(errors.New("plain")))
}

func TestUpstreamUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream(cause, "provider unavailable")
	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "provider unavailable: connection refused")
}
