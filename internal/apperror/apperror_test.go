package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NotFound("feature %q", "x"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalid))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))

	// a specific error only matches itself
	specific := &Error{Kind: KindNotFound, Message: "specific"}
	assert.False(t, errors.Is(NotFound("other"), specific))
	assert.True(t, errors.Is(fmt.Errorf("wrap: %w", specific), specific))
}

func TestWrap(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Wrap(KindConflict, cause, "feature \"x\"")

	assert.Equal(t, "feature \"x\": duplicate key", err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrConflict))
}
