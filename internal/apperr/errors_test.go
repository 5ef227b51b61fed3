package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := Newf(CodeInsufficientGold, "need %d gold", 50)
	assert.True(t, errors.Is(err, New(CodeInsufficientGold, "other text")))
	assert.False(t, errors.Is(err, New(CodeLevelTooLow, "need %d gold")))
	assert.Equal(t, "need 50 gold", err.Error())
}

func TestCodeOfWrapped(t *testing.T) {
	base := New(CodeRecipeNotFound, "no such recipe")
	wrapped := fmt.Errorf("craft: %w", base)

	assert.Equal(t, CodeRecipeNotFound, CodeOf(wrapped))
	assert.Equal(t, CodeUnknown, CodeOf(errors.New("plain")))
	assert.Equal(t, Code(""), CodeOf(nil))
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(CodeUnknown, "save failed", cause)
	assert.ErrorIs(t, err, cause)
}
