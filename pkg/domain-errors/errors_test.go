package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodeNotFound, "paper not found")
	require.Error(t, err)
	assert.Equal(t, "not_found: paper not found", err.Error())
	assert.True(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(err, CodeConflict))
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "failed to load paper")

	require.Error(t, err)
	assert.True(t, HasCode(err, CodeInternal))
	assert.ErrorIs(t, err, cause)
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestHasCode_NestedChain(t *testing.T) {
	inner := New(CodeConflict, "title already registered")
	outer := Wrap(inner, CodeInternal, "registration failed")

	assert.True(t, HasCode(outer, CodeInternal))
	assert.True(t, HasCode(outer, CodeConflict))
	assert.False(t, HasCode(outer, CodeNotFound))
}

func TestHasCode_ThroughFmtWrap(t *testing.T) {
	inner := New(CodeForbidden, "caller is not the author")
	wrapped := fmt.Errorf("add version: %w", inner)

	assert.True(t, HasCode(wrapped, CodeForbidden))
}

func TestHasCode_PlainError(t *testing.T) {
	assert.False(t, HasCode(errors.New("plain"), CodeInternal))
	assert.False(t, HasCode(nil, CodeInternal))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeValidation, CodeOf(New(CodeValidation, "empty title")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))

	inner := New(CodeConflict, "dup")
	outer := Wrap(inner, CodeInternal, "oops")
	assert.Equal(t, CodeInternal, CodeOf(outer), "outermost code wins")
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "empty title", MessageOf(New(CodeValidation, "empty title")))
	assert.Equal(t, "plain", MessageOf(errors.New("plain")))
	assert.Equal(t, "", MessageOf(nil))
}
