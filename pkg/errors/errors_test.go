package errors

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndIsType(t *testing.T) {
	err := New(ErrorTypeValidation, "profile has no session id")

	assert.Equal(t, "validation: profile has no session id", err.Error())
	assert.True(t, IsType(err, ErrorTypeValidation))
	assert.False(t, IsType(err, ErrorTypeDecode))
	assert.NotEmpty(t, err.Stack)
}

func TestWrapPreservesCause(t *testing.T) {
	err := Wrap(io.ErrUnexpectedEOF, ErrorTypeDecode, "truncated profile stream")

	require.NotNil(t, err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.True(t, IsType(err, ErrorTypeDecode))
	assert.Contains(t, err.Error(), "truncated profile stream")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeInternal, "never happens"))
}

func TestWrapKeepsOriginalStack(t *testing.T) {
	inner := New(ErrorTypeData, "bad column payload")
	outer := Wrap(inner, ErrorTypeDecode, "profile decode failed")

	assert.Equal(t, inner.Stack, outer.Stack)
	assert.True(t, IsType(outer, ErrorTypeDecode))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypePrecondition, "session id mismatch").
		WithDetail("left", "a").
		WithDetail("right", "b")

	assert.Equal(t, "a", err.Details["left"])
	assert.Equal(t, "b", err.Details["right"])
}

func TestIsTypeOnForeignError(t *testing.T) {
	assert.False(t, IsType(io.EOF, ErrorTypeInternal))
	assert.False(t, IsType(nil, ErrorTypeInternal))
}
