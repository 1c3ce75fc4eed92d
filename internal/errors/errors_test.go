package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

const errTest Code = "test failure"

func TestErrorIs(t *testing.T) {
	err := New(errTest, "boom")
	assert.True(t, Is(err, errTest))
	assert.Equal(t, "test failure: boom", err.Error())

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, Is(wrapped, errTest))
	assert.False(t, Is(wrapped, Code("other")))
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(errTest, nil, "ignored"))
	assert.NoError(t, Wrapf(errTest, nil, "ignored %d", 1))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrapf(errTest, cause, "write %s", "minBitrate")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "write minBitrate: disk full")
}

func TestCodeOf(t *testing.T) {
	code, ok := CodeOf(fmt.Errorf("x: %w", Newf(errTest, "n=%d", 3)))
	assert.True(t, ok)
	assert.Equal(t, errTest, code)

	code, ok = CodeOf(errTest)
	assert.True(t, ok)
	assert.Equal(t, errTest, code)

	_, ok = CodeOf(fmt.Errorf("plain"))
	assert.False(t, ok)
}
