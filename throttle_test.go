package threads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottlerWindow(t *testing.T) {
	clock := &fakeClock{}
	th := NewThrottler(100, WithClock(clock))

	assert.True(t, th.Try(), "the first call always succeeds")
	assert.False(t, th.Try())

	clock.advance(99)
	assert.False(t, th.Try(), "still inside the interval")

	clock.advance(1)
	assert.True(t, th.Try())
	assert.False(t, th.Try(), "a success resets the window")
}

func TestThrottlerValidation(t *testing.T) {
	require.PanicsWithValue(t, "threads: NewThrottler requires intervalMs > 0", func() {
		NewThrottler(-1)
	})
}
