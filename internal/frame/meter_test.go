package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMeter(t *testing.T) {
	var clock time.Duration
	m := newMeter(time.Second, func() time.Duration { return clock })

	for i := 0; i < 59; i++ {
		clock += 10 * time.Millisecond
		_, ok := m.Tick()
		assert.False(t, ok)
	}

	clock = 2 * time.Second
	fps, ok := m.Tick()
	assert.True(t, ok)
	assert.InDelta(t, 30.0, fps, 1e-9)

	clock += 500 * time.Millisecond
	_, ok = m.Tick()
	assert.False(t, ok, "a new interval starts after each sample")
}
