package frame

import (
	"time"

	"github.com/loov/hrtime"
)

// Meter samples the frame rate over fixed intervals.
type Meter struct {
	interval time.Duration
	now      func() time.Duration

	start  time.Duration
	frames int
}

func NewMeter(interval time.Duration) *Meter {
	return newMeter(interval, hrtime.Now)
}

func newMeter(interval time.Duration, now func() time.Duration) *Meter {
	return &Meter{
		interval: interval,
		now:      now,
		start:    now(),
	}
}

// Tick counts one frame. Once an interval has elapsed it returns the average
// frames per second over that interval and starts a new one.
func (m *Meter) Tick() (fps float64, ok bool) {
	m.frames++

	elapsed := m.now() - m.start
	if elapsed < m.interval {
		return 0, false
	}

	fps = float64(m.frames) / elapsed.Seconds()
	m.start += elapsed
	m.frames = 0
	return fps, true
}
