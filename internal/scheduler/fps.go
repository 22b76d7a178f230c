package scheduler

import "time"

// fpsMeter counts retired frames over a fixed window.
type fpsMeter struct {
	window time.Duration
	start  time.Time
	frames int
	last   float64
}

func (m *fpsMeter) reset(now time.Time) {
	m.start = now
	m.frames = 0
	m.last = 0
}

func (m *fpsMeter) frame() {
	m.frames++
}

// sample returns the latest rate and whether a window closed at now.
func (m *fpsMeter) sample(now time.Time) (float64, bool) {
	elapsed := now.Sub(m.start)
	if elapsed < m.window {
		return m.last, false
	}
	m.last = float64(m.frames) / elapsed.Seconds()
	m.start = now
	m.frames = 0
	return m.last, true
}
