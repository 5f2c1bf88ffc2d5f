package pipeline

import "time"

// fpsWindow is how many frame timestamps the rate is averaged over.
const fpsWindow = 30

// fpsMeter estimates the frame rate from recent frame times.
type fpsMeter struct {
	times [fpsWindow]time.Time
	n     int
}

func (m *fpsMeter) tick(now time.Time) {
	m.times[m.n%fpsWindow] = now
	m.n++
}

func (m *fpsMeter) rate() float64 {
	if m.n < 2 {
		return 0
	}
	count := m.n
	if count > fpsWindow {
		count = fpsWindow
	}
	newest := m.times[(m.n-1)%fpsWindow]
	oldest := m.times[(m.n-count)%fpsWindow]
	span := newest.Sub(oldest).Seconds()
	if span <= 0 {
		return 0
	}
	return float64(count-1) / span
}
