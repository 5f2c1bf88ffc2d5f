package alert

import (
	"context"
	"sync"
)

// Mock records delivered alerts. Err, when set, is returned from Deliver.
// Block, when set, holds each delivery until it is closed.
type Mock struct {
	Err   error
	Block chan struct{}

	mu     sync.Mutex
	alerts []Alert
}

// Deliver records the alert.
func (m *Mock) Deliver(ctx context.Context, a Alert) error {
	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, a)
	return m.Err
}

// Alerts returns the recorded alerts.
func (m *Mock) Alerts() []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Alert, len(m.alerts))
	copy(out, m.alerts)
	return out
}

var _ Sink = (*Mock)(nil)
