package alert

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultDeliveryTimeout bounds a single delivery.
const DefaultDeliveryTimeout = 30 * time.Second

// Dispatcher queues alerts and delivers them on a single goroutine, so
// delivery never blocks the caller and alerts never overlap. When the queue is
// full new alerts are dropped.
type Dispatcher struct {
	sink    Sink
	queue   chan Alert
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}

	delivered atomic.Int64
	dropped   atomic.Int64
	failed    atomic.Int64
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithDeliveryTimeout bounds each delivery. Zero or less disables the bound.
func WithDeliveryTimeout(d time.Duration) DispatcherOption {
	return func(disp *Dispatcher) {
		disp.timeout = d
	}
}

// NewDispatcher creates a dispatcher with room for size pending alerts.
func NewDispatcher(sink Sink, size int, opts ...DispatcherOption) *Dispatcher {
	if size < 1 {
		size = 1
	}
	d := &Dispatcher{
		sink:    sink,
		queue:   make(chan Alert, size),
		timeout: DefaultDeliveryTimeout,
		logger:  slog.Default(),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With("component", "alert.dispatcher")
	return d
}

// Run delivers queued alerts until Close is called and the queue drains.
// Deliveries carry ctx's values but not its cancellation, so alerts still
// queued when the caller shuts down are spoken before Close returns. Each
// delivery is bounded by the delivery timeout instead.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)
	base := context.WithoutCancel(ctx)
	for a := range d.queue {
		if err := d.deliver(base, a); err != nil {
			d.failed.Add(1)
			d.logger.Warn("alert delivery failed", "track", a.TrackID, "kind", a.Kind, "error", err)
			continue
		}
		d.delivered.Add(1)
		d.logger.Debug("alert delivered", "track", a.TrackID, "kind", a.Kind)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, a Alert) error {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	return d.sink.Deliver(ctx, a)
}

// Submit queues an alert without blocking.
func (d *Dispatcher) Submit(a Alert) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	select {
	case d.queue <- a:
		return nil
	default:
		d.dropped.Add(1)
		d.logger.Warn("alert queue full, dropping alert", "track", a.TrackID, "kind", a.Kind)
		return ErrQueueFull
	}
}

// Close stops accepting alerts and waits for Run to drain the queue.
// Run must have been started.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
}

// Stats reports delivery counters.
type Stats struct {
	Delivered int64 `json:"delivered"`
	Dropped   int64 `json:"dropped"`
	Failed    int64 `json:"failed"`
	Pending   int   `json:"pending"`
}

// Stats returns the current counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Delivered: d.delivered.Load(),
		Dropped:   d.dropped.Load(),
		Failed:    d.failed.Load(),
		Pending:   len(d.queue),
	}
}
