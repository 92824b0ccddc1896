package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ecoquest/community/internal/logging"
)

// DispatcherConfig controls the buffering and concurrency of the dispatcher.
type DispatcherConfig struct {
	QueueSize      int
	Workers        int
	PublishTimeout time.Duration
}

// Dispatcher hands events to a Publisher from a pool of background workers so
// engine mutations never wait on the broker.
type Dispatcher struct {
	publisher Publisher
	logger    *slog.Logger
	timeout   time.Duration

	mu     sync.RWMutex
	closed bool
	jobs   chan Event
	wg     sync.WaitGroup
}

// NewDispatcher starts the worker pool.
func NewDispatcher(publisher Publisher, cfg DispatcherConfig, logger *slog.Logger) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dispatcher{
		publisher: publisher,
		logger:    logger,
		timeout:   cfg.PublishTimeout,
		jobs:      make(chan Event, cfg.QueueSize),
	}

	d.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go d.worker()
	}

	return d
}

// Enqueue buffers the event without blocking.
func (d *Dispatcher) Enqueue(event Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.jobs <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Notify implements Notifier; enqueue failures are logged and dropped.
func (d *Dispatcher) Notify(ctx context.Context, event Event) {
	if err := d.Enqueue(event); err != nil {
		logging.FromContext(ctx).Warn("community event dropped", "type", event.Type, "error", err)
	}
}

// Shutdown stops accepting events and waits for buffered ones to be published.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for event := range d.jobs {
		d.publish(event)
	}
}

func (d *Dispatcher) publish(event Event) {
	if d.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.publisher.Publish(ctx, event); err != nil {
		d.logger.Error("publish community event", "type", event.Type, "error", err)
	}
}
