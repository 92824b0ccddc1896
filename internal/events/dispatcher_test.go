package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
	block  chan struct{}
}

func (r *recordingPublisher) Publish(ctx context.Context, event Event) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recordingPublisher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcherPublishes(t *testing.T) {
	pub := &recordingPublisher{}
	d := NewDispatcher(pub, DispatcherConfig{QueueSize: 4, Workers: 2}, quietLogger())

	d.Notify(context.Background(), Event{Type: PostCreated, PostID: "p1"})
	d.Notify(context.Background(), Event{Type: MessageSent, MessageID: "m1"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := d.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	if pub.count() != 2 {
		t.Fatalf("expected 2 published events got %d", pub.count())
	}
}

func TestDispatcherQueueFull(t *testing.T) {
	pub := &recordingPublisher{block: make(chan struct{})}
	d := NewDispatcher(pub, DispatcherConfig{QueueSize: 1, Workers: 1}, quietLogger())

	// The first event may already be held by the worker; fill until rejected.
	var err error
	for i := 0; i < 3 && err == nil; i++ {
		err = d.Enqueue(Event{Type: StoryAdded})
	}
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull got %v", err)
	}

	close(pub.block)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := d.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestDispatcherClosed(t *testing.T) {
	d := NewDispatcher(nil, DispatcherConfig{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := d.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if err := d.Shutdown(ctx); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}

	if err := d.Enqueue(Event{Type: PostLiked}); !errors.Is(err, ErrDispatcherClosed) {
		t.Fatalf("expected ErrDispatcherClosed got %v", err)
	}
	d.Notify(context.Background(), Event{Type: PostLiked})
}

func TestDispatcherPublishErrorsAreAbsorbed(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	d := NewDispatcher(pub, DispatcherConfig{}, quietLogger())

	d.Notify(context.Background(), Event{Type: CommentAdded})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := d.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if pub.count() != 1 {
		t.Fatalf("expected publish attempt got %d", pub.count())
	}
}
