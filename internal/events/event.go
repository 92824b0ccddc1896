package events

import (
	"context"
	"errors"
	"time"
)

// Type names a community event.
type Type string

const (
	PostCreated  Type = "post.created"
	PostLiked    Type = "post.liked"
	PostUnliked  Type = "post.unliked"
	CommentAdded Type = "comment.added"
	StoryAdded   Type = "story.added"
	MessageSent  Type = "message.sent"
)

var (
	// ErrDispatcherClosed is returned by Enqueue after Shutdown.
	ErrDispatcherClosed = errors.New("event dispatcher closed")
	// ErrQueueFull is returned by Enqueue when the buffer is saturated.
	ErrQueueFull = errors.New("event queue full")
)

// Event describes a committed mutation. Fields not relevant to the type are empty.
type Event struct {
	Type       Type      `json:"type"`
	ActorID    string    `json:"actorId"`
	PostID     string    `json:"postId,omitempty"`
	CommentID  string    `json:"commentId,omitempty"`
	StoryID    string    `json:"storyId,omitempty"`
	ThreadKey  string    `json:"threadKey,omitempty"`
	MessageID  string    `json:"messageId,omitempty"`
	Approved   *bool     `json:"approved,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher delivers events to a downstream system.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Notifier accepts events without blocking the caller.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// Discard is a Notifier that drops every event.
type Discard struct{}

// Notify implements Notifier.
func (Discard) Notify(context.Context, Event) {}
