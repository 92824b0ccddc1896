// Package messaging owns direct-message threads between pairs of users.
package messaging

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ecoquest/community/internal/events"
	"github.com/ecoquest/community/internal/logging"
	"github.com/ecoquest/community/internal/models"
	"github.com/ecoquest/community/internal/store"
)

// ThreadSeparator joins the sorted participant ids of a thread key.
const ThreadSeparator = "|"

var (
	// ErrEmptyContent is returned when a message is blank after trimming.
	ErrEmptyContent = errors.New("message content is empty")
	// ErrUnauthenticated is returned when no sender was resolved.
	ErrUnauthenticated = errors.New("sender not authenticated")
)

// PeerSource lists the users seen in the community so far.
type PeerSource interface {
	Authors() []models.UserSummary
}

// Options configures an Engine.
type Options struct {
	Store    *store.Adapter
	Peers    PeerSource
	Notifier events.Notifier
	NowFunc  func() time.Time
	NewID    func() string
}

// Engine keeps every thread in memory, keyed by ThreadKey, and writes the whole
// thread map through to the store on each send.
type Engine struct {
	mu      sync.Mutex
	threads map[string][]models.Message

	store    *store.Adapter
	peers    PeerSource
	notifier events.Notifier
	now      func() time.Time
	newID    func() string
}

// ThreadKey returns the canonical key for the unordered pair (a, b).
func ThreadKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, ThreadSeparator)
}

// NewEngine loads the persisted threads.
func NewEngine(ctx context.Context, opts Options) *Engine {
	e := &Engine{
		store:    opts.Store,
		peers:    opts.Peers,
		notifier: opts.Notifier,
		now:      opts.NowFunc,
		newID:    opts.NewID,
	}
	if e.notifier == nil {
		e.notifier = events.Discard{}
	}
	if e.now == nil {
		e.now = func() time.Time { return time.Now().UTC() }
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}

	e.threads = store.Load(ctx, e.store, store.KeyThreads, map[string][]models.Message{})
	if e.threads == nil {
		e.threads = map[string][]models.Message{}
	}

	logging.FromContext(ctx).Info("message threads loaded", "threads", len(e.threads))
	return e
}

// ListPeers returns the distinct community authors other than selfID.
func (e *Engine) ListPeers(selfID string) []models.UserSummary {
	peers := []models.UserSummary{}
	if e.peers == nil {
		return peers
	}
	seen := make(map[string]struct{})
	for _, u := range e.peers.Authors() {
		if u.ID == selfID {
			continue
		}
		if _, ok := seen[u.ID]; ok {
			continue
		}
		seen[u.ID] = struct{}{}
		peers = append(peers, u)
	}
	return peers
}

// SendMessage appends a message from senderID to the thread. Content is stored
// trimmed; blank content leaves the thread untouched.
func (e *Engine) SendMessage(ctx context.Context, threadKey, senderID, content string) (models.Message, error) {
	ctx, span := logging.StartSpan(ctx, "messaging.send")
	defer span.End()

	if senderID == "" {
		return models.Message{}, ErrUnauthenticated
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, ErrEmptyContent
	}

	msg := models.Message{
		ID:        e.newID(),
		SenderID:  senderID,
		Content:   content,
		CreatedAt: e.now(),
	}

	e.mu.Lock()
	e.threads[threadKey] = append(e.threads[threadKey], msg)
	e.store.Save(ctx, store.KeyThreads, e.threads)
	e.mu.Unlock()

	e.notifier.Notify(ctx, events.Event{
		Type:       events.MessageSent,
		ActorID:    senderID,
		ThreadKey:  threadKey,
		MessageID:  msg.ID,
		OccurredAt: msg.CreatedAt,
	})
	return msg, nil
}

// Send is SendMessage addressed by recipient rather than thread key.
func (e *Engine) Send(ctx context.Context, senderID, recipientID, content string) (models.Message, error) {
	return e.SendMessage(ctx, ThreadKey(senderID, recipientID), senderID, content)
}

// GetThread returns the messages of the thread in send order. Unknown threads
// yield an empty, non-nil slice.
func (e *Engine) GetThread(threadKey string) []models.Message {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]models.Message{}, e.threads[threadKey]...)
}

// ThreadKeys lists the keys of every thread userID participates in.
func (e *Engine) ThreadKeys(userID string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var keys []string
	for key := range e.threads {
		for _, id := range strings.Split(key, ThreadSeparator) {
			if id == userID {
				keys = append(keys, key)
				break
			}
		}
	}
	sort.Strings(keys)
	return keys
}
