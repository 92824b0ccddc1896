// Package community owns the posts, comments, likes and stories of the
// community feed and derives the feed, stories rail and suggestion views.
package community

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ecoquest/community/internal/classifier"
	"github.com/ecoquest/community/internal/events"
	"github.com/ecoquest/community/internal/logging"
	"github.com/ecoquest/community/internal/models"
	"github.com/ecoquest/community/internal/store"
)

// ErrUnauthenticated is reported by AddPost when no author was resolved.
var ErrUnauthenticated = errors.New("not authenticated")

// UnauthenticatedReason is the reason returned to anonymous post attempts.
const UnauthenticatedReason = "Not authenticated"

// PostInput carries the composer fields of a new post.
type PostInput struct {
	MediaURL  string
	MediaType models.MediaType
	Caption   string
	Tags      []string
}

// StoryInput carries the composer fields of a new story.
type StoryInput struct {
	MediaURL string
	Caption  string
}

// AddPostResult tells the author whether the post is publicly visible.
type AddPostResult struct {
	Approved bool
	Reason   string
	Post     *models.Post
	Err      error
}

// Options configures an Engine.
type Options struct {
	Store    *store.Adapter
	Notifier events.Notifier
	NowFunc  func() time.Time
	NewID    func() string
}

// Engine is the authoritative in-memory social graph. Public operations are
// serialized, and every mutation is written through to the store before it
// returns.
type Engine struct {
	mu      sync.Mutex
	posts   []models.Post
	stories []models.Story

	store    *store.Adapter
	notifier events.Notifier
	now      func() time.Time
	newID    func() string
}

// NewEngine loads the persisted posts and stories and returns a ready engine.
func NewEngine(ctx context.Context, opts Options) *Engine {
	e := &Engine{
		store:    opts.Store,
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

	e.posts = store.Load(ctx, e.store, store.KeyPosts, []models.Post{})
	e.stories = store.Load(ctx, e.store, store.KeyStories, []models.Story{})

	logging.FromContext(ctx).Info("community state loaded", "posts", len(e.posts), "stories", len(e.stories))
	return e
}

// AddPost creates a post for author. The post is always stored; Approved
// reports whether the classifier admitted it to the public feed.
func (e *Engine) AddPost(ctx context.Context, author *models.UserSummary, in PostInput) AddPostResult {
	ctx, span := logging.StartSpan(ctx, "community.add_post")
	defer span.End()

	if author == nil {
		return AddPostResult{Approved: false, Reason: UnauthenticatedReason, Err: ErrUnauthenticated}
	}

	approved := classifier.Classify(in.Caption, in.Tags)
	post := models.Post{
		ID:        e.newID(),
		Author:    cloneUser(*author),
		MediaURL:  in.MediaURL,
		MediaType: in.MediaType,
		Caption:   in.Caption,
		Tags:      append([]string{}, in.Tags...),
		Likes:     []string{},
		Comments:  []models.Comment{},
		CreatedAt: e.now(),
		Approved:  approved,
	}
	if !approved {
		post.RejectionReason = classifier.RejectionReason
	}

	e.mu.Lock()
	e.posts = append([]models.Post{post}, e.posts...)
	e.savePostsLocked(ctx)
	e.mu.Unlock()

	logging.FromContext(ctx).Info("post created", "postId", post.ID, "approved", approved)
	e.notifier.Notify(ctx, events.Event{
		Type:       events.PostCreated,
		ActorID:    author.ID,
		PostID:     post.ID,
		Approved:   &approved,
		OccurredAt: post.CreatedAt,
	})

	created := clonePost(post)
	return AddPostResult{Approved: approved, Reason: post.RejectionReason, Post: &created}
}

// LikePost adds userID to the post's like set. Unknown posts, anonymous users
// and repeated likes are no-ops.
func (e *Engine) LikePost(ctx context.Context, postID, userID string) {
	ctx, span := logging.StartSpan(ctx, "community.like_post")
	defer span.End()

	if userID == "" {
		return
	}

	e.mu.Lock()
	idx := e.indexOfLocked(postID)
	if idx < 0 || e.posts[idx].LikedBy(userID) {
		e.mu.Unlock()
		return
	}
	e.posts[idx].Likes = append(e.posts[idx].Likes, userID)
	e.savePostsLocked(ctx)
	e.mu.Unlock()

	e.notifier.Notify(ctx, events.Event{Type: events.PostLiked, ActorID: userID, PostID: postID, OccurredAt: e.now()})
}

// UnlikePost removes userID from the post's like set. Absent likes, unknown
// posts and anonymous users are no-ops.
func (e *Engine) UnlikePost(ctx context.Context, postID, userID string) {
	ctx, span := logging.StartSpan(ctx, "community.unlike_post")
	defer span.End()

	if userID == "" {
		return
	}

	e.mu.Lock()
	idx := e.indexOfLocked(postID)
	if idx < 0 || !e.posts[idx].LikedBy(userID) {
		e.mu.Unlock()
		return
	}
	likes := make([]string, 0, len(e.posts[idx].Likes))
	for _, id := range e.posts[idx].Likes {
		if id != userID {
			likes = append(likes, id)
		}
	}
	e.posts[idx].Likes = likes
	e.savePostsLocked(ctx)
	e.mu.Unlock()

	e.notifier.Notify(ctx, events.Event{Type: events.PostUnliked, ActorID: userID, PostID: postID, OccurredAt: e.now()})
}

// AddComment appends a trimmed comment to the post. Anonymous authors, blank
// text and unknown posts are no-ops.
func (e *Engine) AddComment(ctx context.Context, postID string, author *models.UserSummary, text string) {
	ctx, span := logging.StartSpan(ctx, "community.add_comment")
	defer span.End()

	text = strings.TrimSpace(text)
	if author == nil || text == "" {
		return
	}

	comment := models.Comment{
		ID:        e.newID(),
		Author:    cloneUser(*author),
		Text:      text,
		CreatedAt: e.now(),
	}

	e.mu.Lock()
	idx := e.indexOfLocked(postID)
	if idx < 0 {
		e.mu.Unlock()
		return
	}
	e.posts[idx].Comments = append(e.posts[idx].Comments, comment)
	e.savePostsLocked(ctx)
	e.mu.Unlock()

	e.notifier.Notify(ctx, events.Event{
		Type:       events.CommentAdded,
		ActorID:    author.ID,
		PostID:     postID,
		CommentID:  comment.ID,
		OccurredAt: comment.CreatedAt,
	})
}

// AddStory publishes a story for author, replacing any story the author
// already has. Anonymous authors are a no-op.
func (e *Engine) AddStory(ctx context.Context, author *models.UserSummary, in StoryInput) {
	ctx, span := logging.StartSpan(ctx, "community.add_story")
	defer span.End()

	if author == nil {
		return
	}

	story := models.Story{
		ID:        e.newID(),
		Author:    cloneUser(*author),
		MediaURL:  in.MediaURL,
		Caption:   in.Caption,
		CreatedAt: e.now(),
	}

	e.mu.Lock()
	next := make([]models.Story, 0, len(e.stories)+1)
	next = append(next, story)
	for _, s := range e.stories {
		if s.Author.ID != author.ID {
			next = append(next, s)
		}
	}
	e.stories = next
	e.store.Save(ctx, store.KeyStories, e.stories)
	e.mu.Unlock()

	e.notifier.Notify(ctx, events.Event{Type: events.StoryAdded, ActorID: author.ID, StoryID: story.ID, OccurredAt: story.CreatedAt})
}

// Posts returns every post, approved or not, most recently written first.
func (e *Engine) Posts() []models.Post {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.Post, len(e.posts))
	for i, p := range e.posts {
		out[i] = clonePost(p)
	}
	return out
}

// Stories returns the live stories, at most one per author.
func (e *Engine) Stories() []models.Story {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.Story, len(e.stories))
	for i, s := range e.stories {
		s.Author = cloneUser(s.Author)
		out[i] = s
	}
	return out
}

// Post returns a single post by id.
func (e *Engine) Post(postID string) (models.Post, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOfLocked(postID)
	if idx < 0 {
		return models.Post{}, false
	}
	return clonePost(e.posts[idx]), true
}

func (e *Engine) indexOfLocked(postID string) int {
	for i := range e.posts {
		if e.posts[i].ID == postID {
			return i
		}
	}
	return -1
}

func (e *Engine) savePostsLocked(ctx context.Context) {
	e.store.Save(ctx, store.KeyPosts, e.posts)
}

func cloneUser(u models.UserSummary) models.UserSummary {
	if u.AvatarRef != nil {
		avatar := *u.AvatarRef
		u.AvatarRef = &avatar
	}
	return u
}

func clonePost(p models.Post) models.Post {
	p.Author = cloneUser(p.Author)
	p.Tags = append([]string{}, p.Tags...)
	p.Likes = append([]string{}, p.Likes...)
	comments := make([]models.Comment, len(p.Comments))
	for i, c := range p.Comments {
		c.Author = cloneUser(c.Author)
		comments[i] = c
	}
	p.Comments = comments
	return p
}
