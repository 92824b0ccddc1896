package community

import (
	"sort"

	"github.com/ecoquest/community/internal/models"
)

const (
	// RailLimit caps the number of other authors on the stories rail.
	RailLimit = 20
	// SuggestionLimit caps the people suggestions shown next to the feed.
	SuggestionLimit = 6
)

// RailEntry is one avatar on the stories rail.
type RailEntry struct {
	User   models.UserSummary `json:"user"`
	Story  *models.Story      `json:"story,omitempty"`
	IsSelf bool               `json:"isSelf"`
}

// Feed returns the approved posts, newest first. It is recomputed on every call.
func (e *Engine) Feed() []models.Post {
	e.mu.Lock()
	feed := make([]models.Post, 0, len(e.posts))
	for _, p := range e.posts {
		if p.Approved {
			feed = append(feed, clonePost(p))
		}
	}
	e.mu.Unlock()

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].CreatedAt.After(feed[j].CreatedAt)
	})
	return feed
}

// AuthorPosts returns every post written by userID, including unapproved ones.
func (e *Engine) AuthorPosts(userID string) []models.Post {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []models.Post
	for _, p := range e.posts {
		if p.Author.ID == userID {
			out = append(out, clonePost(p))
		}
	}
	return out
}

// VisiblePosts returns the raw collection as seen by viewerID: approved posts
// plus the viewer's own unapproved posts, in write order.
func (e *Engine) VisiblePosts(viewerID string) []models.Post {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.Post, 0, len(e.posts))
	for _, p := range e.posts {
		if p.Approved || (viewerID != "" && p.Author.ID == viewerID) {
			out = append(out, clonePost(p))
		}
	}
	return out
}

// Authors returns the distinct post authors in first-occurrence order.
func (e *Engine) Authors() []models.UserSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.authorsLocked("", 0)
}

// StoriesRail builds the stories rail for viewer. The viewer, when known, is
// always first; other authors follow in first-occurrence order up to RailLimit.
func (e *Engine) StoriesRail(viewer *models.UserSummary) []RailEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	byAuthor := make(map[string]models.Story, len(e.stories))
	for _, s := range e.stories {
		byAuthor[s.Author.ID] = s
	}
	storyFor := func(userID string) *models.Story {
		s, ok := byAuthor[userID]
		if !ok {
			return nil
		}
		s.Author = cloneUser(s.Author)
		return &s
	}

	rail := []RailEntry{}
	exclude := ""
	if viewer != nil {
		exclude = viewer.ID
		rail = append(rail, RailEntry{User: cloneUser(*viewer), Story: storyFor(viewer.ID), IsSelf: true})
	}
	for _, u := range e.authorsLocked(exclude, RailLimit) {
		rail = append(rail, RailEntry{User: u, Story: storyFor(u.ID)})
	}
	return rail
}

// Suggestions returns up to SuggestionLimit people other than viewerID.
func (e *Engine) Suggestions(viewerID string) []models.UserSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.authorsLocked(viewerID, SuggestionLimit)
}

// authorsLocked lists distinct authors skipping exclude; limit <= 0 means no cap.
func (e *Engine) authorsLocked(exclude string, limit int) []models.UserSummary {
	seen := make(map[string]struct{})
	out := []models.UserSummary{}
	for _, p := range e.posts {
		id := p.Author.ID
		if id == exclude && exclude != "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, cloneUser(p.Author))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
