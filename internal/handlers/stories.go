package handlers

import (
	"net/http"
	"strings"

	"github.com/ecoquest/community/internal/community"
	"github.com/ecoquest/community/internal/identity"
	"github.com/ecoquest/community/internal/logging"
)

// StoryHandler exposes stories, the stories rail and people suggestions.
type StoryHandler struct {
	Community CommunityService
	Limiter   RateLimiter
}

type createStoryRequest struct {
	MediaURL string `json:"mediaUrl"`
	Caption  string `json:"caption"`
}

// Collection handles GET and POST /api/v1/stories.
func (h StoryHandler) Collection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.Community == nil {
		respondError(ctx, w, http.StatusServiceUnavailable, "community unavailable")
		return
	}

	if r.Method == http.MethodGet {
		respondJSON(ctx, w, http.StatusOK, map[string]any{"stories": h.Community.Stories()})
		return
	}

	if !guardWrite(ctx, w, h.Limiter, r, "stories") {
		return
	}

	var req createStoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logging.FromContext(ctx).Warn("invalid story payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.Community.AddStory(ctx, identity.FromContext(ctx), community.StoryInput{MediaURL: strings.TrimSpace(req.MediaURL), Caption: req.Caption})
	w.WriteHeader(http.StatusNoContent)
}

// Rail handles GET /api/v1/stories/rail.
func (h StoryHandler) Rail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	if h.Community == nil {
		respondError(ctx, w, http.StatusServiceUnavailable, "community unavailable")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"rail": h.Community.StoriesRail(identity.FromContext(ctx))})
}

// Suggestions handles GET /api/v1/suggestions.
func (h StoryHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	if h.Community == nil {
		respondError(ctx, w, http.StatusServiceUnavailable, "community unavailable")
		return
	}

	viewerID := ""
	if user := identity.FromContext(ctx); user != nil {
		viewerID = user.ID
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"people": h.Community.Suggestions(viewerID)})
}
