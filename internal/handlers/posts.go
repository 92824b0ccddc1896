package handlers

import (
	"net/http"
	"strings"

	"github.com/ecoquest/community/internal/community"
	"github.com/ecoquest/community/internal/identity"
	"github.com/ecoquest/community/internal/logging"
	"github.com/ecoquest/community/internal/models"
)

// PostHandler exposes the feed, post creation, likes and comments.
type PostHandler struct {
	Community CommunityService
	Limiter   RateLimiter
}

type createPostRequest struct {
	MediaURL  string           `json:"mediaUrl"`
	MediaType models.MediaType `json:"mediaType"`
	Caption   string           `json:"caption"`
	Tags      []string         `json:"tags"`
}

type createPostResponse struct {
	Approved bool         `json:"approved"`
	Reason   string       `json:"reason,omitempty"`
	Post     *models.Post `json:"post,omitempty"`
}

type commentRequest struct {
	Text string `json:"text"`
}

// Feed handles GET /api/v1/feed.
func (h PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	if h.Community == nil {
		respondError(ctx, w, http.StatusServiceUnavailable, "community unavailable")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"posts": h.Community.Feed()})
}

// Collection handles GET and POST /api/v1/posts.
func (h PostHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h PostHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Community == nil {
		respondError(ctx, w, http.StatusServiceUnavailable, "community unavailable")
		return
	}

	viewerID := ""
	if user := identity.FromContext(ctx); user != nil {
		viewerID = user.ID
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"posts": h.Community.VisiblePosts(viewerID)})
}

func (h PostHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Community == nil {
		respondError(ctx, w, http.StatusServiceUnavailable, "community unavailable")
		return
	}
	if !guardWrite(ctx, w, h.Limiter, r, "posts") {
		return
	}

	var req createPostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logger.Warn("invalid post payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !req.MediaType.Valid() {
		respondError(ctx, w, http.StatusBadRequest, "mediaType must be image or video")
		return
	}

	result := h.Community.AddPost(ctx, identity.FromContext(ctx), community.PostInput{
		MediaURL:  strings.TrimSpace(req.MediaURL),
		MediaType: req.MediaType,
		Caption:   req.Caption,
		Tags:      req.Tags,
	})

	status := http.StatusCreated
	if result.Post == nil {
		status = http.StatusOK
	}
	respondJSON(ctx, w, status, createPostResponse{
		Approved: result.Approved,
		Reason:   result.Reason,
		Post:     result.Post,
	})
}

// Like handles POST and DELETE /api/v1/posts/{id}/like. Both always answer 204;
// unknown posts and anonymous callers are no-ops.
func (h PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	if h.Community == nil {
		respondError(ctx, w, http.StatusServiceUnavailable, "community unavailable")
		return
	}
	if !guardWrite(ctx, w, h.Limiter, r, "likes") {
		return
	}

	userID := ""
	if user := identity.FromContext(ctx); user != nil {
		userID = user.ID
	}
	postID := r.PathValue("id")

	if r.Method == http.MethodPost {
		h.Community.LikePost(ctx, postID, userID)
	} else {
		h.Community.UnlikePost(ctx, postID, userID)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Comment handles POST /api/v1/posts/{id}/comments.
func (h PostHandler) Comment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	if h.Community == nil {
		respondError(ctx, w, http.StatusServiceUnavailable, "community unavailable")
		return
	}
	if !guardWrite(ctx, w, h.Limiter, r, "comments") {
		return
	}

	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logging.FromContext(ctx).Warn("invalid comment payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.Community.AddComment(ctx, r.PathValue("id"), identity.FromContext(ctx), req.Text)
	w.WriteHeader(http.StatusNoContent)
}
