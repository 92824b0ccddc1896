package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ecoquest/community/internal/identity"
	"github.com/ecoquest/community/internal/logging"
	"github.com/ecoquest/community/internal/messaging"
	"github.com/ecoquest/community/internal/models"
)

// MessageHandler exposes direct message threads between two users.
type MessageHandler struct {
	Messages Messenger
	Limiter  RateLimiter
}


type sendMessageRequest struct {
	Content string `json:"content"`
}

// Peers handles GET /api/v1/messages/peers. Anonymous callers get an empty list.
func (h MessageHandler) Peers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	if h.Messages == nil {
		respondError(ctx, w, http.StatusServiceUnavailable, "messaging unavailable")
		return
	}

	peers := []models.UserSummary{}
	if user := identity.FromContext(ctx); user != nil {
		peers = h.Messages.ListPeers(user.ID)
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"peers": peers})
}

// Thread handles GET and POST /api/v1/messages/{peerId}.
func (h MessageHandler) Thread(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	if h.Messages == nil {
		respondError(ctx, w, http.StatusServiceUnavailable, "messaging unavailable")
		return
	}

	peerID := strings.TrimSpace(r.PathValue("peerId"))
	if peerID == "" {
		respondError(ctx, w, http.StatusBadRequest, "peer id is required")
		return
	}
	user := identity.FromContext(ctx)

	if r.Method == http.MethodGet {
		messages := []models.Message{}
		if user != nil {
			messages = h.Messages.GetThread(messaging.ThreadKey(user.ID, peerID))
		}
		respondJSON(ctx, w, http.StatusOK, map[string]any{"messages": messages})
		return
	}

	if !guardWrite(ctx, w, h.Limiter, r, "messages") {
		return
	}

	var req sendMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logger.Warn("invalid message payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	senderID := ""
	if user != nil {
		senderID = user.ID
	}
	msg, err := h.Messages.Send(ctx, senderID, peerID, req.Content)
	switch {
	case errors.Is(err, messaging.ErrUnauthenticated):
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, messaging.ErrEmptyContent):
		respondError(ctx, w, http.StatusBadRequest, "message content is empty")
	case err != nil:
		logger.Error("send message failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to send message")
	default:
		respondJSON(ctx, w, http.StatusCreated, msg)
	}
}
