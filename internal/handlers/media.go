package handlers

import (
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ecoquest/community/internal/identity"
	"github.com/ecoquest/community/internal/logging"
	"github.com/ecoquest/community/internal/models"
)

// MaxMediaBytes bounds a single upload.
const MaxMediaBytes = 50 << 20

// MediaHandler accepts raw media uploads for posts and stories.
type MediaHandler struct {
	Media   MediaStore
	Limiter RateLimiter
}

type mediaResponse struct {
	URL       string           `json:"url"`
	MediaType models.MediaType `json:"mediaType"`
}

// Upload handles POST /api/v1/media. The request body is the raw file and the
// Content-Type header must be an image or video type.
func (h MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Media == nil {
		respondError(ctx, w, http.StatusServiceUnavailable, "media storage not configured")
		return
	}
	user := identity.FromContext(ctx)
	if user == nil {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}
	if !guardWrite(ctx, w, h.Limiter, r, "media") {
		return
	}

	contentType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		respondError(ctx, w, http.StatusUnsupportedMediaType, "content type is required")
		return
	}
	mediaType, ok := mediaTypeFor(contentType)
	if !ok {
		respondError(ctx, w, http.StatusUnsupportedMediaType, "only image and video uploads are accepted")
		return
	}

	name := fmt.Sprintf("%s/%s%s", user.ID, uuid.NewString(), extensionFor(contentType))
	body := http.MaxBytesReader(w, r.Body, MaxMediaBytes)
	url, err := h.Media.Save(ctx, name, contentType, body)
	if err != nil {
		logger.Error("media upload failed", "error", err, "name", name)
		respondError(ctx, w, http.StatusBadGateway, "failed to store media")
		return
	}

	logger.Info("media uploaded", "name", name, "mediaType", mediaType)
	respondJSON(ctx, w, http.StatusCreated, mediaResponse{URL: url, MediaType: mediaType})
}

func mediaTypeFor(contentType string) (models.MediaType, bool) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.MediaTypeImage, true
	case strings.HasPrefix(contentType, "video/"):
		return models.MediaTypeVideo, true
	default:
		return "", false
	}
}

func extensionFor(contentType string) string {
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}
