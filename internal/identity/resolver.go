package identity

import (
	"strings"

	"github.com/ecoquest/community/internal/auth"
	"github.com/ecoquest/community/internal/models"
)

// FallbackName labels users that have neither a display name nor an email.
const FallbackName = "User"

// Resolve derives the acting user's summary from the authentication and
// profile collaborators. It returns nil when no identity is available; callers
// must treat that as "operation unavailable".
func Resolve(id *auth.Identity, profile *auth.Profile) *models.UserSummary {
	if id == nil || strings.TrimSpace(id.UserID) == "" {
		return nil
	}

	name := FallbackName
	switch {
	case profile != nil && strings.TrimSpace(profile.DisplayName) != "":
		name = profile.DisplayName
	case strings.TrimSpace(id.Email) != "":
		name = id.Email
	}

	summary := &models.UserSummary{ID: id.UserID, Name: name}
	if profile != nil && strings.TrimSpace(profile.AvatarRef) != "" {
		avatar := profile.AvatarRef
		summary.AvatarRef = &avatar
	}
	return summary
}
