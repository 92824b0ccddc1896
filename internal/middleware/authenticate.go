package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ecoquest/community/internal/auth"
	"github.com/ecoquest/community/internal/identity"
	"github.com/ecoquest/community/internal/logging"
)

// TokenVerifier validates bearer tokens issued by the authentication service.
type TokenVerifier interface {
	Verify(raw string) (auth.Identity, auth.Profile, error)
}

// Authenticate resolves the acting user from the Authorization header. It never
// rejects a request: missing or invalid tokens leave the request anonymous so
// read-only browsing keeps working.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			raw, err := bearerToken(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			id, profile, err := verifier.Verify(raw)
			if err != nil {
				logging.FromContext(ctx).Warn("bearer token rejected", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			user := identity.Resolve(&id, &profile)
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx = identity.WithUser(ctx, user)
			ctx = logging.WithUserID(ctx, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", auth.ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errors.Join(auth.ErrMissingToken, errors.New("authorization scheme must be Bearer"))
	}
	return strings.TrimSpace(token), nil
}
