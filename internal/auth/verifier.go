package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken indicates the request carried no bearer token.
	ErrMissingToken = errors.New("bearer token missing")
	// ErrInvalidToken indicates the bearer token failed verification.
	ErrInvalidToken = errors.New("bearer token invalid")
)

// Identity is the authenticated subject asserted by the external auth service.
type Identity struct {
	UserID string
	Email  string
}

// Profile carries the display fields the profile service embeds in tokens.
type Profile struct {
	DisplayName string
	AvatarRef   string
}

// Claims is the token payload shared with the auth service.
type Claims struct {
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 bearer tokens issued by the external auth service.
type Verifier struct {
	secret []byte
	issuer string

	NowFunc func() time.Time
}

// NewVerifier constructs a Verifier for the shared secret. An empty issuer
// disables the issuer check.
func NewVerifier(secret, issuer string) *Verifier {
	if secret == "" {
		panic("auth: token secret must not be empty")
	}
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses the raw token and returns the identity and profile it asserts.
func (v *Verifier) Verify(raw string) (Identity, Profile, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identity{}, Profile{}, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return Identity{}, Profile{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || strings.TrimSpace(claims.Subject) == "" {
		return Identity{}, Profile{}, ErrInvalidToken
	}

	return Identity{UserID: claims.Subject, Email: claims.Email},
		Profile{DisplayName: claims.Name, AvatarRef: claims.Avatar},
		nil
}

// Sign issues a token for the identity. The service only verifies tokens; Sign
// exists for the dev token command and tests.
func (v *Verifier) Sign(id Identity, profile Profile, ttl time.Duration) (string, error) {
	if id.UserID == "" {
		return "", errors.New("user id must be provided")
	}
	now := v.now()
	claims := Claims{
		Email:  id.Email,
		Name:   profile.DisplayName,
		Avatar: profile.AvatarRef,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

func (v *Verifier) now() time.Time {
	if v.NowFunc != nil {
		return v.NowFunc()
	}
	return time.Now().UTC()
}
