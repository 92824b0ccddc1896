package models

import "time"

// MediaType identifies the kind of media attached to a post.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Valid reports whether the media type is one the community accepts.
func (m MediaType) Valid() bool {
	return m == MediaTypeImage || m == MediaTypeVideo
}

// UserSummary is the author snapshot copied into posts, comments, stories and
// messages at creation time. Later profile edits do not touch it.
type UserSummary struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	AvatarRef *string `json:"avatarUrl,omitempty"`
}

// Comment is an entry in a post's append-only comment list.
type Comment struct {
	ID        string      `json:"id"`
	Author    UserSummary `json:"user"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Post represents a shared photo or video of an environmental action.
type Post struct {
	ID              string      `json:"id"`
	Author          UserSummary `json:"user"`
	MediaURL        string      `json:"mediaUrl"`
	MediaType       MediaType   `json:"mediaType"`
	Caption         string      `json:"caption"`
	Tags            []string    `json:"tags"`
	Likes           []string    `json:"likes"`
	Comments        []Comment   `json:"comments"`
	CreatedAt       time.Time   `json:"createdAt"`
	Approved        bool        `json:"approved"`
	RejectionReason string      `json:"flaggedReason,omitempty"`
}

// LikedBy reports whether userID is in the post's like set.
func (p Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Story is an author's single live story.
type Story struct {
	ID        string      `json:"id"`
	Author    UserSummary `json:"user"`
	MediaURL  string      `json:"mediaUrl"`
	Caption   string      `json:"caption,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Message is one entry in a direct-message thread.
type Message struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"senderId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
