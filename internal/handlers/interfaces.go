package handlers

import (
	"context"
	"io"

	"github.com/ecoquest/community/internal/community"
	"github.com/ecoquest/community/internal/models"
)

// CommunityService captures the posts and stories operations exposed over HTTP.
type CommunityService interface {
	AddPost(ctx context.Context, author *models.UserSummary, in community.PostInput) community.AddPostResult
	LikePost(ctx context.Context, postID, userID string)
	UnlikePost(ctx context.Context, postID, userID string)
	AddComment(ctx context.Context, postID string, author *models.UserSummary, text string)
	AddStory(ctx context.Context, author *models.UserSummary, in community.StoryInput)
	Feed() []models.Post
	VisiblePosts(viewerID string) []models.Post
	Stories() []models.Story
	StoriesRail(viewer *models.UserSummary) []community.RailEntry
	Suggestions(viewerID string) []models.UserSummary
}

// Messenger captures the direct message operations.
type Messenger interface {
	ListPeers(selfID string) []models.UserSummary
	Send(ctx context.Context, senderID, recipientID, content string) (models.Message, error)
	GetThread(threadKey string) []models.Message
}

// MediaStore persists uploaded media and returns a URL posts can reference.
type MediaStore interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}
