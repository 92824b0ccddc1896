package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{Store: deps.StoreDriver}
	posts := PostHandler{Community: deps.Community, Limiter: deps.Limiter}
	stories := StoryHandler{Community: deps.Community, Limiter: deps.Limiter}
	messages := MessageHandler{Messages: deps.Messages, Limiter: deps.Limiter}
	media := MediaHandler{Media: deps.Media, Limiter: deps.Limiter}

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("/api/v1/feed", posts.Feed)
	mux.HandleFunc("/api/v1/posts", posts.Collection)
	mux.HandleFunc("/api/v1/posts/{id}/like", posts.Like)
	mux.HandleFunc("/api/v1/posts/{id}/comments", posts.Comment)
	mux.HandleFunc("/api/v1/stories", stories.Collection)
	mux.HandleFunc("/api/v1/stories/rail", stories.Rail)
	mux.HandleFunc("/api/v1/suggestions", stories.Suggestions)
	mux.HandleFunc("/api/v1/messages/peers", messages.Peers)
	mux.HandleFunc("/api/v1/messages/{peerId}", messages.Thread)
	mux.HandleFunc("/api/v1/media", media.Upload)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Community   CommunityService
	Messages    Messenger
	Media       MediaStore
	Limiter     RateLimiter
	StoreDriver string
}
