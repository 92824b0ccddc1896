package community

import (
	"context"
	"fmt"
	"testing"
)

func TestStoriesRailViewerFirst(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.engine.AddPost(ctx, user("u2", "Ben"), greenPost())
	h.engine.AddPost(ctx, user("u1", "Ana"), greenPost())
	h.engine.AddPost(ctx, user("u3", "Cy"), lunchPost())
	h.engine.AddPost(ctx, user("u2", "Ben"), greenPost())
	h.engine.AddStory(ctx, user("u1", "Ana"), StoryInput{MediaURL: "ana-story"})
	h.engine.AddStory(ctx, user("u3", "Cy"), StoryInput{MediaURL: "cy-story"})

	rail := h.engine.StoriesRail(user("u1", "Ana"))

	var ids []string
	for _, entry := range rail {
		ids = append(ids, entry.User.ID)
	}
	// Posts are newest first: u2, u3, u1, u2.
	if fmt.Sprint(ids) != "[u1 u2 u3]" {
		t.Fatalf("unexpected rail order %v", ids)
	}
	if !rail[0].IsSelf || rail[0].Story == nil || rail[0].Story.MediaURL != "ana-story" {
		t.Fatalf("expected viewer entry with story got %+v", rail[0])
	}
	if rail[1].Story != nil {
		t.Fatalf("expected no story for u2 got %+v", rail[1].Story)
	}
	if rail[2].Story == nil || rail[2].Story.MediaURL != "cy-story" {
		t.Fatalf("expected story for u3 got %+v", rail[2].Story)
	}
}

func TestStoriesRailAnonymousAndCap(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for i := 0; i < RailLimit+5; i++ {
		h.engine.AddPost(ctx, user(fmt.Sprintf("u%d", i), "name"), greenPost())
	}

	rail := h.engine.StoriesRail(nil)
	if len(rail) != RailLimit {
		t.Fatalf("expected %d entries got %d", RailLimit, len(rail))
	}
	for _, entry := range rail {
		if entry.IsSelf {
			t.Fatal("anonymous rail must not contain a self entry")
		}
	}

	rail = h.engine.StoriesRail(user("viewer", "Me"))
	if len(rail) != RailLimit+1 || !rail[0].IsSelf {
		t.Fatalf("expected self plus %d authors got %d", RailLimit, len(rail))
	}
}

func TestSuggestionsExcludeViewer(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		h.engine.AddPost(ctx, user(fmt.Sprintf("u%d", i), "name"), greenPost())
	}

	got := h.engine.Suggestions("u9")
	if len(got) != SuggestionLimit {
		t.Fatalf("expected %d suggestions got %d", SuggestionLimit, len(got))
	}
	for _, u := range got {
		if u.ID == "u9" {
			t.Fatal("viewer must not be suggested")
		}
	}
}

func TestVisiblePostsHidesOthersRejected(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.engine.AddPost(ctx, user("u1", "Ana"), lunchPost())
	h.engine.AddPost(ctx, user("u2", "Ben"), greenPost())

	if got := h.engine.VisiblePosts("u2"); len(got) != 1 {
		t.Fatalf("expected only approved post for other viewer got %d", len(got))
	}
	if got := h.engine.VisiblePosts("u1"); len(got) != 2 {
		t.Fatalf("expected author to see own rejected post got %d", len(got))
	}
	if got := h.engine.VisiblePosts(""); len(got) != 1 {
		t.Fatalf("expected anonymous viewer to see approved only got %d", len(got))
	}
	if got := h.engine.AuthorPosts("u1"); len(got) != 1 || got[0].Approved {
		t.Fatalf("expected author posts to include rejected post got %+v", got)
	}
}

func TestAuthorsDistinct(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.engine.AddPost(ctx, user("u1", "Ana"), greenPost())
	h.engine.AddPost(ctx, user("u2", "Ben"), lunchPost())
	h.engine.AddPost(ctx, user("u1", "Ana"), greenPost())

	got := h.engine.Authors()
	if len(got) != 2 || got[0].ID != "u1" || got[1].ID != "u2" {
		t.Fatalf("unexpected authors %+v", got)
	}
}
