package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestFromContextFallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) != slog.Default() {
		t.Fatal("expected default logger")
	}
}

func TestWithUserIDEnrichesLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithLogger(context.Background(), base)
	ctx = WithUserID(ctx, "user-1")

	if got := UserIDFromContext(ctx); got != "user-1" {
		t.Fatalf("expected user id got %q", got)
	}

	FromContext(ctx).Info("hello")
	if !strings.Contains(buf.String(), "user_id=user-1") {
		t.Fatalf("expected user id attribute in %q", buf.String())
	}
}

func TestStartSpanLinksParent(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := WithLogger(context.Background(), base)

	ctx, outer := StartSpan(ctx, "outer")
	_, inner := StartSpan(ctx, "inner")
	inner.End()
	outer.End()

	out := buf.String()
	if !strings.Contains(out, "span_name=inner") || !strings.Contains(out, "parent_span_id=") {
		t.Fatalf("expected nested span attributes in %q", out)
	}

	var nilSpan *Span
	nilSpan.End()
}
