package app

import (
	"context"
	"fmt"
	"log/slog"
)

// RenderResult is the provider's verdict on one render job, extracted
// from the webhook payload.
type RenderResult struct {
	Status   string
	VideoURL string
}

type CompletionResult struct {
	Applied  bool
	Notified bool
}

// CompleteRender records a finished render. The operation is
// exactly-once: a replayed webhook for an already complete post changes
// nothing and sends no second notification. A non-successful render
// status is acknowledged without mutating any state.
func (s *Service) CompleteRender(ctx context.Context, postID int64, result RenderResult) (*CompletionResult, error) {
	if result.Status != "succeeded" {
		slog.Warn("Render did not succeed, leaving post untouched", "post", postID, "status", result.Status)
		return &CompletionResult{}, nil
	}
	if result.VideoURL == "" {
		return nil, fmt.Errorf("post %d: succeeded render carries no video URL", postID)
	}

	applied, err := s.store.CompletePost(ctx, postID, result.VideoURL)
	if err != nil {
		return nil, fmt.Errorf("complete post %d: %w", postID, err)
	}
	if !applied {
		slog.Info("Duplicate render webhook ignored", "post", postID)
		return &CompletionResult{}, nil
	}

	slog.Info("Post complete", "post", postID, "video", result.VideoURL)

	// Notification failures are logged, not propagated: the post is
	// already complete and the webhook must still be acknowledged.
	if err := s.notifier.VideoReady(ctx, result.VideoURL); err != nil {
		slog.Error("Notification failed", "post", postID, "error", err)
		return &CompletionResult{Applied: true}, nil
	}

	return &CompletionResult{Applied: true, Notified: true}, nil
}
