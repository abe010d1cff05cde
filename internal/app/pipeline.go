package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"reelsmith/internal/render"
	"reelsmith/internal/store"
)

// claimAttempts bounds how often a run re-reads the queue head after
// losing a claim race before giving up with ErrClaimContention.
const claimAttempts = 2

type RunOutcome string

const (
	OutcomeScheduled    RunOutcome = "scheduled"
	OutcomeCapacityFull RunOutcome = "capacity_full"
	OutcomeQueueEmpty   RunOutcome = "queue_empty"
)

type RunResult struct {
	Outcome   RunOutcome
	BookID    int64
	BookTitle string
	Scheduled []*store.Post
	Message   string
}

// Run executes one full pipeline pass: capacity gate, queue claim,
// two-stage generation, media resolution, render dispatch and date
// assignment. A pass that schedules nothing because the calendar is
// full or the queue is empty is a successful no-op.
func (s *Service) Run(ctx context.Context) (*RunResult, error) {
	today := s.today()

	upcoming, err := s.store.CountUpcoming(ctx, today.Format(store.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("count upcoming posts: %w", err)
	}
	if upcoming >= s.cfg.Agent.MaxScheduled {
		slog.Info("Schedule at capacity, skipping run", "upcoming", upcoming, "max", s.cfg.Agent.MaxScheduled)
		return &RunResult{
			Outcome: OutcomeCapacityFull,
			Message: fmt.Sprintf("%d posts already scheduled (max %d)", upcoming, s.cfg.Agent.MaxScheduled),
		}, nil
	}

	book, err := s.claimNext(ctx)
	if err != nil {
		return nil, err
	}
	if book == nil {
		slog.Info("Queue is empty, nothing to do")
		return &RunResult{Outcome: OutcomeQueueEmpty, Message: "no books queued"}, nil
	}

	slog.Info("Processing book", "id", book.ID, "title", book.Title, "author", book.Author)

	posts, err := s.generatePosts(ctx, book)
	if err != nil {
		s.release(ctx, book.ID, err.Error())
		return nil, fmt.Errorf("generate content for %q: %w", book.Title, err)
	}

	dispatched := s.dispatchPosts(ctx, posts)
	if len(dispatched) == 0 {
		reason := "no posts could be dispatched for rendering"
		s.release(ctx, book.ID, reason)
		return nil, fmt.Errorf("book %q: %s", book.Title, reason)
	}

	scheduled, err := s.schedulePosts(ctx, dispatched)
	if err != nil {
		s.release(ctx, book.ID, err.Error())
		return nil, fmt.Errorf("schedule posts for %q: %w", book.Title, err)
	}

	if err := s.store.CompleteBook(ctx, book.ID); err != nil {
		return nil, fmt.Errorf("complete book %q: %w", book.Title, err)
	}

	slog.Info("Book processed", "id", book.ID, "title", book.Title, "posts", len(scheduled))
	return &RunResult{
		Outcome:   OutcomeScheduled,
		BookID:    book.ID,
		BookTitle: book.Title,
		Scheduled: scheduled,
		Message:   fmt.Sprintf("scheduled %d posts for %q", len(scheduled), book.Title),
	}, nil
}

// claimNext reads the queue head and claims it with an optimistic
// compare-and-swap on (id, status, updated_at). Losing the race means
// another worker took the same head; re-read and try once more.
func (s *Service) claimNext(ctx context.Context) (*store.Book, error) {
	for attempt := 0; attempt < claimAttempts; attempt++ {
		book, err := s.store.NextQueued(ctx)
		if err != nil {
			return nil, fmt.Errorf("read queue head: %w", err)
		}
		if book == nil {
			return nil, nil
		}

		claimed, err := s.store.ClaimBook(ctx, book)
		if err != nil {
			return nil, fmt.Errorf("claim book %d: %w", book.ID, err)
		}
		if claimed {
			return book, nil
		}
		slog.Debug("Lost claim race, re-reading queue", "id", book.ID)
	}
	return nil, ErrClaimContention
}

// generatePosts runs the two generation stages and persists one draft
// post per takeaway. Nothing is persisted if either stage fails.
func (s *Service) generatePosts(ctx context.Context, book *store.Book) ([]*store.Post, error) {
	slog.Info("Generating summary...", "title", book.Title, "min_words", s.cfg.Agent.MinSummaryWords)
	summary, err := s.llm.Summarize(ctx, book.Title, book.Author, s.cfg.Agent.MinSummaryWords)
	if err != nil {
		return nil, err
	}

	slog.Info("Generating takeaways...", "title", book.Title, "count", s.cfg.Agent.TakeawayCount)
	takeaways, err := s.llm.GenerateTakeaways(ctx, book.Title, summary, s.cfg.Agent.TakeawayCount)
	if err != nil {
		return nil, err
	}

	posts := make([]*store.Post, 0, len(takeaways))
	for _, takeaway := range takeaways {
		post := &store.Post{
			BookID:        book.ID,
			Headline:      takeaway.Headline,
			Explanation:   takeaway.Explanation,
			ActionableTip: takeaway.ActionableTip,
			Hashtags:      takeaway.Hashtags,
			MediaKeyword:  takeaway.MediaKeyword,
		}
		if err := s.store.InsertPost(ctx, post); err != nil {
			return nil, fmt.Errorf("persist draft post: %w", err)
		}
		posts = append(posts, post)
	}

	return posts, nil
}

// dispatchPosts resolves background media and submits a render job for
// each draft. A post whose media or dispatch fails is marked failed and
// skipped; the rest of the batch continues.
func (s *Service) dispatchPosts(ctx context.Context, posts []*store.Post) []*store.Post {
	dispatched := make([]*store.Post, 0, len(posts))
	for _, post := range posts {
		mediaURL, err := s.media.Resolve(ctx, post.MediaKeyword)
		if err != nil {
			slog.Warn("Media resolution failed, skipping post", "post", post.ID, "keyword", post.MediaKeyword, "error", err)
			s.failPost(ctx, post.ID, fmt.Sprintf("media: %v", err))
			continue
		}

		job := render.Job{
			Headline:      post.Headline,
			Explanation:   post.Explanation,
			ActionableTip: post.ActionableTip,
			Hashtags:      post.Hashtags,
			MediaURL:      mediaURL,
		}
		jobID, err := s.renderer.Dispatch(ctx, job, s.callbackURL(post.ID))
		if err != nil {
			slog.Warn("Render dispatch failed, skipping post", "post", post.ID, "error", err)
			s.failPost(ctx, post.ID, fmt.Sprintf("dispatch: %v", err))
			continue
		}

		if err := s.store.MarkRendering(ctx, post.ID, mediaURL, jobID); err != nil {
			slog.Warn("Could not record dispatch, skipping post", "post", post.ID, "error", err)
			s.failPost(ctx, post.ID, fmt.Sprintf("record dispatch: %v", err))
			continue
		}
		post.MediaURL = mediaURL
		post.RenderJobID = jobID

		slog.Info("Render dispatched", "post", post.ID, "job", jobID)
		dispatched = append(dispatched, post)
	}
	return dispatched
}

// schedulePosts assigns consecutive future dates starting the day after
// the current schedule anchor.
func (s *Service) schedulePosts(ctx context.Context, posts []*store.Post) ([]*store.Post, error) {
	anchor, err := s.scheduleAnchor(ctx)
	if err != nil {
		return nil, err
	}

	for i, post := range posts {
		date := anchor.AddDate(0, 0, i+1).Format(store.DateLayout)
		if err := s.store.SchedulePost(ctx, post.ID, date); err != nil {
			return nil, fmt.Errorf("assign date to post %d: %w", post.ID, err)
		}
		post.ScheduledFor = date
		slog.Info("Post scheduled", "post", post.ID, "date", date)
	}

	return posts, nil
}

func (s *Service) callbackURL(postID int64) string {
	base := strings.TrimRight(s.cfg.Server.PublicBaseURL, "/")
	return base + "/api/webhooks/render/" + strconv.FormatInt(postID, 10)
}

func (s *Service) release(ctx context.Context, bookID int64, reason string) {
	if err := s.store.ReleaseBook(ctx, bookID, reason); err != nil {
		slog.Error("Could not release claimed book", "id", bookID, "error", err)
	}
}

func (s *Service) failPost(ctx context.Context, postID int64, reason string) {
	if err := s.store.MarkPostFailed(ctx, postID, reason); err != nil {
		slog.Error("Could not mark post failed", "post", postID, "error", err)
	}
}
