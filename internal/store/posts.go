package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const postColumns = "id, book_id, headline, explanation, actionable_tip, hashtags_json, media_keyword, media_url, render_job_id, status, render_status, scheduled_post_date, final_video_url, error_message, created_at, updated_at"

// InsertPost persists a new draft post and fills in its identifier.
func (s *Store) InsertPost(ctx context.Context, post *Post) error {
	hashtags, err := json.Marshal(post.Hashtags)
	if err != nil {
		return fmt.Errorf("marshal hashtags: %w", err)
	}

	now := time.Now()
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO posts (book_id, headline, explanation, actionable_tip, hashtags_json, media_keyword, status, render_status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.BookID, post.Headline, post.Explanation, post.ActionableTip,
		string(hashtags), post.MediaKeyword, PostDraft, RenderPending,
		timestamp(now), timestamp(now),
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	post.ID = id
	post.Status = PostDraft
	post.RenderStatus = RenderPending
	post.CreatedAt = now.UTC()
	post.UpdatedAt = now.UTC()
	return nil
}

// GetPost fetches a post by identifier, returning nil when absent.
func (s *Store) GetPost(ctx context.Context, id int64) (*Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// PostsForBook returns the posts generated from a book in creation order.
func (s *Store) PostsForBook(ctx context.Context, bookID int64) ([]*Post, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+postColumns+` FROM posts WHERE book_id = ? ORDER BY id ASC`,
		bookID,
	)
	if err != nil {
		return nil, fmt.Errorf("posts for book: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// CountUpcoming counts the posts still occupying a calendar slot after the
// given date. This is the admission-control gate for the pipeline: failed
// posts free their slot, everything else with a future date holds it until
// the date passes.
func (s *Store) CountUpcoming(ctx context.Context, after string) (int, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM posts WHERE scheduled_post_date IS NOT NULL AND scheduled_post_date > ? AND status != ?`,
		after, PostFailed,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count upcoming posts: %w", err)
	}
	return count, nil
}

// LatestScheduledDate returns the maximum scheduled date across all posts,
// or empty when no post has been scheduled yet.
func (s *Store) LatestScheduledDate(ctx context.Context) (string, error) {
	var latest sql.NullString
	err := s.db.QueryRowContext(
		ctx,
		`SELECT MAX(scheduled_post_date) FROM posts WHERE scheduled_post_date IS NOT NULL`,
	).Scan(&latest)
	if err != nil {
		return "", fmt.Errorf("latest scheduled date: %w", err)
	}
	return latest.String, nil
}

// MarkRendering records a successful render dispatch: the resolved media
// asset, the provider's job reference, and the rendering status.
func (s *Store) MarkRendering(ctx context.Context, id int64, mediaURL, jobID string) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE posts SET status = ?, render_status = ?, media_url = ?, render_job_id = ?, updated_at = ? WHERE id = ? AND status = ?`,
		PostRendering, RenderDispatched, mediaURL, jobID, timestamp(time.Now()), id, PostDraft,
	)
	if err != nil {
		return fmt.Errorf("mark rendering: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mark rendering: post %d is not a draft", id)
	}
	return nil
}

// MarkPostFailed moves a post to the failed terminal state, freeing its
// calendar slot.
func (s *Store) MarkPostFailed(ctx context.Context, id int64, reason string) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE posts SET status = ?, render_status = ?, error_message = ?, updated_at = ? WHERE id = ? AND status != ?`,
		PostFailed, RenderFailed, nullableString(reason), timestamp(time.Now()), id, PostComplete,
	)
	if err != nil {
		return fmt.Errorf("mark post failed: %w", err)
	}
	return nil
}

// SchedulePost assigns the calendar date and transitions the post to
// scheduled.
func (s *Store) SchedulePost(ctx context.Context, id int64, date string) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE posts SET status = ?, scheduled_post_date = ?, updated_at = ? WHERE id = ? AND status = ?`,
		PostScheduled, date, timestamp(time.Now()), id, PostRendering,
	)
	if err != nil {
		return fmt.Errorf("schedule post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("schedule post: post %d is not rendering", id)
	}
	return nil
}

// CompletePost applies the render result exactly once: it sets the final
// video URL and the complete status, guarded on the post not already being
// complete. Returns false without error when the completion was already
// applied, so callers can suppress duplicate downstream effects.
func (s *Store) CompletePost(ctx context.Context, id int64, videoURL string) (bool, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE posts SET status = ?, render_status = ?, final_video_url = ?, updated_at = ? WHERE id = ? AND status != ?`,
		PostComplete, RenderSucceeded, videoURL, timestamp(time.Now()), id, PostComplete,
	)
	if err != nil {
		return false, fmt.Errorf("complete post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return true, nil
	}

	post, err := s.GetPost(ctx, id)
	if err != nil {
		return false, err
	}
	if post == nil {
		return false, fmt.Errorf("complete post: post %d not found", id)
	}
	return false, nil
}

// ListPosts returns all posts, newest first.
func (s *Store) ListPosts(ctx context.Context) ([]*Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

func collectPosts(rows *sql.Rows) ([]*Post, error) {
	var posts []*Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func scanPost(scanner interface{ Scan(dest ...any) error }) (*Post, error) {
	var (
		post         Post
		hashtagsRaw  string
		mediaURL     sql.NullString
		jobID        sql.NullString
		statusStr    string
		renderStr    string
		scheduledFor sql.NullString
		finalURL     sql.NullString
		errMsg       sql.NullString
		createdRaw   string
		updatedRaw   string
	)
	if err := scanner.Scan(
		&post.ID, &post.BookID, &post.Headline, &post.Explanation, &post.ActionableTip,
		&hashtagsRaw, &post.MediaKeyword, &mediaURL, &jobID, &statusStr, &renderStr,
		&scheduledFor, &finalURL, &errMsg, &createdRaw, &updatedRaw,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(hashtagsRaw), &post.Hashtags); err != nil {
		return nil, fmt.Errorf("unmarshal hashtags: %w", err)
	}
	post.MediaURL = mediaURL.String
	post.RenderJobID = jobID.String
	post.Status = PostStatus(statusStr)
	post.RenderStatus = RenderStatus(renderStr)
	post.ScheduledFor = scheduledFor.String
	post.FinalVideoURL = finalURL.String
	post.ErrorMessage = errMsg.String
	post.CreatedAt = parseTimestamp(createdRaw)
	post.UpdatedAt = parseTimestamp(updatedRaw)
	return &post, nil
}
