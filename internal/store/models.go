package store

import "time"

// DateLayout is the storage format for scheduled post dates. Dates are
// calendar dates with no time-of-day component.
const DateLayout = "2006-01-02"

// BookStatus represents the lifecycle of a queued book.
type BookStatus string

const (
	BookPending    BookStatus = "pending"
	BookInProgress BookStatus = "in_progress"
	BookCompleted  BookStatus = "completed"
)

// PostStatus represents the lifecycle of a generated post.
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostRendering PostStatus = "rendering"
	PostScheduled PostStatus = "scheduled"
	PostComplete  PostStatus = "complete"
	PostFailed    PostStatus = "failed"
)

// RenderStatus mirrors the external render job state.
type RenderStatus string

const (
	RenderPending    RenderStatus = "pending"
	RenderDispatched RenderStatus = "dispatched"
	RenderSucceeded  RenderStatus = "succeeded"
	RenderFailed     RenderStatus = "failed"
)

// Book is a source work unit awaiting content generation.
type Book struct {
	ID           int64
	Title        string
	Author       string
	Status       BookStatus
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Post is a generated, schedulable unit of output content with an
// associated render job.
type Post struct {
	ID            int64
	BookID        int64
	Headline      string
	Explanation   string
	ActionableTip string
	Hashtags      []string
	MediaKeyword  string
	MediaURL      string
	RenderJobID   string
	Status        PostStatus
	RenderStatus  RenderStatus
	ScheduledFor  string // DateLayout, empty until the scheduler assigns a date
	FinalVideoURL string
	ErrorMessage  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
