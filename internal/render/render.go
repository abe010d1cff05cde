package render

import (
	"context"
	"fmt"
)

// Job carries the content substitutions for one render.
type Job struct {
	Headline      string
	Explanation   string
	ActionableTip string
	Hashtags      []string
	MediaURL      string
}

// Dispatcher submits an asynchronous render job. The returned reference
// identifies the job at the provider; completion arrives later on the
// callback address.
type Dispatcher interface {
	Dispatch(ctx context.Context, job Job, callbackURL string) (string, error)
}

// DispatchError reports a render job the provider rejected. The affected
// post is marked failed and excluded from scheduling.
type DispatchError struct {
	StatusCode int
	Body       string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("render provider rejected job: status %d: %s", e.StatusCode, e.Body)
}
