// Package notify delivers one-line operator notifications for pipeline
// events. Delivery is best effort: a failed notification never fails
// the operation that triggered it.
package notify

import "context"

// Notifier announces a finished video to whatever channel the operator
// configured.
type Notifier interface {
	VideoReady(ctx context.Context, videoURL string) error
}

// Noop is the Notifier used when no webhook is configured.
type Noop struct{}

func (Noop) VideoReady(context.Context, string) error { return nil }
