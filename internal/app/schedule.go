package app

import (
	"context"
	"fmt"
	"time"

	"reelsmith/internal/store"
)

// today returns the current calendar date in the configured timezone.
func (s *Service) today() time.Time {
	now := s.now().In(s.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
}

// scheduleAnchor returns the date after which new posts may be placed:
// the latest scheduled date across all posts, or today when nothing is
// scheduled yet or the backlog has already lapsed into the past.
func (s *Service) scheduleAnchor(ctx context.Context) (time.Time, error) {
	today := s.today()

	latest, err := s.store.LatestScheduledDate(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("read schedule anchor: %w", err)
	}
	if latest == "" {
		return today, nil
	}

	anchor, err := time.ParseInLocation(store.DateLayout, latest, s.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse scheduled date %q: %w", latest, err)
	}
	if anchor.Before(today) {
		return today, nil
	}
	return anchor, nil
}
