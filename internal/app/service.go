// Package app orchestrates the content pipeline: claiming a queued
// book, generating takeaway posts, resolving background media,
// dispatching renders and assigning publish dates, then completing
// posts when the render provider calls back.
package app

import (
	"time"

	"reelsmith/internal/llm"
	"reelsmith/internal/media"
	"reelsmith/internal/notify"
	"reelsmith/internal/render"
	"reelsmith/internal/store"
	"reelsmith/pkg/config"
)

type Service struct {
	cfg      *config.Config
	store    *store.Store
	llm      llm.Client
	media    media.Resolver
	renderer render.Dispatcher
	notifier notify.Notifier
	location *time.Location

	// now is injectable so date arithmetic is testable.
	now func() time.Time
}

type ServiceOptions struct {
	Config   *config.Config
	Store    *store.Store
	LLM      llm.Client
	Media    media.Resolver
	Renderer render.Dispatcher
	Notifier notify.Notifier
	Location *time.Location
	Now      func() time.Time
}

func NewService(opts ServiceOptions) *Service {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Noop{}
	}
	location := opts.Location
	if location == nil {
		location = time.UTC
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		cfg:      opts.Config,
		store:    opts.Store,
		llm:      opts.LLM,
		media:    opts.Media,
		renderer: opts.Renderer,
		notifier: notifier,
		location: location,
		now:      now,
	}
}

func (s *Service) Store() *store.Store { return s.store }
