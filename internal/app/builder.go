package app

import (
	"reelsmith/internal/llm/groq"
	"reelsmith/internal/media"
	"reelsmith/internal/media/pexels"
	"reelsmith/internal/notify"
	"reelsmith/internal/notify/discord"
	"reelsmith/internal/render/creatomate"
	"reelsmith/internal/store"
	"reelsmith/pkg/config"
	"reelsmith/pkg/prompts"
)

// BuildService wires the full pipeline from configuration. The caller
// owns the returned store and must Close it.
func BuildService(cfg *config.Config) (*Service, error) {
	p, err := prompts.Load()
	if err != nil {
		return nil, err
	}

	llmClient, err := groq.NewClient(cfg.GroqAPIKey, cfg.Groq.SummaryModel, cfg.Groq.ContentModel, p)
	if err != nil {
		return nil, err
	}

	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	pexelsClient := pexels.NewClient(pexels.Config{APIKey: cfg.PexelsAPIKey})
	resolver := media.NewResolver(pexelsClient, cfg.Media.MinClipHeight, cfg.Media.ClipsPerQuery)

	renderer := creatomate.NewClient(creatomate.Config{
		APIKey:     cfg.CreatomateAPIKey,
		TemplateID: cfg.Render.TemplateID,
		Timeout:    cfg.Server.RequestTimeout,
	})

	var notifier notify.Notifier
	if cfg.DiscordWebhookURL != "" {
		notifier = discord.NewClient(cfg.DiscordWebhookURL)
	}

	return NewService(ServiceOptions{
		Config:   cfg,
		Store:    db,
		LLM:      llmClient,
		Media:    resolver,
		Renderer: renderer,
		Notifier: notifier,
		Location: location,
	}), nil
}
