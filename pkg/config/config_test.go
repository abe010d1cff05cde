package config

import (
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	if cfg.Groq.SummaryModel != defaultSummaryModel {
		t.Errorf("SummaryModel = %q, want %q", cfg.Groq.SummaryModel, defaultSummaryModel)
	}
	if cfg.Groq.ContentModel != defaultContentModel {
		t.Errorf("ContentModel = %q, want %q", cfg.Groq.ContentModel, defaultContentModel)
	}
	if cfg.Agent.MaxScheduled != 7 {
		t.Errorf("MaxScheduled = %d, want 7", cfg.Agent.MaxScheduled)
	}
	if cfg.Agent.TakeawayCount != 3 {
		t.Errorf("TakeawayCount = %d, want 3", cfg.Agent.TakeawayCount)
	}
	if cfg.Agent.MinSummaryWords != 800 {
		t.Errorf("MinSummaryWords = %d, want 800", cfg.Agent.MinSummaryWords)
	}
	if cfg.Agent.Interval != time.Hour {
		t.Errorf("Interval = %v, want 1h", cfg.Agent.Interval)
	}
	if cfg.Agent.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want UTC", cfg.Agent.Timezone)
	}
	if cfg.Server.ListenAddr != defaultListenAddr {
		t.Errorf("ListenAddr = %q, want %q", cfg.Server.ListenAddr, defaultListenAddr)
	}
	if cfg.Database.Path != defaultDatabasePath {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, defaultDatabasePath)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Agent: AgentConfig{
			MaxScheduled:  14,
			TakeawayCount: 5,
			Timezone:      "Europe/Vilnius",
		},
	}
	applyDefaults(cfg)

	if cfg.Agent.MaxScheduled != 14 {
		t.Errorf("MaxScheduled = %d, want 14", cfg.Agent.MaxScheduled)
	}
	if cfg.Agent.TakeawayCount != 5 {
		t.Errorf("TakeawayCount = %d, want 5", cfg.Agent.TakeawayCount)
	}
	if cfg.Agent.Timezone != "Europe/Vilnius" {
		t.Errorf("Timezone = %q, want Europe/Vilnius", cfg.Agent.Timezone)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "complete",
			cfg: Config{
				GroqAPIKey:       "gk",
				PexelsAPIKey:     "pk",
				CreatomateAPIKey: "ck",
				Render:           RenderConfig{TemplateID: "tmpl-1"},
			},
			wantErr: false,
		},
		{
			name: "missingGroqKey",
			cfg: Config{
				PexelsAPIKey:     "pk",
				CreatomateAPIKey: "ck",
				Render:           RenderConfig{TemplateID: "tmpl-1"},
			},
			wantErr: true,
		},
		{
			name: "missingTemplate",
			cfg: Config{
				GroqAPIKey:       "gk",
				PexelsAPIKey:     "pk",
				CreatomateAPIKey: "ck",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := &Config{Agent: AgentConfig{Timezone: "UTC"}}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location() error = %v", err)
	}
	if loc != time.UTC {
		t.Errorf("Location() = %v, want UTC", loc)
	}

	cfg.Agent.Timezone = "Not/AZone"
	if _, err := cfg.Location(); err == nil {
		t.Error("Location() expected error for bogus timezone")
	}
}
