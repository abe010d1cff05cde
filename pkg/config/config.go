package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath      = "config.yaml"
	defaultDatabasePath    = "./reelsmith.db"
	defaultListenAddr      = ":8080"
	defaultPublicBaseURL   = "http://localhost:8080"
	defaultRunInterval     = time.Hour
	defaultMaxScheduled    = 7
	defaultTakeawayCount   = 3
	defaultMinSummaryWords = 800
	defaultTimezone        = "UTC"
	defaultSummaryModel    = "llama-3.3-70b-versatile"
	defaultContentModel    = "llama-3.1-8b-instant"
	defaultMinClipHeight   = 1280
	defaultClipsPerQuery   = 10
	defaultRequestTimeout  = 30 * time.Second
)

type Config struct {
	GroqAPIKey        string
	PexelsAPIKey      string
	CreatomateAPIKey  string
	DiscordWebhookURL string

	Groq     GroqConfig     `yaml:"groq"`
	Agent    AgentConfig    `yaml:"agent"`
	Server   ServerConfig   `yaml:"server"`
	Media    MediaConfig    `yaml:"media"`
	Render   RenderConfig   `yaml:"render"`
	Database DatabaseConfig `yaml:"database"`
}

type GroqConfig struct {
	SummaryModel string `yaml:"summary_model"`
	ContentModel string `yaml:"content_model"`
}

type AgentConfig struct {
	Interval        time.Duration `yaml:"interval"`
	MaxScheduled    int           `yaml:"max_scheduled"`
	TakeawayCount   int           `yaml:"takeaway_count"`
	MinSummaryWords int           `yaml:"min_summary_words"`
	Timezone        string        `yaml:"timezone"`
}

type ServerConfig struct {
	ListenAddr     string        `yaml:"listen_addr"`
	PublicBaseURL  string        `yaml:"public_base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type MediaConfig struct {
	MinClipHeight int `yaml:"min_clip_height"`
	ClipsPerQuery int `yaml:"clips_per_query"`
}

type RenderConfig struct {
	TemplateID string `yaml:"template_id"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// Load reads .env, layers config.yaml on top, and applies defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		GroqAPIKey:        os.Getenv("GROQ_API_KEY"),
		PexelsAPIKey:      os.Getenv("PEXELS_API_KEY"),
		CreatomateAPIKey:  os.Getenv("CREATOMATE_API_KEY"),
		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
	}

	loadYAMLConfig(cfg)
	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	return cfg
}

// Validate reports configuration the pipeline cannot run without.
func (cfg *Config) Validate() error {
	if cfg.GroqAPIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is not set")
	}
	if cfg.PexelsAPIKey == "" {
		return fmt.Errorf("PEXELS_API_KEY is not set")
	}
	if cfg.CreatomateAPIKey == "" {
		return fmt.Errorf("CREATOMATE_API_KEY is not set")
	}
	if cfg.Render.TemplateID == "" {
		return fmt.Errorf("render.template_id is not set")
	}
	return nil
}

// Location resolves the timezone used for calendar-date arithmetic.
func (cfg *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(cfg.Agent.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Agent.Timezone, err)
	}
	return loc, nil
}

func loadYAMLConfig(cfg *Config) {
	path := os.Getenv("REELSMITH_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("No config.yaml found, using defaults")
		return
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		slog.Error("Failed to parse config.yaml", "error", err)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		cfg.Server.PublicBaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.ListenAddr = ":" + v
	}
	if v := os.Getenv("CREATOMATE_TEMPLATE_ID"); v != "" {
		cfg.Render.TemplateID = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
}

func applyDefaults(cfg *Config) {
	applyGroqDefaults(cfg)
	applyAgentDefaults(cfg)
	applyServerDefaults(cfg)
	applyMediaDefaults(cfg)
	applyDatabaseDefaults(cfg)
}

func applyGroqDefaults(cfg *Config) {
	if cfg.Groq.SummaryModel == "" {
		cfg.Groq.SummaryModel = defaultSummaryModel
	}
	if cfg.Groq.ContentModel == "" {
		cfg.Groq.ContentModel = defaultContentModel
	}
}

func applyAgentDefaults(cfg *Config) {
	if cfg.Agent.Interval == 0 {
		cfg.Agent.Interval = defaultRunInterval
	}
	if cfg.Agent.MaxScheduled == 0 {
		cfg.Agent.MaxScheduled = defaultMaxScheduled
	}
	if cfg.Agent.TakeawayCount == 0 {
		cfg.Agent.TakeawayCount = defaultTakeawayCount
	}
	if cfg.Agent.MinSummaryWords == 0 {
		cfg.Agent.MinSummaryWords = defaultMinSummaryWords
	}
	if cfg.Agent.Timezone == "" {
		cfg.Agent.Timezone = defaultTimezone
	}
}

func applyServerDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = defaultListenAddr
	}
	if cfg.Server.PublicBaseURL == "" {
		cfg.Server.PublicBaseURL = defaultPublicBaseURL
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
}

func applyMediaDefaults(cfg *Config) {
	if cfg.Media.MinClipHeight == 0 {
		cfg.Media.MinClipHeight = defaultMinClipHeight
	}
	if cfg.Media.ClipsPerQuery == 0 {
		cfg.Media.ClipsPerQuery = defaultClipsPerQuery
	}
}

func applyDatabaseDefaults(cfg *Config) {
	if cfg.Database.Path == "" {
		cfg.Database.Path = defaultDatabasePath
	}
}
