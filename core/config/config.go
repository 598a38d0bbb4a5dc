package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

// MediaConfig controls the search/download engine.
type MediaConfig struct {
	// SearchLimit caps the number of results fetched per query.
	SearchLimit int `yaml:"search_limit" envconfig:"MEDIA_SEARCH_LIMIT"`
	// PageSize is the number of result buttons shown per page.
	PageSize     int    `yaml:"page_size" envconfig:"MEDIA_PAGE_SIZE"`
	DownloadDir  string `yaml:"download_dir" envconfig:"MEDIA_DOWNLOAD_DIR"`
	AudioFormat  string `yaml:"audio_format" envconfig:"MEDIA_AUDIO_FORMAT"`
	AudioQuality string `yaml:"audio_quality" envconfig:"MEDIA_AUDIO_QUALITY"`
	// FetchTimeoutSeconds bounds a single download attempt.
	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds" envconfig:"MEDIA_FETCH_TIMEOUT_SECONDS"`
	// FetchRetries is the number of extra attempts after a failed download.
	FetchRetries int `yaml:"fetch_retries" envconfig:"MEDIA_FETCH_RETRIES"`
	// CookieFile is an optional cookies.txt passed to the extractor.
	CookieFile string `yaml:"cookie_file" envconfig:"MEDIA_COOKIE_FILE"`
}

// SessionsConfig controls retention of per-user search sessions.
type SessionsConfig struct {
	TTLMinutes           int `yaml:"ttl_minutes" envconfig:"SESSIONS_TTL_MINUTES"`
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds" envconfig:"SESSIONS_SWEEP_INTERVAL_SECONDS"`
}

// HealthConfig specifies the liveness HTTP listener.
type HealthConfig struct {
	Listen string `yaml:"listen" envconfig:"HEALTH_LISTEN"`
	Port   int    `yaml:"port" envconfig:"PORT"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
)

// RateLimitConfig holds settings for rate limiting.
// ExcludeUpdates accepts update types to bypass limiting:
// - "callback": Telegram callback button presses
// - "message": standard text messages
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// Config aggregates the application configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Media     MediaConfig     `yaml:"media"`
	Sessions  SessionsConfig  `yaml:"sessions"`
	Health    HealthConfig    `yaml:"health"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	allowed := map[string]struct{}{
		UpdateCallback: {},
		UpdateMessage:  {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}

	if cfg.Media.SearchLimit < 0 {
		return fmt.Errorf("media.search_limit must be >= 0")
	}
	if cfg.Media.SearchLimit == 0 {
		cfg.Media.SearchLimit = 20
	}
	if cfg.Media.PageSize < 0 {
		return fmt.Errorf("media.page_size must be >= 0")
	}
	if cfg.Media.PageSize == 0 {
		cfg.Media.PageSize = 5
	}
	if cfg.Media.PageSize > cfg.Media.SearchLimit {
		cfg.Media.PageSize = cfg.Media.SearchLimit
	}
	if strings.TrimSpace(cfg.Media.DownloadDir) == "" {
		cfg.Media.DownloadDir = "downloads"
	}
	if strings.TrimSpace(cfg.Media.AudioFormat) == "" {
		cfg.Media.AudioFormat = "mp3"
	}
	if strings.TrimSpace(cfg.Media.AudioQuality) == "" {
		cfg.Media.AudioQuality = "192K"
	}
	if cfg.Media.FetchTimeoutSeconds <= 0 {
		cfg.Media.FetchTimeoutSeconds = 300
	}
	if cfg.Media.FetchRetries < 0 {
		cfg.Media.FetchRetries = 0
	}

	if cfg.Sessions.TTLMinutes <= 0 {
		cfg.Sessions.TTLMinutes = 30
	}
	if cfg.Sessions.SweepIntervalSeconds <= 0 {
		cfg.Sessions.SweepIntervalSeconds = 60
	}

	if strings.TrimSpace(cfg.Health.Listen) == "" {
		cfg.Health.Listen = "0.0.0.0"
	}
	if cfg.Health.Port <= 0 {
		cfg.Health.Port = 8080
	}

	return nil
}
