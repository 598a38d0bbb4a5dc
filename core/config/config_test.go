package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q, expected longpoll", cfg.Telegram.RunMode)
	}
	if cfg.Media.SearchLimit != 20 {
		t.Fatalf("search_limit = %d, expected 20", cfg.Media.SearchLimit)
	}
	if cfg.Media.PageSize != 5 {
		t.Fatalf("page_size = %d, expected 5", cfg.Media.PageSize)
	}
	if cfg.Media.DownloadDir != "downloads" {
		t.Fatalf("download_dir = %q", cfg.Media.DownloadDir)
	}
	if cfg.Media.AudioFormat != "mp3" || cfg.Media.AudioQuality != "192K" {
		t.Fatalf("audio defaults = %q/%q", cfg.Media.AudioFormat, cfg.Media.AudioQuality)
	}
	if cfg.Media.FetchTimeoutSeconds != 300 {
		t.Fatalf("fetch_timeout_seconds = %d", cfg.Media.FetchTimeoutSeconds)
	}
	if cfg.Sessions.TTLMinutes != 30 {
		t.Fatalf("ttl_minutes = %d", cfg.Sessions.TTLMinutes)
	}
	if cfg.Health.Port != 8080 {
		t.Fatalf("health port = %d", cfg.Health.Port)
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	cfg := &Config{}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "Polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q, expected longpoll", cfg.Telegram.RunMode)
	}
}

func TestNormalizeRejectsUnknownRunMode(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "carrier-pigeon"
	err := Normalize(cfg)
	if err == nil || !strings.Contains(err.Error(), "run_mode") {
		t.Fatalf("expected run_mode error, got %v", err)
	}
}

func TestNormalizeWebhookRequiresURL(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for webhook mode without url")
	}

	cfg = validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	cfg.Webhook.URL = "https://bot.example.com/hook"
	cfg.Webhook.Listen = "0.0.0.0"
	cfg.Webhook.Port = 8443
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize webhook: %v", err)
	}
}

func TestNormalizeClampsPageSize(t *testing.T) {
	cfg := validConfig()
	cfg.Media.SearchLimit = 3
	cfg.Media.PageSize = 10
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Media.PageSize != 3 {
		t.Fatalf("page_size = %d, expected clamp to search_limit", cfg.Media.PageSize)
	}
}
