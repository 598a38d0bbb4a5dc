package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
	"log/slog"

	"github.com/m3rciful/tunebot/bot"
	"github.com/m3rciful/tunebot/core/bootstrap"
	coreconfig "github.com/m3rciful/tunebot/core/config"
	coredatabase "github.com/m3rciful/tunebot/core/database"
	"github.com/m3rciful/tunebot/core/logger"
	coretelegram "github.com/m3rciful/tunebot/core/telegram"
	"github.com/m3rciful/tunebot/core/telegram/router"
	"github.com/m3rciful/tunebot/health"
	"github.com/m3rciful/tunebot/media"
	"github.com/m3rciful/tunebot/session"
	"github.com/m3rciful/tunebot/storage"
)

// appConfig joins the bot configuration with the database section in a
// single YAML file. The database block is optional; without it the bot
// runs with download history disabled.
type appConfig struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
}

func loadConfig(path string) (*appConfig, error) {
	var cfg appConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("tunebot: %v", err)
	}
}

func run() error {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	log.Printf("loading config: %s", cfgPath)
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var db *sqlx.DB
	if strings.TrimSpace(cfg.Database.Host) != "" {
		boot, err := bootstrap.Run(bootstrap.Options{
			Config:   &cfg.Core,
			Database: cfg.Database,
		})
		if err != nil {
			return err
		}
		db = boot.DB
		defer db.Close()
	} else {
		if err := logger.InitLogger(&cfg.Core); err != nil {
			return fmt.Errorf("logger init: %w", err)
		}
		logger.L.With("component", "app").Info("running without database",
			slog.String("event", "db.disabled"),
		)
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	engine := media.NewEngine(cfg.Core.Media)
	if err := engine.Install(ctx); err != nil {
		return fmt.Errorf("media engine install: %w", err)
	}

	sessions := session.NewStore(
		time.Duration(cfg.Core.Sessions.TTLMinutes)*time.Minute,
		cfg.Core.Media.PageSize,
	)

	var history *storage.Downloads
	if db != nil {
		history = storage.NewDownloads(db)
	}

	app := bot.NewApp(&cfg.Core, engine, engine, sessions, history)
	reg := coretelegram.NewRegistry()
	app.Register(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: cfg.Core.Telegram.AdminID,
	})
	routes = append(routes,
		router.TextRoute(reg, router.TextOptions{}),
		router.CallbackRoute(reg, router.CallbackOptions{}),
	)

	startedAt := time.Now()
	runOpts := coretelegram.RunOptions{
		Config:      &cfg.Core,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(&cfg.Core, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			logger.L.With("component", "app").Info("app ready",
				slog.String("event", "ready"),
				slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
			)
			return nil
		},
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			logger.L.With("component", "app").Info("shutting down...",
				slog.String("event", "shutdown"),
			)
			return nil
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return health.Run(gctx, cfg.Core.Health)
	})
	g.Go(func() error {
		sessions.RunJanitor(gctx, time.Duration(cfg.Core.Sessions.SweepIntervalSeconds)*time.Second)
		return nil
	})
	g.Go(func() error {
		return coretelegram.RunTelegram(gctx, runOpts)
	})

	return g.Wait()
}
