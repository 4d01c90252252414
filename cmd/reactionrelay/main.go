package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jdelaire/reactionrelay/adapters/notion"
	"github.com/jdelaire/reactionrelay/adapters/slack"
	"github.com/jdelaire/reactionrelay/core"
	"github.com/jdelaire/reactionrelay/internal/config"
	"github.com/jdelaire/reactionrelay/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	slackClient := slack.NewClient(cfg.SlackBotToken)
	notionClient := notion.NewClient(cfg.NotionToken, cfg.NotionDatabaseID)

	relay := core.NewRelay(cfg.SlackChannel, core.DefaultScoreSet, slackClient, notionClient, log)

	var boltRelay *core.Relay
	var verifier *slack.Verifier
	if cfg.SlackSigningSecret != "" {
		boltRelay = core.NewRelay(cfg.SlackChannel, core.BoltScoreSet, slackClient, notionClient, log.With("endpoint", "bolt"))
		verifier = slack.NewVerifier(cfg.SlackSigningSecret)
		log.Info("bolt endpoint enabled")
	}

	srv := server.New(cfg.ListenAddr, relay, boltRelay, verifier, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting relay", "channel", cfg.SlackChannel)

	if err := srv.ListenAndServe(ctx); err != nil && err != http.ErrServerClosed {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}

	log.Info("relay stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
