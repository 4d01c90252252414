// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/jdelaire/reactionrelay/internal/keychain"
)

const (
	defaultChannel     = "C08CB5CG1B7"
	defaultAllowedUser = "U123456"
	defaultListenAddr  = ":6666"
)

// Config holds the application configuration. It is built once at startup
// and read-only afterwards.
type Config struct {
	SlackBotToken      string
	SlackChannel       string
	AllowedUserID      string // read for completeness, unused by the pipeline
	SlackSigningSecret string // empty disables the bolt-style endpoint
	NotionToken        string
	NotionDatabaseID   string
	ListenAddr         string
	LogLevel           string
}

// Load reads configuration from environment variables. Tokens missing from
// the environment are looked up in the system keychain before failing.
func Load() (*Config, error) {
	slackToken, err := secret("SLACK_BOT_TOKEN")
	if err != nil {
		return nil, err
	}

	notionToken, err := secret("NOTION_TOKEN")
	if err != nil {
		return nil, err
	}

	dbID := os.Getenv("NOTION_DATABASE_ID")
	if dbID == "" {
		return nil, fmt.Errorf("NOTION_DATABASE_ID is required")
	}

	channel := os.Getenv("SLACK_CHANNEL")
	if channel == "" {
		channel = defaultChannel
	}

	allowedUser := os.Getenv("ALLOWED_USER_ID")
	if allowedUser == "" {
		allowedUser = defaultAllowedUser
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = defaultListenAddr
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		SlackBotToken:      slackToken,
		SlackChannel:       channel,
		AllowedUserID:      allowedUser,
		SlackSigningSecret: os.Getenv("SLACK_SIGNING_SECRET"),
		NotionToken:        notionToken,
		NotionDatabaseID:   dbID,
		ListenAddr:         addr,
		LogLevel:           logLevel,
	}, nil
}

// secret reads an environment variable, falling back to the system keychain
// under the variable's name.
func secret(name string) (string, error) {
	if v := os.Getenv(name); v != "" {
		return v, nil
	}
	if v, err := keychain.Get(name); err == nil && v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%s is required (set the variable or store it in the keychain)", name)
}
