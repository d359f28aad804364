// Package config loads environment variables and provides a typed Config used across the service.
// It applies sensible defaults so the binary can run locally with minimal setup.
// For required credentials (Twitch chat), use ValidateChatReady.
package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	// DefaultBotName is the mention name used when neither TWITCH_BOT_NAME
	// nor TWITCH_BOT_USERNAME is set.
	DefaultBotName = "mentionbot"

	// DefaultOllamaURL points at a locally hosted Ollama instance.
	DefaultOllamaURL = "http://localhost:11434"

	// DefaultOllamaModel is used when OLLAMA_MODEL is unset.
	DefaultOllamaModel = "llama2"
)

type Config struct {
	// Twitch
	TwitchChannel     string
	TwitchBotUsername string
	TwitchOAuthToken  string

	// BotName is the name that triggers a reply when mentioned in chat.
	// Always stored lowercased; mention matching is case-insensitive.
	BotName string

	// Ollama
	OllamaURL   string
	OllamaModel string

	// Assets
	SystemPromptFile string
	IgnoredUsersFile string

	// Logging / HTTP
	LogDir   string
	HTTPAddr string
}

// Load reads environment variables and applies defaults. It doesn't fail if Twitch creds
// are missing; use ValidateChatReady() before connecting to chat.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.TwitchChannel = os.Getenv("TWITCH_CHANNEL")
	cfg.TwitchBotUsername = os.Getenv("TWITCH_BOT_USERNAME")
	cfg.TwitchOAuthToken = os.Getenv("TWITCH_OAUTH_TOKEN")

	cfg.BotName = strings.ToLower(os.Getenv("TWITCH_BOT_NAME"))
	if cfg.BotName == "" {
		cfg.BotName = strings.ToLower(cfg.TwitchBotUsername)
	}
	if cfg.BotName == "" {
		cfg.BotName = DefaultBotName
	}

	cfg.OllamaURL = strings.TrimRight(os.Getenv("OLLAMA_URL"), "/")
	if cfg.OllamaURL == "" {
		cfg.OllamaURL = DefaultOllamaURL
	}
	cfg.OllamaModel = os.Getenv("OLLAMA_MODEL")
	if cfg.OllamaModel == "" {
		cfg.OllamaModel = DefaultOllamaModel
	}

	cfg.SystemPromptFile = os.Getenv("SYSTEM_PROMPT_FILE")
	if cfg.SystemPromptFile == "" {
		cfg.SystemPromptFile = "system_prompt.txt"
	}
	cfg.IgnoredUsersFile = os.Getenv("IGNORED_USERS_FILE")
	if cfg.IgnoredUsersFile == "" {
		cfg.IgnoredUsersFile = "ignored_users.txt"
	}

	cfg.LogDir = os.Getenv("LOG_DIR")
	if cfg.LogDir == "" {
		cfg.LogDir = "."
	}
	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	return cfg, nil
}

// ValidateChatReady checks required fields before connecting to Twitch chat.
func (c *Config) ValidateChatReady() error {
	if c.TwitchChannel == "" || c.TwitchBotUsername == "" || c.TwitchOAuthToken == "" {
		return fmt.Errorf("missing twitch env: require TWITCH_CHANNEL, TWITCH_BOT_USERNAME, TWITCH_OAUTH_TOKEN")
	}
	return nil
}
