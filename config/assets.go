package config

import (
	"bufio"
	"log/slog"
	"os"
	"strings"
)

// DefaultSystemPrompt is used when the system prompt file is absent or unreadable.
const DefaultSystemPrompt = "You are a helpful Twitch chatbot. Keep responses short and friendly (under 500 characters)."

// LoadSystemPrompt reads the system prompt from path, trimmed of surrounding
// whitespace. Absence or a read error falls back to DefaultSystemPrompt and is
// never fatal.
func LoadSystemPrompt(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("system prompt file not found, using default prompt", slog.String("path", path))
		} else {
			slog.Warn("failed to read system prompt file, using default prompt", slog.String("path", path), slog.Any("err", err))
		}
		return DefaultSystemPrompt
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		slog.Warn("system prompt file empty, using default prompt", slog.String("path", path))
		return DefaultSystemPrompt
	}
	return prompt
}

// IgnoredUsers is a read-only set of lowercased usernames whose messages never
// trigger a response. Built once at startup; safe for concurrent reads.
type IgnoredUsers map[string]struct{}

// Contains reports whether name (case-folded) is in the set.
func (iu IgnoredUsers) Contains(name string) bool {
	_, ok := iu[strings.ToLower(name)]
	return ok
}

// LoadIgnoredUsers reads one username per line from path, skipping blank lines
// and lines starting with '#'. An absent file yields an empty set without error.
func LoadIgnoredUsers(path string) IgnoredUsers {
	users := IgnoredUsers{}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("ignored users file not found, no users will be ignored", slog.String("path", path))
		} else {
			slog.Warn("failed to read ignored users file", slog.String("path", path), slog.Any("err", err))
		}
		return users
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close ignored users file", slog.Any("err", err))
		}
	}()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		users[strings.ToLower(line)] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		slog.Warn("error scanning ignored users file", slog.String("path", path), slog.Any("err", err))
	}
	return users
}
