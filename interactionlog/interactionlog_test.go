package interactionlog

import (
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

func openTestLogger(t *testing.T) *Logger {
	t.Helper()
	l, err := Open(t.TempDir(), "testchannel", "testbot", "llama2")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func readLog(t *testing.T, l *Logger) string {
	t.Helper()
	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	return string(data)
}

func TestOpenWritesHeader(t *testing.T) {
	l := openTestLogger(t)
	content := readLog(t, l)

	for _, want := range []string{
		"=== Twitch Bot Log Started: ",
		"Channel: testchannel\n",
		"Bot Name: testbot\n",
		"Ollama Model: llama2\n",
		strings.Repeat("=", 50) + "\n",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("header missing %q in:\n%s", want, content)
		}
	}

	base := l.Path()
	if !strings.Contains(base, "bot_log_") || !strings.HasSuffix(base, ".txt") {
		t.Errorf("unexpected log path %q", base)
	}
}

func TestRecordBlockFormat(t *testing.T) {
	l := openTestLogger(t)
	l.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

	l.Record(Success, "normaluser", "@testbot hello", "Hello back!")

	content := readLog(t, l)
	block := "[2025-03-01 12:00:00] SUCCESSFUL RESPONSE\n" +
		"User: normaluser\n" +
		"Message: @testbot hello\n" +
		"Bot Response: Hello back!\n" +
		strings.Repeat("-", 30) + "\n\n"
	if !strings.Contains(content, block) {
		t.Errorf("log missing expected block:\n%s\ngot:\n%s", block, content)
	}
}

func TestRecordOmitsEmptyResponse(t *testing.T) {
	l := openTestLogger(t)
	l.Record(IgnoredAttempt, "IgnoredUser1", "@testbot hello", "")

	content := readLog(t, l)
	if !strings.Contains(content, "[") || !strings.Contains(content, "IGNORED USER ATTEMPT\n") {
		t.Errorf("missing ignored attempt record:\n%s", content)
	}
	// Original-case username is preserved verbatim
	if !strings.Contains(content, "User: IgnoredUser1\n") {
		t.Errorf("username not preserved verbatim:\n%s", content)
	}
	if strings.Contains(content, "Bot Response:") {
		t.Errorf("empty response should omit the Bot Response line:\n%s", content)
	}
}

func TestConcurrentRecordsDoNotInterleave(t *testing.T) {
	l := openTestLogger(t)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l.Record(Failure, "user", strings.Repeat("x", 200), "Sorry, I couldn't generate a response!")
		}(i)
	}
	wg.Wait()

	content := readLog(t, l)
	if got := strings.Count(content, "FAILED RESPONSE\n"); got != writers {
		t.Errorf("got %d records, want %d", got, writers)
	}
	// Every record block must be complete: kind line followed by User/Message/Bot Response lines
	if got := strings.Count(content, strings.Repeat("-", 30)+"\n\n"); got != writers {
		t.Errorf("got %d separators, want %d", got, writers)
	}
}

func TestNilLoggerIsNoOp(t *testing.T) {
	var l *Logger
	l.Record(Error, "user", "msg", "err") // must not panic
	if err := l.Close(); err != nil {
		t.Errorf("nil Close() = %v", err)
	}
	if l.Path() != "" {
		t.Errorf("nil Path() = %q", l.Path())
	}
}
