package bot

import (
	"sync/atomic"
	"time"
)

// Status holds live counters for the /status endpoint. All fields are atomic;
// the handler and the IRC callbacks update it from different goroutines.
type Status struct {
	startedAt time.Time

	connected atomic.Bool

	messagesSeen    atomic.Uint64
	mentions        atomic.Uint64
	ignoredAttempts atomic.Uint64
	succeeded       atomic.Uint64
	failed          atomic.Uint64
	errored         atomic.Uint64
}

// NewStatus returns a Status anchored at the current time.
func NewStatus() *Status {
	return &Status{startedAt: time.Now()}
}

// SetConnected records the IRC connection state.
func (s *Status) SetConnected(up bool) {
	if s != nil {
		s.connected.Store(up)
	}
}

// Snapshot is a point-in-time copy of the counters, JSON-shaped for /status.
type Snapshot struct {
	Connected       bool   `json:"connected"`
	UptimeSeconds   int64  `json:"uptime_seconds"`
	MessagesSeen    uint64 `json:"messages_seen"`
	Mentions        uint64 `json:"mentions"`
	IgnoredAttempts uint64 `json:"ignored_attempts"`
	RepliesSuccess  uint64 `json:"replies_success"`
	RepliesFailed   uint64 `json:"replies_failed"`
	RepliesErrored  uint64 `json:"replies_errored"`
}

// Nil-safe increments so a Handler without a Status (tests) doesn't panic.

func (s *Status) incMessagesSeen() {
	if s != nil {
		s.messagesSeen.Add(1)
	}
}

func (s *Status) incMentions() {
	if s != nil {
		s.mentions.Add(1)
	}
}

func (s *Status) incIgnoredAttempts() {
	if s != nil {
		s.ignoredAttempts.Add(1)
	}
}

func (s *Status) incSucceeded() {
	if s != nil {
		s.succeeded.Add(1)
	}
}

func (s *Status) incFailed() {
	if s != nil {
		s.failed.Add(1)
	}
}

func (s *Status) incErrored() {
	if s != nil {
		s.errored.Add(1)
	}
}

// Snapshot returns the current counter values.
func (s *Status) Snapshot() Snapshot {
	return Snapshot{
		Connected:       s.connected.Load(),
		UptimeSeconds:   int64(time.Since(s.startedAt).Seconds()),
		MessagesSeen:    s.messagesSeen.Load(),
		Mentions:        s.mentions.Load(),
		IgnoredAttempts: s.ignoredAttempts.Load(),
		RepliesSuccess:  s.succeeded.Load(),
		RepliesFailed:   s.failed.Load(),
		RepliesErrored:  s.errored.Load(),
	}
}
