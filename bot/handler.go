package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/onnwee/mentionbot/config"
	"github.com/onnwee/mentionbot/interactionlog"
	"github.com/onnwee/mentionbot/ollama"
	"github.com/onnwee/mentionbot/telemetry"
)

// Generator produces a reply for one triggering message. Satisfied by
// *ollama.Client; tests substitute a stub.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, username, message string) ollama.Result
}

// Recorder appends one interaction record. Satisfied by *interactionlog.Logger.
type Recorder interface {
	Record(kind interactionlog.Kind, username, message, response string)
}

// Handler is the per-message state machine. All fields are set once at
// startup and read-only afterwards, so overlapping Handle calls share no
// mutable state.
type Handler struct {
	BotName      string // lowercased mention name
	SystemPrompt string
	Ignored      config.IgnoredUsers
	Generator    Generator
	Log          Recorder
	Status       *Status
}

// Handle processes one chat event. Echoes and non-mentions are dropped
// silently; a mention from an ignored user is recorded but never answered;
// any other mention produces exactly one reply and one interaction record.
func (h *Handler) Handle(ctx context.Context, msg Message, sender Sender) {
	if msg.Echo {
		return
	}
	inc(telemetry.MessagesSeen)
	h.Status.incMessagesSeen()

	mentioned := IsMention(msg.Text, h.BotName)

	if h.Ignored.Contains(msg.Author) {
		if mentioned {
			telemetry.LoggerWithCorr(ctx).Info("ignored user tried to trigger bot",
				slog.String("user", msg.Author), slog.String("message", msg.Text))
			inc(telemetry.IgnoredAttempts)
			h.Status.incIgnoredAttempts()
			h.record(interactionlog.IgnoredAttempt, msg.Author, msg.Text, "")
		}
		return
	}

	if !mentioned {
		return
	}
	inc(telemetry.MentionsDetected)
	h.Status.incMentions()
	h.handleMention(ctx, msg, sender)
}

func (h *Handler) handleMention(ctx context.Context, msg Message, sender Sender) {
	ctx, span := telemetry.StartSpan(ctx, "bot", "bot.handle_mention", telemetry.UserAttr(msg.Author))
	defer span.End()

	log := telemetry.LoggerWithCorr(ctx)
	log.Info("generating response", slog.String("user", msg.Author), slog.String("message", msg.Text))

	// The reply must be dispatched before the record is written, and a panic
	// anywhere in handling must still yield at most one of each.
	var replied, recorded bool
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		err := fmt.Errorf("mention handling panicked: %v", r)
		telemetry.RecordError(span, err)
		log.Error("mention handling panicked", slog.Any("err", err))
		inc(telemetry.HandlerErrors)
		h.Status.incErrored()
		if !replied {
			h.send(log, sender, FormatReply(msg.Author, FallbackError))
		}
		if !recorded {
			h.record(interactionlog.Error, msg.Author, msg.Text, fmt.Sprintf("Error: %v", r))
		}
	}()

	res := h.Generator.Generate(ctx, h.SystemPrompt, msg.Author, msg.Text)

	switch {
	case res.Kind == ollama.Generated && res.Text != "":
		reply := TruncateReply(res.Text)
		h.send(log, sender, "@"+msg.Author+" "+reply)
		replied = true
		h.record(interactionlog.Success, msg.Author, msg.Text, reply)
		recorded = true
		inc(telemetry.RepliesSucceeded)
		h.Status.incSucceeded()
		telemetry.SetSpanSuccess(span)
		log.Info("response sent", slog.String("user", msg.Author))

	case res.Kind == ollama.TransportError:
		telemetry.RecordError(span, res.Err)
		log.Error("generation call failed", slog.Any("err", res.Err))
		h.send(log, sender, FormatReply(msg.Author, FallbackError))
		replied = true
		h.record(interactionlog.Error, msg.Author, msg.Text, fmt.Sprintf("Error: %v", res.Err))
		recorded = true
		inc(telemetry.HandlerErrors)
		h.Status.incErrored()

	default:
		// Non-200 status, or a 200 with no usable text.
		if res.Kind == ollama.BadStatus {
			log.Warn("generation returned no result", slog.Int("status", res.Status))
		} else {
			log.Warn("generation returned empty text")
		}
		h.send(log, sender, FormatReply(msg.Author, FallbackNoResult))
		replied = true
		h.record(interactionlog.Failure, msg.Author, msg.Text, FallbackNoResult)
		recorded = true
		inc(telemetry.RepliesFailed)
		h.Status.incFailed()
	}
}

func (h *Handler) send(log *slog.Logger, sender Sender, text string) {
	if err := sender.Say(text); err != nil {
		// Send faults are the channel's problem; nothing to retry here.
		log.Error("failed to send chat reply", slog.Any("err", err))
	}
}

func (h *Handler) record(kind interactionlog.Kind, username, message, response string) {
	if h.Log != nil {
		h.Log.Record(kind, username, message, response)
	}
}

func inc(c prometheus.Counter) {
	if c != nil {
		c.Inc()
	}
}
