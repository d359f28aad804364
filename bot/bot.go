package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	twitch "github.com/gempir/go-twitch-irc/v4"
	"github.com/google/uuid"

	"github.com/onnwee/mentionbot/config"
	"github.com/onnwee/mentionbot/telemetry"
)

// Bot wires the Twitch IRC client to the mention handler for one channel.
type Bot struct {
	client      *twitch.Client
	handler     *Handler
	channel     string
	botUsername string
	status      *Status
}

// New builds the IRC client from config and attaches the handler.
func New(cfg *config.Config, handler *Handler, status *Status) *Bot {
	return &Bot{
		client:      twitch.NewClient(cfg.TwitchBotUsername, cfg.TwitchOAuthToken),
		handler:     handler,
		channel:     cfg.TwitchChannel,
		botUsername: cfg.TwitchBotUsername,
		status:      status,
	}
}

// channelSender adapts the IRC client's send primitive to the handler's
// Sender capability.
type channelSender struct {
	client  *twitch.Client
	channel string
}

func (s channelSender) Say(text string) error {
	s.client.Say(s.channel, text)
	return nil
}

// Run joins the channel and blocks until ctx is cancelled or the connection
// fails. Each inbound message is handled on its own goroutine; the generation
// call's timeout window therefore never stalls the IRC read loop.
func (b *Bot) Run(ctx context.Context) error {
	b.client.OnConnect(func() {
		b.status.SetConnected(true)
		telemetry.UpdateChatConnected(true)
		slog.Info("bot connected",
			slog.String("channel", b.channel),
			slog.String("bot", b.botUsername),
			slog.String("mention_name", b.handler.BotName))
	})

	b.client.OnPrivateMessage(func(msg twitch.PrivateMessage) {
		// DisplayName keeps the user's casing; Name is the lowercased login.
		author := msg.User.DisplayName
		if author == "" {
			author = msg.User.Name
		}
		m := Message{
			Author: author,
			Text:   msg.Message,
			Echo:   strings.EqualFold(msg.User.Name, b.botUsername),
		}
		hctx := telemetry.WithCorrelation(ctx, uuid.New().String())
		sender := channelSender{client: b.client, channel: b.channel}
		go b.handler.Handle(hctx, m, sender)
	})

	// Handle context cancellation by closing the client
	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		if err := b.client.Disconnect(); err != nil {
			slog.Warn("twitch disconnect", slog.Any("err", err))
		}
		close(done)
	}()

	b.client.Join(b.channel)
	err := b.client.Connect()
	b.status.SetConnected(false)
	telemetry.UpdateChatConnected(false)

	if ctx.Err() != nil {
		<-done
		return nil
	}
	if errors.Is(err, twitch.ErrClientDisconnected) {
		return nil
	}
	return err
}
