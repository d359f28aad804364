package bot

// Message is the chat event the handler operates on: author, text, and
// whether the message originated from the bot itself. The handler is
// deliberately decoupled from the IRC library's message type.
type Message struct {
	Author string
	Text   string
	Echo   bool
}

// Sender is the channel-send capability a message arrives with. The handler
// is polymorphic only over this; the concrete implementation wraps the IRC
// client.
type Sender interface {
	Say(text string) error
}
