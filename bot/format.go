package bot

// MaxReplyLength is the character budget for the reply body (after the
// "@username " prefix), fitting comfortably in a single Twitch message.
const MaxReplyLength = 500

const (
	// FallbackNoResult is sent when the endpoint answered but produced no
	// usable text.
	FallbackNoResult = "Sorry, I couldn't generate a response!"
	// FallbackError is sent when the call failed at the transport level or
	// handling hit an unexpected error.
	FallbackError = "Oops, something went wrong!"
)

// TruncateReply bounds text to MaxReplyLength characters, replacing the tail
// with a three-character ellipsis when it overflows. Counts runes, not bytes.
func TruncateReply(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxReplyLength {
		return text
	}
	return string(runes[:MaxReplyLength-3]) + "..."
}

// FormatReply prefixes the (truncated) text with the triggering user's name.
func FormatReply(username, text string) string {
	return "@" + username + " " + TruncateReply(text)
}
