// Package bot contains the Twitch chat client and the mention-triggered
// response pipeline.
//
// It provides two layers:
//   - Bot: connects to Twitch IRC for the configured channel, converts each
//     private message into a Message, and dispatches it to the Handler on its
//     own goroutine so a slow generation call never blocks the IRC read loop.
//   - Handler: the per-message state machine. It drops echoes and
//     non-mentions, records suppressed mention attempts from ignored users,
//     and for real mentions performs exactly one generation call, sends at
//     most one reply, and writes at most one interaction record.
//
// Credentials: the IRC client requires a bot username and an OAuth token with
// chat:read/chat:edit scopes.
package bot
