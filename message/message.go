package message

import (
	"fmt"
	"strings"
	"time"
)

// Received is a chat message received from the server.
type Received struct {
	// ID is a unique ID for the message. Minecraft chat has no message IDs,
	// so this is assigned on receipt and is only meaningful for tracing.
	ID string
	// Sender is the username of the player who sent the message.
	Sender string
	// Text is the text of the message with formatting codes removed.
	Text string
	// Timestamp is the time at which the message was received as
	// milliseconds since the Unix epoch.
	Timestamp int64
	// Private indicates whether the message was whispered directly to the
	// bot rather than sent to public chat.
	Private bool
}

func (m *Received) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}

// Kind is the kind of an outbound message.
type Kind int

const (
	// Notice is a private message to a single player.
	Notice Kind = iota
	// Broadcast is a message to every player on the server.
	Broadcast
	// Privileged is a raw instruction to the server, e.g. a slash command.
	Privileged
)

func (k Kind) String() string {
	switch k {
	case Notice:
		return "notice"
	case Broadcast:
		return "broadcast"
	case Privileged:
		return "privileged"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Sent is a message to be sent to the server.
type Sent struct {
	// Kind is the kind of message.
	Kind Kind
	// To is the player who receives a notice. Empty for other kinds.
	To string
	// Text is the message text or the instruction to run.
	Text string
}

// formatString is a type to prevent misuse of format strings passed to
// [Format], [Say], and [Run].
type formatString string

// Format constructs a notice to a player from a format string literal and
// formatting arguments.
func Format(to string, f formatString, args ...any) Sent {
	return Sent{
		Kind: Notice,
		To:   to,
		Text: strings.TrimSpace(fmt.Sprintf(string(f), args...)),
	}
}

// Say constructs a broadcast from a format string literal and formatting
// arguments.
func Say(f formatString, args ...any) Sent {
	return Sent{
		Kind: Broadcast,
		Text: strings.TrimSpace(fmt.Sprintf(string(f), args...)),
	}
}

// Run constructs a privileged instruction from a format string literal and
// formatting arguments.
func Run(f formatString, args ...any) Sent {
	return Sent{
		Kind: Privileged,
		Text: strings.TrimSpace(fmt.Sprintf(string(f), args...)),
	}
}
