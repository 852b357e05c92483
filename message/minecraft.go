package message

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// whisperVanilla matches the vanilla whisper notation.
	whisperVanilla = regexp.MustCompile(`^([A-Za-z0-9_]{1,16}) whispers to you: (.*)$`)
	// whisperArrow matches the notation used by Essentials and similar
	// plugins, e.g. "[Bocchi -> me] hi".
	whisperArrow = regexp.MustCompile(`^\[(?:[^\]\s]+ )?([A-Za-z0-9_]{1,16}) -> (?:me|[A-Za-z0-9_]{1,16})\] (.*)$`)
	// public matches public chat with optional leading bracketed tags,
	// e.g. "[Member] <Bocchi> hi".
	public = regexp.MustCompile(`^(?:\[[^\]]*\]\s*)*<([A-Za-z0-9_]{1,16})> (.*)$`)
)

// FromChat extracts a player message from a line of server chat.
// The second result is false when the line is not a player message,
// e.g. a join notice or server output.
func FromChat(line string, now time.Time) (*Received, bool) {
	line = Verbatim(line)
	r := Received{
		ID:        uuid.NewString(),
		Timestamp: now.UnixMilli(),
	}
	if m := whisperVanilla.FindStringSubmatch(line); m != nil {
		r.Sender, r.Text, r.Private = m[1], m[2], true
		return &r, true
	}
	if m := whisperArrow.FindStringSubmatch(line); m != nil {
		r.Sender, r.Text, r.Private = m[1], m[2], true
		return &r, true
	}
	if m := public.FindStringSubmatch(line); m != nil {
		r.Sender, r.Text = m[1], m[2]
		return &r, true
	}
	return nil, false
}

// Verbatim removes Minecraft formatting codes, i.e. the section sign and the
// code character following it, from a line.
func Verbatim(line string) string {
	if !strings.ContainsRune(line, '§') {
		return line
	}
	var b strings.Builder
	b.Grow(len(line))
	skip := false
	for _, r := range line {
		switch {
		case skip:
			skip = false
		case r == '§':
			skip = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ToChat renders a message as the line to submit to the server.
func ToChat(msg Sent) string {
	switch msg.Kind {
	case Notice:
		return "/msg " + msg.To + " " + msg.Text
	case Broadcast:
		return "/say " + msg.Text
	default:
		return msg.Text
	}
}
