// Package console implements connections to a Minecraft server console.
package console

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-json-experiment/json"
)

// Conn is a connection to a server console which exchanges chat lines.
type Conn interface {
	// Recv gets the next line of chat.
	Recv(ctx context.Context) (string, error)
	// Send sends a line of chat or a slash command.
	Send(ctx context.Context, text string) error
	// Close closes the connection.
	Close() error
}

// frame is a JSON message exchanged with a console relay.
type frame struct {
	// Type is the kind of frame: "chat" or "status" from the relay, or
	// "send" to it.
	Type string `json:"type"`
	// Text is the chat line for chat and send frames.
	Text string `json:"text,omitzero"`
	// Status is the server status for status frames.
	Status *Status `json:"status,omitzero"`
}

// Session is a WebSocket connection to a console relay.
type Session struct {
	// conn is the actual connection.
	conn *websocket.Conn
	// tele holds the latest status reported by the relay.
	tele *Telemetry
}

var _ Conn = (*Session)(nil)

// Dial connects to a console relay.
// If the HTTP client is nil, [http.DefaultClient] is used instead.
// Status reports from the relay update tele, which may be nil to ignore them.
func Dial(ctx context.Context, client *http.Client, url string, tele *Telemetry) (*Session, error) {
	var opts *websocket.DialOptions
	if client != nil {
		opts = &websocket.DialOptions{
			HTTPClient: client,
		}
	}
	slog.DebugContext(ctx, "dial console", slog.String("url", url))
	conn, resp, err := websocket.Dial(ctx, url, opts)
	if err != nil {
		if resp != nil && resp.Body != nil {
			b := make([]byte, 1024)
			n, _ := resp.Body.Read(b)
			b = b[:n]
			return nil, fmt.Errorf("couldn't connect to console: %w (%s)", err, b)
		}
		return nil, fmt.Errorf("couldn't connect to console: %w", err)
	}
	if tele == nil {
		tele = new(Telemetry)
	}
	return &Session{conn: conn, tele: tele}, nil
}

// Recv gets the next chat line.
// Status frames are handled transparently.
//
// Note that the context becoming done during a call to Recv will cause the
// WebSocket connection to close as well.
func (s *Session) Recv(ctx context.Context) (string, error) {
	for {
		_, m, err := s.conn.Read(ctx)
		if err != nil {
			return "", err
		}
		var f frame
		if err := json.Unmarshal(m, &f); err != nil {
			return "", fmt.Errorf("couldn't decode frame %q: %w", m, err)
		}
		switch f.Type {
		case "chat":
			return f.Text, nil
		case "status":
			if f.Status != nil {
				s.tele.Update(f.Status)
			}
			slog.DebugContext(ctx, "console status")
		default:
			slog.WarnContext(ctx, "unknown console frame", slog.String("type", f.Type))
		}
	}
}

// Send sends a line of chat or a slash command to the console.
func (s *Session) Send(ctx context.Context, text string) error {
	b, err := json.Marshal(frame{Type: "send", Text: text})
	if err != nil {
		return fmt.Errorf("couldn't encode frame: %w", err)
	}
	if err := s.conn.Write(ctx, websocket.MessageText, b); err != nil {
		return fmt.Errorf("couldn't send to console: %w", err)
	}
	return nil
}

// Close ends the WebSocket session.
func (s *Session) Close() error {
	return s.conn.CloseNow()
}
