package console

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/zephyrtronium/utilbot/message"
)

// Outbox queues outbound messages for a writer goroutine.
// Messages sent while the queue is full are dropped.
type Outbox struct {
	q chan message.Sent
}

// NewOutbox creates an outbox holding up to n pending messages.
func NewOutbox(n int) *Outbox {
	return &Outbox{q: make(chan message.Sent, n)}
}

// Send queues a message without blocking.
func (o *Outbox) Send(ctx context.Context, m message.Sent) {
	select {
	case o.q <- m:
	default:
		slog.WarnContext(ctx, "outbox full, dropping message",
			slog.String("kind", m.Kind.String()),
			slog.String("to", m.To),
			slog.String("text", m.Text),
		)
	}
}

// Run writes queued messages to conn, waiting on lim before each, until ctx
// is done or a write fails.
func (o *Outbox) Run(ctx context.Context, conn Conn, lim *rate.Limiter) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m := <-o.q:
			if err := lim.Wait(ctx); err != nil {
				return err
			}
			line := message.ToChat(m)
			slog.DebugContext(ctx, "send", slog.String("kind", m.Kind.String()), slog.String("line", line))
			if err := conn.Send(ctx, line); err != nil {
				return fmt.Errorf("couldn't send %s: %w", m.Kind, err)
			}
		}
	}
}
