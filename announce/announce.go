// Package announce periodically broadcasts messages to the server.
package announce

import (
	"context"
	"log/slog"
	"time"

	"gitlab.com/zephyrtronium/pick"

	"github.com/zephyrtronium/utilbot/dispatch"
	"github.com/zephyrtronium/utilbot/message"
	"github.com/zephyrtronium/utilbot/metrics"
	"github.com/zephyrtronium/utilbot/mode"
)

// Announcer chooses weighted announcements.
type Announcer struct {
	dist  *pick.Dist[string]
	src   func() uint32
	count metrics.Observer
}

// New creates an announcer from messages and their weights.
// src supplies random values for choosing, e.g. [math/rand/v2.Uint32].
// The result is nil if there are no messages with positive weight.
func New(messages map[string]int, src func() uint32, count metrics.Observer) *Announcer {
	m := make(map[string]int, len(messages))
	for k, w := range messages {
		if w > 0 {
			m[k] = w
		}
	}
	if len(m) == 0 {
		return nil
	}
	return &Announcer{
		dist:  pick.New(pick.FromMap(m)),
		src:   src,
		count: count,
	}
}

// Job is a dispatcher job which broadcasts one announcement.
// Announcements are skipped during maintenance.
func (a *Announcer) Job(ctx context.Context, st mode.State) (mode.State, []message.Sent) {
	if st.Maintenance {
		slog.DebugContext(ctx, "skip announcement during maintenance")
		return st, nil
	}
	s := a.dist.Pick(a.src())
	slog.InfoContext(ctx, "announce", slog.String("text", s))
	a.count.Observe(1)
	return st, []message.Sent{message.Say("%s", s)}
}

// Runner runs jobs serialized with message handling.
type Runner interface {
	Job(ctx context.Context, job dispatch.Job)
}

// Run broadcasts an announcement through r at each interval until ctx is
// done.
func (a *Announcer) Run(ctx context.Context, r Runner, every time.Duration) error {
	tick := time.NewTicker(every)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			r.Job(ctx, a.Job)
		}
	}
}
