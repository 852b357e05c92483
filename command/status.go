package command

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/zephyrtronium/utilbot/message"
	"github.com/zephyrtronium/utilbot/mode"
)

// Ping reports the bot's latency to the server, or the highest latency of
// any player if the bot's own is absent.
func Ping(ctx context.Context, robo *Robot, call *Invocation) (mode.State, []message.Sent) {
	l, err := robo.Telemetry.Latencies(ctx)
	if err != nil {
		robo.Log.WarnContext(ctx, "couldn't get latencies", slog.Any("err", err))
	}
	if v, ok := latency(l, robo.Me); ok {
		return call.Mode, []message.Sent{message.Format(call.Sender, "The current server ping is: %d", v)}
	}
	return call.Mode, []message.Sent{message.Format(call.Sender, "The current server ping is: unknown")}
}

// latency selects me's latency if present, else the highest in l.
func latency(l map[string]int, me string) (int, bool) {
	if v, ok := l[me]; ok {
		return v, true
	}
	if len(l) == 0 {
		return 0, false
	}
	m := 0
	for _, v := range l {
		m = max(m, v)
	}
	return m, true
}

// TPS reports the server's ticks per second.
func TPS(ctx context.Context, robo *Robot, call *Invocation) (mode.State, []message.Sent) {
	v, err := robo.Telemetry.TPS(ctx)
	if err != nil {
		robo.Log.WarnContext(ctx, "couldn't get tps", slog.Any("err", err))
		return call.Mode, []message.Sent{message.Format(call.Sender, "The current server TPS is: unknown")}
	}
	return call.Mode, []message.Sent{message.Format(call.Sender, "The current server TPS is: %.1f", v)}
}

// Players lists online players.
func Players(ctx context.Context, robo *Robot, call *Invocation) (mode.State, []message.Sent) {
	p, err := robo.Telemetry.Online(ctx)
	if err != nil {
		robo.Log.WarnContext(ctx, "couldn't get online players", slog.Any("err", err))
		return call.Mode, []message.Sent{message.Format(call.Sender, "Online players: unknown")}
	}
	if len(p) == 0 {
		return call.Mode, []message.Sent{message.Format(call.Sender, "Online players (0)")}
	}
	p = slices.Clone(p)
	slices.Sort(p)
	return call.Mode, []message.Sent{message.Format(call.Sender, "Online players (%d): %s", len(p), strings.Join(p, ", "))}
}

// Uptime reports how long the server has been running, or how long the bot
// has been running if the server doesn't say.
func Uptime(ctx context.Context, robo *Robot, call *Invocation) (mode.State, []message.Sent) {
	d, err := robo.Telemetry.Uptime(ctx)
	if err != nil {
		robo.Log.WarnContext(ctx, "couldn't get uptime", slog.Any("err", err))
		d := call.Time.Sub(robo.Start).Truncate(time.Second)
		return call.Mode, []message.Sent{message.Format(call.Sender, "Bot uptime: %v", d)}
	}
	return call.Mode, []message.Sent{message.Format(call.Sender, "Server uptime: %v", d.Truncate(time.Second))}
}

// Version reports the server's version.
func Version(ctx context.Context, robo *Robot, call *Invocation) (mode.State, []message.Sent) {
	v, err := robo.Telemetry.Version(ctx)
	if err != nil || v == "" {
		robo.Log.WarnContext(ctx, "couldn't get version", slog.Any("err", err))
		v = "unknown"
	}
	return call.Mode, []message.Sent{message.Format(call.Sender, "Server version: %s", v)}
}
