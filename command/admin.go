package command

import (
	"context"
	"log/slog"

	"github.com/zephyrtronium/utilbot/message"
	"github.com/zephyrtronium/utilbot/mode"
)

// Clear removes all item entities in loaded chunks.
func Clear(ctx context.Context, robo *Robot, call *Invocation) (mode.State, []message.Sent) {
	r := []message.Sent{
		message.Run("/kill @e[type=item]"),
		message.Format(call.Sender, "Done. Cleared all items in loaded Chunk. ;D"),
	}
	return call.Mode, r
}

// Maintenance toggles or sets maintenance mode.
//   - args: Optional on or off.
func Maintenance(ctx context.Context, robo *Robot, call *Invocation) (mode.State, []message.Sent) {
	v, err := mode.Switch(call.Mode.Maintenance, call.Args)
	if err != nil {
		return call.Mode, usage(call)
	}
	st := call.Mode
	st.Maintenance = v
	robo.Log.InfoContext(ctx, "maintenance", slog.Bool("on", v), slog.String("by", call.Sender))
	if v {
		return st, []message.Sent{
			message.Format(call.Sender, "Maintenance mode enabled"),
			message.Say("Bot is now in maintenance mode"),
		}
	}
	return st, []message.Sent{
		message.Format(call.Sender, "Maintenance mode disabled"),
		message.Say("Bot is now in normal mode"),
	}
}

// Debug toggles or sets debug diagnostics.
//   - args: Optional on or off.
func Debug(ctx context.Context, robo *Robot, call *Invocation) (mode.State, []message.Sent) {
	v, err := mode.Switch(call.Mode.Debug, call.Args)
	if err != nil {
		return call.Mode, usage(call)
	}
	st := call.Mode
	st.Debug = v
	robo.Log.InfoContext(ctx, "debug", slog.Bool("on", v), slog.String("by", call.Sender))
	return st, []message.Sent{message.Format(robo.Admin, "Debug mode %s", enabled(v))}
}

// Verbose toggles or sets verbose diagnostics.
//   - args: Optional on or off.
func Verbose(ctx context.Context, robo *Robot, call *Invocation) (mode.State, []message.Sent) {
	v, err := mode.Switch(call.Mode.Verbose, call.Args)
	if err != nil {
		return call.Mode, usage(call)
	}
	st := call.Mode
	st.Verbose = v
	robo.Log.InfoContext(ctx, "verbose", slog.Bool("on", v), slog.String("by", call.Sender))
	return st, []message.Sent{message.Format(robo.Admin, "Verbose mode %s", enabled(v))}
}

// Say broadcasts a message to every player.
//   - args: The message.
func Say(ctx context.Context, robo *Robot, call *Invocation) (mode.State, []message.Sent) {
	if call.Args == "" {
		return call.Mode, []message.Sent{message.Format(call.Sender, "Usage: %s <message>", call.Trigger)}
	}
	return call.Mode, []message.Sent{message.Say("%s", call.Args)}
}

func usage(call *Invocation) []message.Sent {
	return []message.Sent{message.Format(call.Sender, "Usage: %s [on|off]", call.Trigger)}
}

func enabled(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}
