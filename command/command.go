package command

import (
	"context"
	"errors"
	"time"

	"github.com/zephyrtronium/utilbot/message"
	"github.com/zephyrtronium/utilbot/mode"
)

// Invocation is a command invocation. An Invocation and its fields must not
// be modified or retained by any command.
type Invocation struct {
	// Trigger is the trigger that selected the command, folded to lower case.
	Trigger string
	// Sender is the player who invoked the command.
	Sender string
	// Args is the remainder of the message after the trigger, with runs of
	// whitespace collapsed to single spaces. It is empty if there were no
	// arguments.
	Args string
	// Mode is the mode state at the time of the invocation.
	Mode mode.State
	// Admin indicates whether the sender is the administrator.
	Admin bool
	// Time is the time the message was received.
	Time time.Time
}

// Func executes a command. It returns the successor mode state and the
// messages to send, in order. Commands that don't change modes return
// call.Mode unchanged.
type Func func(ctx context.Context, robo *Robot, call *Invocation) (mode.State, []message.Sent)

// Command is a command descriptor.
type Command struct {
	// Trigger is the token which selects the command, including its prefix.
	Trigger string
	// Description is a short description shown in help.
	Description string
	// AdminOnly restricts the command to the administrator.
	AdminOnly bool
	// AvailableInMaintenance allows non-administrators to use the command
	// while maintenance mode is on.
	AvailableInMaintenance bool
	// Fn is the function to execute.
	Fn Func
}

// ErrUnavailable is returned by a [Telemetry] when the requested data is
// momentarily absent.
var ErrUnavailable = errors.New("telemetry unavailable")

// ErrUsage indicates malformed command arguments.
var ErrUsage = errors.New("bad usage")

// Telemetry provides read-only server statistics.
type Telemetry interface {
	// Latencies returns each online player's latency in milliseconds.
	Latencies(ctx context.Context) (map[string]int, error)
	// TPS returns the server's recent ticks per second.
	TPS(ctx context.Context) (float64, error)
	// Online returns the names of online players.
	Online(ctx context.Context) ([]string, error)
	// Uptime returns how long the server has been running.
	Uptime(ctx context.Context) (time.Duration, error)
	// Version returns the server's version string.
	Version(ctx context.Context) (string, error)
}

// Rand is a source of random values for entertainment commands.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
	// Float64 returns a value in [0, 1).
	Float64() float64
}
