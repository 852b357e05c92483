package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/zephyrtronium/utilbot/message"
	"github.com/zephyrtronium/utilbot/mode"
)

const (
	defaultSides = 6
	minSides     = 2
	maxSides     = 1000
)

// Roll rolls a die.
//   - args: Optional number of sides, 6 by default.
func Roll(ctx context.Context, robo *Robot, call *Invocation) (mode.State, []message.Sent) {
	n, err := sides(call.Args)
	if err != nil {
		return call.Mode, []message.Sent{message.Format(call.Sender, "Usage: %s [sides], with %d to %d sides", call.Trigger, minSides, maxSides)}
	}
	v := robo.Rand.IntN(n) + 1
	return call.Mode, []message.Sent{message.Format(call.Sender, "You rolled %d (1-%d).", v, n)}
}

func sides(arg string) (int, error) {
	if arg == "" {
		return defaultSides, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrUsage, arg)
	}
	if n < minSides || n > maxSides {
		return 0, fmt.Errorf("%w: %d sides out of range", ErrUsage, n)
	}
	return n, nil
}

// Coinflip flips a coin.
func Coinflip(ctx context.Context, robo *Robot, call *Invocation) (mode.State, []message.Sent) {
	if robo.Rand.Float64() < 0.5 {
		return call.Mode, []message.Sent{message.Format(call.Sender, "Heads!")}
	}
	return call.Mode, []message.Sent{message.Format(call.Sender, "Tails!")}
}
