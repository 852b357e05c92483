// Package dispatch recognizes commands in chat messages, applies access
// policy and cooldowns, and runs them.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/zephyrtronium/utilbot/command"
	"github.com/zephyrtronium/utilbot/cooldown"
	"github.com/zephyrtronium/utilbot/message"
	"github.com/zephyrtronium/utilbot/metrics"
	"github.com/zephyrtronium/utilbot/mode"
)

// Sink delivers outbound messages. Send must not block for long, since it is
// called with the dispatcher's lock held.
type Sink interface {
	Send(ctx context.Context, msg message.Sent)
}

// Auditor records executions of admin-only commands.
// Record is called without the dispatcher's lock held, so it may block.
type Auditor interface {
	Record(ctx context.Context, at time.Time, sender, trigger, args string) error
}

// Config is the fixed configuration of a dispatcher.
type Config struct {
	// Prefix is the command prefix.
	Prefix string
	// Admin is the administrator's player name.
	Admin string
	// Cooldown is the per-sender cooldown window in seconds.
	Cooldown int
	// FakeNormal treats the administrator as a normal player.
	FakeNormal bool
}

// Outcome is the result of handling a message.
type Outcome int

const (
	// Ignored means the message was not a command.
	Ignored Outcome = iota
	// Throttled means the sender was within their cooldown window.
	Throttled
	// DeniedAdmin means the command is admin-only.
	DeniedAdmin
	// DeniedMaintenance means the command is unavailable during maintenance.
	DeniedMaintenance
	// Executed means a registered command ran.
	Executed
	// Fallback means the message matched the fallback table.
	Fallback
	// Unknown means the message had the prefix but matched nothing.
	Unknown
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Throttled:
		return "throttled"
	case DeniedAdmin:
		return "denied-admin"
	case DeniedMaintenance:
		return "denied-maintenance"
	case Executed:
		return "executed"
	case Fallback:
		return "fallback"
	case Unknown:
		return "unknown"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Job is a timer-driven task run under the dispatcher's lock.
// It receives the current mode and returns the successor mode and the
// messages to send.
type Job func(ctx context.Context, st mode.State) (mode.State, []message.Sent)

// Dispatcher handles chat messages one at a time.
type Dispatcher struct {
	// mu serializes all access to mode, cooldowns, the registry, and the sink.
	mu       sync.Mutex
	cfg      Config
	robo     *command.Robot
	mode     mode.State
	cooldown *cooldown.Tracker
	sink     Sink
	audit    Auditor
	metrics  metrics.Metrics
}

// New creates a dispatcher. robo.Commands and robo.Radio must be fully
// populated, and robo must not be modified afterward. audit may be nil.
func New(cfg Config, robo *command.Robot, sink Sink, audit Auditor, m metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		cfg:      cfg,
		robo:     robo,
		cooldown: cooldown.New(cfg.Cooldown),
		sink:     sink,
		audit:    audit,
		metrics:  m,
	}
}

// entry is an executed admin-only command awaiting its audit record.
type entry struct {
	at      time.Time
	sender  string
	trigger string
	args    string
}

// Handle processes a single chat message to completion.
// Audit records are written after the lock is released.
func (d *Dispatcher) Handle(ctx context.Context, msg *message.Received) Outcome {
	start := time.Now()
	d.mu.Lock()
	d.metrics.MessagesCount.Observe(1)
	o, rec := d.handle(ctx, msg)
	d.mu.Unlock()
	d.metrics.DispatchLatency.Observe(time.Since(start).Seconds())
	if rec != nil {
		if err := d.audit.Record(ctx, rec.at, rec.sender, rec.trigger, rec.args); err != nil {
			d.robo.Log.ErrorContext(ctx, "couldn't record audit",
				slog.Any("err", err),
				slog.String("trace", msg.ID),
				slog.String("trigger", rec.trigger),
			)
		}
	}
	return o
}

func (d *Dispatcher) handle(ctx context.Context, msg *message.Received) (Outcome, *entry) {
	text := strings.TrimSpace(msg.Text)
	if d.cfg.Prefix == "" || !strings.HasPrefix(text, d.cfg.Prefix) {
		return Ignored, nil
	}
	log := d.robo.Log.With(slog.String("trace", msg.ID), slog.String("sender", msg.Sender))
	sender := msg.Sender
	admin := d.isAdmin(sender)
	now := msg.Time()
	if wait, ok := d.cooldown.Check(sender, now, admin); !ok {
		d.metrics.ThrottledCount.Observe(1)
		d.send(ctx, message.Format(sender, "Please wait %d seconds before using another command.", wait))
		return Throttled, nil
	}
	d.diag(ctx, fmt.Sprintf("Received message: %s from %s", text, sender))
	if d.mode.Verbose && admin {
		d.status(ctx, text, sender, now, admin)
	}
	fields := strings.Fields(text)
	trigger := command.Fold(fields[0])
	args := strings.Join(fields[1:], " ")
	d.diag(ctx, fmt.Sprintf("Parsed command: %s, args: %s", trigger, args))

	cmd, ok := d.robo.Commands.Lookup(trigger)
	if !ok {
		return d.fallback(ctx, log, text, sender), nil
	}
	d.diag(ctx, fmt.Sprintf("Found command: %s", cmd.Trigger))
	switch dec := command.Gate(cmd, d.mode.Maintenance, admin); dec {
	case command.DeniedAdmin:
		log.InfoContext(ctx, "denied", slog.String("trigger", trigger), slog.String("reason", dec.String()))
		d.metrics.DeniedCount.Observe(1, dec.String())
		d.send(ctx, message.Format(sender, "This command is admin-only."))
		return DeniedAdmin, nil
	case command.DeniedMaintenance:
		log.InfoContext(ctx, "denied", slog.String("trigger", trigger), slog.String("reason", dec.String()))
		d.metrics.DeniedCount.Observe(1, dec.String())
		d.send(ctx, message.Format(sender, "Bot is currently in maintenance mode."))
		return DeniedMaintenance, nil
	}

	call := command.Invocation{
		Trigger: trigger,
		Sender:  sender,
		Args:    args,
		Mode:    d.mode,
		Admin:   admin,
		Time:    now,
	}
	st, effects := cmd.Fn(ctx, d.robo, &call)
	d.commit(ctx, st)
	for _, m := range effects {
		d.send(ctx, m)
	}
	log.InfoContext(ctx, "command",
		slog.String("trigger", trigger),
		slog.String("args", args),
		slog.Bool("admin", admin),
		slog.Int("effects", len(effects)),
	)
	d.metrics.CommandCount.Observe(1, trigger)
	d.diag(ctx, fmt.Sprintf("Executed command %s for %s", trigger, sender))
	if cmd.AdminOnly && d.audit != nil {
		return Executed, &entry{at: now, sender: sender, trigger: trigger, args: args}
	}
	return Executed, nil
}

func (d *Dispatcher) fallback(ctx context.Context, log *slog.Logger, text, sender string) Outcome {
	e, ok := d.robo.Radio.Lookup(text)
	if !ok {
		log.DebugContext(ctx, "unknown command", slog.String("text", text))
		d.metrics.UnknownCount.Observe(1)
		return Unknown
	}
	effects := command.Play(sender, e.Payload, d.robo.Radio.Label(text))
	if effects == nil {
		log.WarnContext(ctx, "couldn't build play instructions", slog.String("song", e.Name))
	}
	for _, m := range effects {
		d.send(ctx, m)
	}
	log.InfoContext(ctx, "play", slog.String("song", e.Name), slog.String("sound", e.Payload))
	d.metrics.FallbackCount.Observe(1)
	return Fallback
}

// status sends the verbose status block to the administrator.
func (d *Dispatcher) status(ctx context.Context, text, sender string, now time.Time, admin bool) {
	to := d.cfg.Admin
	d.send(ctx, message.Format(to, "Command received: %s", text))
	d.send(ctx, message.Format(to, "From user: %s", sender))
	d.send(ctx, message.Format(to, "Cooldown status: %s", choose(d.cooldown.Active(sender, now), "Active", "None")))
	d.send(ctx, message.Format(to, "Admin status: %s", choose(admin, "Yes", "No")))
	d.send(ctx, message.Format(to, "Maintenance mode: %s", choose(d.mode.Maintenance, "Yes", "No")))
}

// diag sends a diagnostic notice to the administrator if debug or verbose
// mode is on.
func (d *Dispatcher) diag(ctx context.Context, text string) {
	label := d.mode.Diagnostic()
	if label == "" {
		return
	}
	d.send(ctx, message.Format(d.cfg.Admin, "%s: %s", label, text))
}

func (d *Dispatcher) send(ctx context.Context, m message.Sent) {
	d.metrics.SentCount.Observe(1, m.Kind.String())
	d.sink.Send(ctx, m)
}

func (d *Dispatcher) commit(ctx context.Context, st mode.State) {
	if st == d.mode {
		return
	}
	d.robo.Log.InfoContext(ctx, "mode changed",
		slog.Bool("maintenance", st.Maintenance),
		slog.Bool("debug", st.Debug),
		slog.Bool("verbose", st.Verbose),
	)
	d.mode = st
	d.metrics.Maintenance.Observe(choose(st.Maintenance, 1.0, 0.0))
}

func (d *Dispatcher) isAdmin(sender string) bool {
	return !d.cfg.FakeNormal && sender == d.cfg.Admin
}

// Job runs a timer-driven task under the dispatcher's lock, committing its
// mode and sending its messages.
func (d *Dispatcher) Job(ctx context.Context, job Job) {
	d.mu.Lock()
	defer d.mu.Unlock()
	st, effects := job(ctx, d.mode)
	d.commit(ctx, st)
	for _, m := range effects {
		d.send(ctx, m)
	}
}

// Sweep forgets senders whose cooldown windows have elapsed as of now.
// It returns the number of senders forgotten.
func (d *Dispatcher) Sweep(now time.Time) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cooldown.Sweep(now)
}

// Mode returns a snapshot of the current mode state.
func (d *Dispatcher) Mode() mode.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// Commands returns a snapshot of the registered commands, sorted by trigger.
func (d *Dispatcher) Commands() []command.Command {
	d.mu.Lock()
	defer d.mu.Unlock()
	l := d.robo.Commands.List(nil)
	r := make([]command.Command, len(l))
	for i, c := range l {
		r[i] = *c
	}
	return r
}

func choose[T any](b bool, t, f T) T {
	if b {
		return t
	}
	return f
}
