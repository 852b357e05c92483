package command_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/zephyrtronium/utilbot/command"
	"github.com/zephyrtronium/utilbot/fallback"
	"github.com/zephyrtronium/utilbot/message"
	"github.com/zephyrtronium/utilbot/mode"
)

type telemetry struct {
	latencies map[string]int
	tps       float64
	online    []string
	uptime    time.Duration
	version   string
	err       error
}

func (t *telemetry) Latencies(ctx context.Context) (map[string]int, error) {
	return t.latencies, t.err
}

func (t *telemetry) TPS(ctx context.Context) (float64, error) {
	return t.tps, t.err
}

func (t *telemetry) Online(ctx context.Context) ([]string, error) {
	return t.online, t.err
}

func (t *telemetry) Uptime(ctx context.Context) (time.Duration, error) {
	return t.uptime, t.err
}

func (t *telemetry) Version(ctx context.Context) (string, error) {
	return t.version, t.err
}

// fixed is a command.Rand that always produces the same values.
type fixed struct {
	n   int
	f   float64
	got int
}

func (r *fixed) IntN(n int) int {
	r.got = n
	return min(r.n, n-1)
}

func (r *fixed) Float64() float64 {
	return r.f
}

var start = time.Unix(1700000000, 0)

func robot(tm *telemetry, rng command.Rand) *command.Robot {
	reg := command.NewRegistry()
	reg.Register(command.Command{Trigger: "!ping", Description: "Check server latency", Fn: command.Ping})
	reg.Register(command.Command{Trigger: "!help", Description: "Shows available commands", Fn: command.Help})
	reg.Register(command.Command{Trigger: "!cl", Description: "Clear items in loaded chunks", AdminOnly: true, AvailableInMaintenance: true, Fn: command.Clear})
	reg.Register(command.Command{Trigger: "!coinflip", Description: "Flip a coin", AvailableInMaintenance: true, Fn: command.Coinflip})
	return &command.Robot{
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Prefix:   "!",
		Admin:    "Root",
		Me:       "utilbot",
		Commands: reg,
		Radio: fallback.New("!play",
			[]string{"night-dancer", "slay!"},
			[]string{"minecraft:ki10_night_dancer", "minecraft:ki10_eternxlkz_slay"},
		),
		Telemetry: tm,
		Rand:      rng,
		Start:     start,
	}
}

func invoke(fn command.Func, robo *command.Robot, call *command.Invocation) (mode.State, []message.Sent) {
	if call.Time.IsZero() {
		call.Time = start.Add(time.Minute)
	}
	return fn(context.Background(), robo, call)
}

func notices(to string, texts ...string) []message.Sent {
	r := make([]message.Sent, len(texts))
	for i, s := range texts {
		r[i] = message.Sent{Kind: message.Notice, To: to, Text: s}
	}
	return r
}

var errGone = errors.Join(command.ErrUnavailable, errors.New("no status yet"))

func TestStatus(t *testing.T) {
	cases := []struct {
		name string
		fn   command.Func
		tm   telemetry
		want string
	}{
		{"ping-own", command.Ping, telemetry{latencies: map[string]int{"utilbot": 12, "bocchi": 200}}, "The current server ping is: 12"},
		{"ping-max", command.Ping, telemetry{latencies: map[string]int{"ryou": 40, "bocchi": 200}}, "The current server ping is: 200"},
		{"ping-empty", command.Ping, telemetry{latencies: map[string]int{}}, "The current server ping is: unknown"},
		{"ping-err", command.Ping, telemetry{err: errGone}, "The current server ping is: unknown"},
		{"tps", command.TPS, telemetry{tps: 19.96}, "The current server TPS is: 20.0"},
		{"tps-err", command.TPS, telemetry{err: errGone}, "The current server TPS is: unknown"},
		{"players", command.Players, telemetry{online: []string{"ryou", "bocchi", "nijika"}}, "Online players (3): bocchi, nijika, ryou"},
		{"players-none", command.Players, telemetry{online: nil}, "Online players (0)"},
		{"players-err", command.Players, telemetry{err: errGone}, "Online players: unknown"},
		{"uptime", command.Uptime, telemetry{uptime: time.Hour + 2*time.Minute + 3500*time.Millisecond}, "Server uptime: 1h2m3s"},
		{"uptime-err", command.Uptime, telemetry{err: errGone}, "Bot uptime: 1m30s"},
		{"version", command.Version, telemetry{version: "1.21.1"}, "Server version: 1.21.1"},
		{"version-empty", command.Version, telemetry{}, "Server version: unknown"},
		{"version-err", command.Version, telemetry{version: "1.21.1", err: errGone}, "Server version: unknown"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			robo := robot(&c.tm, &fixed{})
			call := command.Invocation{Sender: "bocchi", Time: start.Add(90*time.Second + 400*time.Millisecond)}
			st, got := invoke(c.fn, robo, &call)
			if st != (mode.State{}) {
				t.Errorf("mode changed: %+v", st)
			}
			if diff := cmp.Diff(notices("bocchi", c.want), got); diff != "" {
				t.Errorf("wrong messages (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToggles(t *testing.T) {
	cases := []struct {
		name string
		fn   command.Func
		in   mode.State
		args string
		out  mode.State
		want []message.Sent
	}{
		{
			name: "mt-on",
			fn:   command.Maintenance,
			in:   mode.State{},
			out:  mode.State{Maintenance: true},
			want: []message.Sent{
				message.Format("Root", "Maintenance mode enabled"),
				message.Say("Bot is now in maintenance mode"),
			},
		},
		{
			name: "mt-off",
			fn:   command.Maintenance,
			in:   mode.State{Maintenance: true, Debug: true},
			out:  mode.State{Debug: true},
			want: []message.Sent{
				message.Format("Root", "Maintenance mode disabled"),
				message.Say("Bot is now in normal mode"),
			},
		},
		{
			name: "mt-explicit",
			fn:   command.Maintenance,
			in:   mode.State{Maintenance: true},
			args: "on",
			out:  mode.State{Maintenance: true},
			want: []message.Sent{
				message.Format("Root", "Maintenance mode enabled"),
				message.Say("Bot is now in maintenance mode"),
			},
		},
		{
			name: "mt-bad",
			fn:   command.Maintenance,
			in:   mode.State{Verbose: true},
			args: "sideways",
			out:  mode.State{Verbose: true},
			want: notices("Root", "Usage: !trigger [on|off]"),
		},
		{
			name: "debug",
			fn:   command.Debug,
			in:   mode.State{Maintenance: true},
			out:  mode.State{Maintenance: true, Debug: true},
			want: notices("Root", "Debug mode enabled"),
		},
		{
			name: "debug-off",
			fn:   command.Debug,
			in:   mode.State{Debug: true},
			args: "OFF",
			out:  mode.State{},
			want: notices("Root", "Debug mode disabled"),
		},
		{
			name: "debug-bad",
			fn:   command.Debug,
			args: "on off",
			want: notices("Root", "Usage: !trigger [on|off]"),
		},
		{
			name: "verbose",
			fn:   command.Verbose,
			out:  mode.State{Verbose: true},
			want: notices("Root", "Verbose mode enabled"),
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			robo := robot(&telemetry{}, &fixed{})
			call := command.Invocation{Trigger: "!trigger", Sender: "Root", Args: c.args, Mode: c.in, Admin: true}
			st, got := invoke(c.fn, robo, &call)
			if st != c.out {
				t.Errorf("wrong mode: want %+v, got %+v", c.out, st)
			}
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("wrong messages (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClear(t *testing.T) {
	robo := robot(&telemetry{}, &fixed{})
	call := command.Invocation{Trigger: "!cl", Sender: "Root", Admin: true}
	_, got := invoke(command.Clear, robo, &call)
	want := []message.Sent{
		{Kind: message.Privileged, Text: "/kill @e[type=item]"},
		{Kind: message.Notice, To: "Root", Text: "Done. Cleared all items in loaded Chunk. ;D"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wrong messages (-want +got):\n%s", diff)
	}
}

func TestSay(t *testing.T) {
	robo := robot(&telemetry{}, &fixed{})
	call := command.Invocation{Trigger: "!say", Sender: "Root", Args: "restart in 5 minutes, 100% sure", Admin: true}
	_, got := invoke(command.Say, robo, &call)
	want := []message.Sent{{Kind: message.Broadcast, Text: "restart in 5 minutes, 100% sure"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wrong messages (-want +got):\n%s", diff)
	}
	call.Args = ""
	_, got = invoke(command.Say, robo, &call)
	if diff := cmp.Diff(notices("Root", "Usage: !say <message>"), got); diff != "" {
		t.Errorf("wrong usage (-want +got):\n%s", diff)
	}
}

func TestHelp(t *testing.T) {
	cases := []struct {
		name  string
		who   string
		admin bool
		mode  mode.State
		want  []string
	}{
		{
			name: "regular",
			who:  "bocchi",
			want: []string{
				"Available commands:",
				"!coinflip: Flip a coin",
				"!help: Shows available commands",
				"!ping: Check server latency",
				"!play <song>: Play a song from the available list",
				"Use !songs to see available songs",
			},
		},
		{
			name:  "admin",
			who:   "Root",
			admin: true,
			want: []string{
				"Available commands:",
				"!cl: Clear items in loaded chunks",
				"!coinflip: Flip a coin",
				"!help: Shows available commands",
				"!ping: Check server latency",
				"!play <song>: Play a song from the available list",
				"Use !songs to see available songs",
			},
		},
		{
			name: "maintenance",
			who:  "bocchi",
			mode: mode.State{Maintenance: true},
			want: []string{
				"Available commands:",
				"!coinflip: Flip a coin",
			},
		},
		{
			name:  "admin-maintenance",
			who:   "Root",
			admin: true,
			mode:  mode.State{Maintenance: true},
			want: []string{
				"Available commands:",
				"!cl: Clear items in loaded chunks",
				"!coinflip: Flip a coin",
				"!help: Shows available commands",
				"!ping: Check server latency",
				"!play <song>: Play a song from the available list",
				"Use !songs to see available songs",
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			robo := robot(&telemetry{}, &fixed{})
			call := command.Invocation{Trigger: "!help", Sender: c.who, Admin: c.admin, Mode: c.mode}
			_, got := invoke(command.Help, robo, &call)
			if diff := cmp.Diff(notices(c.who, c.want...), got); diff != "" {
				t.Errorf("wrong messages (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHelpNoRadio(t *testing.T) {
	robo := robot(&telemetry{}, &fixed{})
	robo.Radio = nil
	call := command.Invocation{Trigger: "!help", Sender: "bocchi"}
	_, got := invoke(command.Help, robo, &call)
	want := notices("bocchi",
		"Available commands:",
		"!coinflip: Flip a coin",
		"!help: Shows available commands",
		"!ping: Check server latency",
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wrong messages (-want +got):\n%s", diff)
	}
}

func TestSongs(t *testing.T) {
	cases := []struct {
		name  string
		who   string
		admin bool
		mode  mode.State
		want  []string
	}{
		{"regular", "bocchi", false, mode.State{}, []string{"Available songs:", "- night-dancer", "- slay!"}},
		{"maintenance", "bocchi", false, mode.State{Maintenance: true}, []string{"Bot is currently in maintenance mode."}},
		{"admin-maintenance", "Root", true, mode.State{Maintenance: true}, []string{"Available songs:", "- night-dancer", "- slay!"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			robo := robot(&telemetry{}, &fixed{})
			call := command.Invocation{Trigger: "!songs", Sender: c.who, Admin: c.admin, Mode: c.mode}
			_, got := invoke(command.Songs, robo, &call)
			if diff := cmp.Diff(notices(c.who, c.want...), got); diff != "" {
				t.Errorf("wrong messages (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoll(t *testing.T) {
	cases := []struct {
		name  string
		args  string
		n     int
		sides int
		want  string
	}{
		{"default", "", 3, 6, "You rolled 4 (1-6)."},
		{"sides", "20", 19, 20, "You rolled 20 (1-20)."},
		{"two", "2", 0, 2, "You rolled 1 (1-2)."},
		{"one", "1", 0, 0, "Usage: !roll [sides], with 2 to 1000 sides"},
		{"big", "1001", 0, 0, "Usage: !roll [sides], with 2 to 1000 sides"},
		{"word", "d20", 0, 0, "Usage: !roll [sides], with 2 to 1000 sides"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rng := &fixed{n: c.n}
			robo := robot(&telemetry{}, rng)
			call := command.Invocation{Trigger: "!roll", Sender: "kita", Args: c.args}
			_, got := invoke(command.Roll, robo, &call)
			if diff := cmp.Diff(notices("kita", c.want), got); diff != "" {
				t.Errorf("wrong messages (-want +got):\n%s", diff)
			}
			if rng.got != c.sides {
				t.Errorf("wrong range: want %d, got %d", c.sides, rng.got)
			}
		})
	}
}

func TestCoinflip(t *testing.T) {
	cases := []struct {
		f    float64
		want string
	}{
		{0, "Heads!"},
		{0.49, "Heads!"},
		{0.5, "Tails!"},
		{0.99, "Tails!"},
	}
	for _, c := range cases {
		robo := robot(&telemetry{}, &fixed{f: c.f})
		call := command.Invocation{Trigger: "!coinflip", Sender: "nijika"}
		_, got := invoke(command.Coinflip, robo, &call)
		if diff := cmp.Diff(notices("nijika", c.want), got); diff != "" {
			t.Errorf("wrong messages for %v (-want +got):\n%s", c.f, diff)
		}
	}
}

func TestPlay(t *testing.T) {
	cases := []struct {
		name  string
		label string
		title string
	}{
		{
			name:  "plain",
			label: "slay!",
			title: `/title bocchi actionbar ["",{"text":"Now Playing ","color":"blue"},{"text":"> ","color":"dark_green"},{"text":"slay!","bold":true,"color":"light_purple"}]`,
		},
		{
			name:  "quote",
			label: `say "hi"`,
			title: `/title bocchi actionbar ["",{"text":"Now Playing ","color":"blue"},{"text":"> ","color":"dark_green"},{"text":"say \"hi\"","bold":true,"color":"light_purple"}]`,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := command.Play("bocchi", "minecraft:ki10_eternxlkz_slay", c.label)
			want := []message.Sent{
				{Kind: message.Privileged, Text: "/stopsound bocchi"},
				{Kind: message.Privileged, Text: "/execute at bocchi run playsound minecraft:ki10_eternxlkz_slay master bocchi"},
				{Kind: message.Privileged, Text: c.title},
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("wrong messages (-want +got):\n%s", diff)
			}
		})
	}
}
