package main

import (
	"github.com/zephyrtronium/utilbot/command"
	"github.com/zephyrtronium/utilbot/fallback"
)

// builtin is a command as configured before the prefix is known.
type builtin struct {
	name  string
	desc  string
	admin bool
	maint bool
	fn    command.Func
}

var builtins = []builtin{
	{name: "ping", desc: "Check server latency", fn: command.Ping},
	{name: "tps", desc: "Check server TPS", fn: command.TPS},
	{name: "players", desc: "List online players", fn: command.Players},
	{name: "uptime", desc: "Check server uptime", fn: command.Uptime},
	{name: "version", desc: "Check server version", fn: command.Version},
	{name: "roll", desc: "Roll a die, optionally with a number of sides", fn: command.Roll},
	{name: "coinflip", desc: "Flip a coin", fn: command.Coinflip},
	{name: "help", desc: "Shows available commands", fn: command.Help},
	{name: "songs", desc: "Shows available songs", fn: command.Songs},
	{name: "cl", desc: "Clear items in loaded chunks", admin: true, maint: true, fn: command.Clear},
	{name: "mt", desc: "Toggle maintenance mode", admin: true, maint: true, fn: command.Maintenance},
	{name: "debug", desc: "Toggle debug mode", admin: true, maint: true, fn: command.Debug},
	{name: "verbose", desc: "Toggle verbose mode (detailed output)", admin: true, maint: true, fn: command.Verbose},
	{name: "say", desc: "Broadcast a message as the server", admin: true, maint: true, fn: command.Say},
}

// registry creates a registry of the builtin commands using prefix.
func registry(prefix string) *command.Registry {
	reg := command.NewRegistry()
	for _, b := range builtins {
		reg.Register(command.Command{
			Trigger:                prefix + b.name,
			Description:            b.desc,
			AdminOnly:              b.admin,
			AvailableInMaintenance: b.maint,
			Fn:                     b.fn,
		})
	}
	return reg
}

// radio creates the song fallback table.
func radio(prefix string, songs []Song) *fallback.Table {
	names := make([]string, len(songs))
	sounds := make([]string, len(songs))
	for i, s := range songs {
		names[i] = s.Name
		sounds[i] = s.Sound
	}
	return fallback.New(prefix+"play", names, sounds)
}
