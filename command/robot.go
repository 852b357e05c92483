package command

import (
	"log/slog"
	"time"

	"github.com/zephyrtronium/utilbot/fallback"
)

// Robot is the bot state as is visible to commands.
type Robot struct {
	Log *slog.Logger
	// Prefix is the command prefix, e.g. "!".
	Prefix string
	// Admin is the administrator's player name.
	Admin string
	// Me is the bot's own player name.
	Me string
	// Commands is the command registry. Commands must not modify it.
	Commands *Registry
	// Radio is the song table for the play command.
	Radio *fallback.Table
	// Telemetry queries server statistics.
	Telemetry Telemetry
	// Rand produces random values.
	Rand Rand
	// Start is the time the bot started.
	Start time.Time
}
