package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/zephyrtronium/utilbot/audit"
)

// Load loads UtilBot from a TOML configuration.
func Load(ctx context.Context, r io.Reader) (*Config, *toml.MetaData, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't decode config: %w", err)
	}
	expandcfg(&cfg, os.Getenv)
	defaults(&cfg, &md)
	if err := validate(&cfg); err != nil {
		return nil, nil, fmt.Errorf("bad config: %w", err)
	}
	if u := md.Undecoded(); len(u) != 0 {
		slog.WarnContext(ctx, "unknown config keys", slog.Any("keys", u))
	}
	return &cfg, &md, nil
}

// defaults fills settings which were not given.
func defaults(cfg *Config, md *toml.MetaData) {
	if !md.IsDefined("prefix") {
		cfg.Prefix = "!"
	}
	if !md.IsDefined("me") {
		cfg.Me = "utilbot"
	}
	if !md.IsDefined("cooldown") {
		cfg.Cooldown = 5
	}
	if !md.IsDefined("console", "rate") {
		cfg.Console.Rate = Rate{Every: 1, Num: 10}
	}
	if !md.IsDefined("console", "queue") {
		cfg.Console.Queue = 64
	}
	if !md.IsDefined("announce", "every") {
		cfg.Announce.Every = 600
	}
	if !md.IsDefined("radio") {
		cfg.Radio = slices.Clone(defaultRadio)
	}
	if !md.IsDefined("jobs", "sweep") {
		cfg.Jobs.Sweep = 60
	}
}

func validate(cfg *Config) error {
	var errs []error
	if strings.TrimSpace(cfg.Prefix) != cfg.Prefix || cfg.Prefix == "" {
		errs = append(errs, errors.New("prefix must be non-empty without surrounding spaces"))
	}
	if cfg.Admin == "" {
		errs = append(errs, errors.New("admin is required"))
	}
	if cfg.Cooldown < 0 {
		errs = append(errs, fmt.Errorf("negative cooldown %d", cfg.Cooldown))
	}
	if cfg.Console.Rate.Every <= 0 || cfg.Console.Rate.Num <= 0 {
		errs = append(errs, fmt.Errorf("console rate must be positive, got %v per %vs", cfg.Console.Rate.Num, cfg.Console.Rate.Every))
	}
	if cfg.Console.Queue <= 0 {
		errs = append(errs, fmt.Errorf("console queue must be positive, got %d", cfg.Console.Queue))
	}
	if cfg.Announce.Every <= 0 {
		errs = append(errs, fmt.Errorf("announce interval must be positive, got %v", cfg.Announce.Every))
	}
	if cfg.Jobs.Sweep <= 0 {
		errs = append(errs, fmt.Errorf("sweep interval must be positive, got %v", cfg.Jobs.Sweep))
	}
	for i, s := range cfg.Radio {
		if s.Name == "" || strings.ContainsFunc(s.Name, func(r rune) bool { return r == ' ' || r == '\t' }) {
			errs = append(errs, fmt.Errorf("radio entry %d: bad name %q", i, s.Name))
		}
		if s.Sound == "" {
			errs = append(errs, fmt.Errorf("radio entry %d (%s): no sound", i, s.Name))
		}
	}
	return errors.Join(errs...)
}

// loadAudit opens and initializes the audit log database.
// The result is nil if dsn is empty.
func loadAudit(ctx context.Context, dsn string) (*sqlitex.Pool, *audit.Log, error) {
	if dsn == "" {
		slog.DebugContext(ctx, "audit log disabled")
		return nil, nil, nil
	}
	slog.DebugContext(ctx, "audit db", slog.String("path", dsn))
	db, err := sqlitex.NewPool(dsn, sqlitex.PoolOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't open audit db: %w", err)
	}
	if err := audit.Init(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("couldn't initialize audit db: %w", err)
	}
	return db, audit.Open(db), nil
}

func fseconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Config is the marshaled structure of UtilBot's configuration.
type Config struct {
	// Prefix is the text that begins every command.
	Prefix string `toml:"prefix"`
	// Admin is the name of the player with admin privileges.
	Admin string `toml:"admin"`
	// Me is the bot's own player name, used for ping.
	Me string `toml:"me"`
	// Cooldown is the per-sender command cooldown in seconds.
	Cooldown int `toml:"cooldown"`
	// Console is the server console connection.
	Console ConsoleCfg `toml:"console"`
	// HTTP is the configuration for the HTTP API.
	HTTP HTTPCfg `toml:"http"`
	// DB is the table of database connection strings.
	DB DBCfg `toml:"db"`
	// Announce is the periodic announcement configuration.
	Announce AnnounceCfg `toml:"announce"`
	// Radio is the list of songs playable by name.
	Radio []Song `toml:"radio"`
	// Jobs is the configuration for background jobs.
	Jobs JobsCfg `toml:"jobs"`
}

// ConsoleCfg is the configuration for the server console.
type ConsoleCfg struct {
	// URL is the WebSocket URL of the console relay.
	// If empty, the console is standard input and output.
	URL string `toml:"url"`
	// Rate is the rate limit on outbound console lines.
	Rate Rate `toml:"rate"`
	// Queue is the number of outbound lines that may wait on the rate limit.
	Queue int `toml:"queue"`
}

// Rate is a rate limit configuration.
type Rate struct {
	Every float64 `toml:"every"`
	Num   int     `toml:"num"`
}

type HTTPCfg struct {
	Listen string `toml:"listen"`
}

// DBCfg is the configuration of databases.
type DBCfg struct {
	// Audit is the DSN of the admin command audit log.
	// If empty, admin commands are not recorded.
	Audit string `toml:"audit"`
}

// AnnounceCfg is the configuration of periodic announcements.
type AnnounceCfg struct {
	// Every is the interval between announcements in seconds.
	Every float64 `toml:"every"`
	// Messages maps announcements to their weights.
	Messages map[string]int `toml:"messages"`
}

// Song is a radio entry.
type Song struct {
	Name  string `toml:"name"`
	Sound string `toml:"sound"`
}

type JobsCfg struct {
	// Sweep is the interval in seconds between removing expired cooldowns.
	Sweep float64 `toml:"sweep"`
}

var defaultRadio = []Song{
	{"dead-inside-slowed", "minecraft:ki10_dead_inside"},
	{"slay!", "minecraft:ki10_eternxlkz_slay"},
	{"hensonn-sahara", "minecraft:ki10_hensonn_sahara"},
	{"hyperpop-x-rave-x-lida", "minecraft:ki10_hyperpop_x_rave_x_lida"},
	{"kordhell-murder-in-my-mind", "minecraft:ki10_kordhell_murder_in_my_mind"},
	{"night-dancer", "minecraft:ki10_night_dancer"},
	{"pharrell-williams-happy", "minecraft:ki10_pharrell_williams_happy"},
	{"playamne-x-nateki-midnight", "minecraft:ki10_playamne_x_nateki_midnight"},
	{"x-slide", "minecraft:ki10_x_slide"},
	{"Zeldas-Lullaby", "minecraft:ki10_zeldas_lullaby_with_rain"},
}

func expandcfg(cfg *Config, expand func(s string) string) {
	fields := []*string{
		&cfg.Admin,
		&cfg.Me,
		&cfg.Console.URL,
		&cfg.HTTP.Listen,
		&cfg.DB.Audit,
	}
	for _, p := range fields {
		*p = os.Expand(*p, expand)
	}
	for i := range cfg.Radio {
		cfg.Radio[i].Sound = os.Expand(cfg.Radio[i].Sound, expand)
	}
}
