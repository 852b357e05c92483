package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/zephyrtronium/utilbot/command"
)

var app = cli.Command{
	Name:  "utilbot",
	Usage: "Minecraft server utility chat bot",

	Flags: []cli.Flag{
		&flagConfig,
		&flagLog,
		&flagLogFormat,
		&flagFakeNormal,
	},
	Commands: []*cli.Command{
		{
			Name:   "check",
			Usage:  "Load the config and print the commands it configures",
			Action: cliCheck,
		},
		{
			Name:  "audit",
			Usage: "Print recent admin commands from the audit log",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "n",
					Usage: "Number of entries to print",
					Value: 20,
				},
			},
			Action: cliAudit,
		},
	},
	Action: cliRun,

	Authors: []any{
		"Branden J Brown  @zephyrtronium",
	},
	Copyright: "Copyright 2024 Branden J Brown",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	go func() {
		<-ctx.Done()
		stop()
	}()
	err := app.Run(ctx, os.Args)
	if err != nil {
		fmt.Println(err)
	}
}

func loadConfig(ctx context.Context, cmd *cli.Command) (*Config, error) {
	r, err := os.Open(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("couldn't open config file: %w", err)
	}
	defer r.Close()
	cfg, _, err := Load(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("couldn't load config: %w", err)
	}
	return cfg, nil
}

func cliRun(ctx context.Context, cmd *cli.Command) error {
	slog.SetDefault(loggerFromFlags(cmd))
	cfg, err := loadConfig(ctx, cmd)
	if err != nil {
		return err
	}
	db, log, err := loadAudit(ctx, cfg.DB.Audit)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	fake := cmd.Bool("fake-normal")
	if fake {
		slog.WarnContext(ctx, "admin privileges disabled", slog.String("admin", cfg.Admin))
	}
	robo := New(cfg, fake, log)
	return robo.Run(ctx)
}

func cliCheck(ctx context.Context, cmd *cli.Command) error {
	slog.SetDefault(loggerFromFlags(cmd))
	cfg, err := loadConfig(ctx, cmd)
	if err != nil {
		return err
	}
	robo := New(cfg, false, nil)
	printCommands(os.Stdout, robo.cmds)
	return nil
}

// printCommands writes the table of commands and songs to w.
func printCommands(w io.Writer, robo *command.Robot) {
	fmt.Fprintf(w, "admin: %s\n", robo.Admin)
	for _, c := range robo.Commands.List(nil) {
		var flags []string
		if c.AdminOnly {
			flags = append(flags, "admin")
		}
		if c.AvailableInMaintenance {
			flags = append(flags, "maintenance")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.Trigger, strings.Join(flags, ","), c.Description)
	}
	for _, e := range robo.Radio.Entries() {
		fmt.Fprintf(w, "%s\t%s\n", e.Literal, e.Payload)
	}
}

func cliAudit(ctx context.Context, cmd *cli.Command) error {
	slog.SetDefault(loggerFromFlags(cmd))
	cfg, err := loadConfig(ctx, cmd)
	if err != nil {
		return err
	}
	db, log, err := loadAudit(ctx, cfg.DB.Audit)
	if err != nil {
		return err
	}
	if db == nil {
		return errors.New("no audit log configured")
	}
	defer db.Close()
	l, err := log.Recent(ctx, int(cmd.Int("n")))
	if err != nil {
		return err
	}
	for _, e := range l {
		fmt.Printf("%s\t%s\t%s %s\n", e.Time.Format(time.RFC3339), e.Sender, e.Trigger, e.Args)
	}
	return nil
}

var (
	flagConfig = cli.StringFlag{
		Name:       "config",
		Required:   true,
		Usage:      "TOML config file",
		Persistent: true,
		Action: func(ctx context.Context, cmd *cli.Command, s string) error {
			i, err := os.Stat(s)
			if err != nil {
				return err
			}
			if !i.Mode().IsRegular() {
				return errors.New("config must be a regular file")
			}
			return nil
		},
	}

	flagLog = cli.StringFlag{
		Name:       "log",
		Usage:      "Logging level, one of debug, info, warn, error",
		Value:      "info",
		Persistent: true,
		Action: func(ctx context.Context, c *cli.Command, s string) error {
			var l slog.Level
			return l.UnmarshalText([]byte(s))
		},
	}

	flagLogFormat = cli.StringFlag{
		Name:       "log-format",
		Usage:      "Logging format, either text or json",
		Value:      "text",
		Persistent: true,
		Action: func(ctx context.Context, c *cli.Command, s string) error {
			switch strings.ToLower(s) {
			case "text", "json":
				return nil
			default:
				return errors.New("unknown logging format")
			}
		},
	}

	// flagFakeNormal treats the admin as a normal player for testing.
	flagFakeNormal = cli.BoolFlag{
		Name:   "fake-normal",
		Usage:  "Treat the admin as a normal player",
		Hidden: true,
	}
)

func loggerFromFlags(cmd *cli.Command) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(cmd.String("log"))); err != nil {
		panic(err)
	}
	var h slog.Handler
	switch strings.ToLower(cmd.String("log-format")) {
	case "text":
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	case "json":
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	}
	return slog.New(h)
}
