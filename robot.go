package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/zephyrtronium/utilbot/announce"
	"github.com/zephyrtronium/utilbot/audit"
	"github.com/zephyrtronium/utilbot/command"
	"github.com/zephyrtronium/utilbot/console"
	"github.com/zephyrtronium/utilbot/dispatch"
	"github.com/zephyrtronium/utilbot/message"
	"github.com/zephyrtronium/utilbot/metrics"
	"github.com/zephyrtronium/utilbot/mode"
)

// Robot is the overall configuration for the bot.
type Robot struct {
	// cfg is the loaded configuration.
	cfg *Config
	// cmds is the bot state visible to commands.
	cmds *command.Robot
	// dispatch routes chat messages to commands.
	dispatch *dispatch.Dispatcher
	// tele is the most recent server telemetry.
	tele *console.Telemetry
	// outbox queues lines for the console.
	outbox *console.Outbox
	// metrics are the bot's metrics.
	metrics metrics.Metrics
	// announce is the announcer. It is nil if there are no announcements.
	announce *announce.Announcer
	// audit is the admin command log. It may be nil.
	audit *audit.Log
}

// New creates a bot from its configuration.
// log may be nil, in which case admin commands are not recorded.
func New(cfg *Config, fakeNormal bool, log *audit.Log) *Robot {
	tele := new(console.Telemetry)
	m := metrics.New()
	robo := &Robot{
		cfg: cfg,
		cmds: &command.Robot{
			Log:       slog.Default(),
			Prefix:    cfg.Prefix,
			Admin:     cfg.Admin,
			Me:        cfg.Me,
			Commands:  registry(cfg.Prefix),
			Radio:     radio(cfg.Prefix, cfg.Radio),
			Telemetry: tele,
			Rand:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
			Start:     time.Now(),
		},
		tele:     tele,
		outbox:   console.NewOutbox(cfg.Console.Queue),
		metrics:  m,
		announce: announce.New(cfg.Announce.Messages, rand.Uint32, m.AnnounceCount),
		audit:    log,
	}
	dcfg := dispatch.Config{
		Prefix:     cfg.Prefix,
		Admin:      cfg.Admin,
		Cooldown:   cfg.Cooldown,
		FakeNormal: fakeNormal,
	}
	// Avoid a typed nil in the interface.
	var aud dispatch.Auditor
	if log != nil {
		aud = log
	}
	robo.dispatch = dispatch.New(dcfg, robo.cmds, robo.outbox, aud, m)
	return robo
}

// Run connects to the console and serves until ctx is done or the console
// closes.
func (robo *Robot) Run(ctx context.Context) error {
	conn, err := robo.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		// Unblock the reader on shutdown.
		<-ctx.Done()
		conn.Close()
		return ctx.Err()
	})
	group.Go(func() error {
		lim := rate.NewLimiter(rate.Every(fseconds(robo.cfg.Console.Rate.Every)/time.Duration(robo.cfg.Console.Rate.Num)), robo.cfg.Console.Rate.Num)
		return robo.outbox.Run(ctx, conn, lim)
	})
	group.Go(func() error { return robo.read(ctx, conn) })
	group.Go(func() error { return robo.sweep(ctx, fseconds(robo.cfg.Jobs.Sweep)) })
	if robo.announce != nil {
		group.Go(func() error { return robo.announce.Run(ctx, robo.dispatch, fseconds(robo.cfg.Announce.Every)) })
	}
	if robo.cfg.HTTP.Listen != "" {
		group.Go(func() error {
			return robo.api(ctx, robo.cfg.HTTP.Listen, new(http.ServeMux), robo.metrics.Collectors())
		})
	}
	robo.dispatch.Job(ctx, robo.greet)
	err = group.Wait()
	if errors.Is(err, context.Canceled) {
		// If the first error is context canceled, then we are shutting down
		// normally in response to a sigint.
		err = nil
	}
	return err
}

// connect opens the console connection.
func (robo *Robot) connect(ctx context.Context) (console.Conn, error) {
	if robo.cfg.Console.URL == "" {
		slog.InfoContext(ctx, "console on stdio")
		return console.NewLines(os.Stdin, os.Stdout), nil
	}
	dctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	s, err := console.Dial(dctx, nil, robo.cfg.Console.URL, robo.tele)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "connected to console", slog.String("url", robo.cfg.Console.URL))
	return s, nil
}

// greet announces startup to the administrator.
func (robo *Robot) greet(ctx context.Context, st mode.State) (mode.State, []message.Sent) {
	return st, []message.Sent{
		message.Format(robo.cfg.Admin, "Initializing UtilBot with prefix '%s'...", robo.cfg.Prefix),
		message.Format(robo.cfg.Admin, "UtilBot initialized successfully."),
	}
}

// read handles chat lines from conn until it fails.
func (robo *Robot) read(ctx context.Context, conn console.Conn) error {
	for {
		line, err := conn.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				slog.InfoContext(ctx, "console closed")
				return context.Canceled
			}
			return fmt.Errorf("couldn't read console: %w", err)
		}
		msg, ok := message.FromChat(line, time.Now())
		if !ok {
			slog.DebugContext(ctx, "not chat", slog.String("line", line))
			continue
		}
		if msg.Sender == robo.cfg.Me {
			continue
		}
		o := robo.dispatch.Handle(ctx, msg)
		slog.DebugContext(ctx, "handled",
			slog.String("trace", msg.ID),
			slog.String("sender", msg.Sender),
			slog.Bool("private", msg.Private),
			slog.String("outcome", o.String()),
		)
	}
}

// sweep periodically forgets expired cooldowns.
func (robo *Robot) sweep(ctx context.Context, every time.Duration) error {
	tick := time.NewTicker(every)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-tick.C:
			if n := robo.dispatch.Sweep(t); n != 0 {
				slog.DebugContext(ctx, "swept cooldowns", slog.Int("n", n))
			}
		}
	}
}
