package console

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/zephyrtronium/utilbot/command"
)

// Status is a server status report. Absent fields leave the previously
// reported values unchanged.
type Status struct {
	// Latencies maps online players to their latencies in milliseconds.
	Latencies map[string]int `json:"latencies,omitzero"`
	// TPS is the recent ticks per second.
	TPS *float64 `json:"tps,omitzero"`
	// Online lists online players. If absent, the players in Latencies are
	// used instead.
	Online []string `json:"online,omitzero"`
	// Uptime is the server uptime in seconds.
	Uptime *float64 `json:"uptime,omitzero"`
	// Version is the server version.
	Version string `json:"version,omitzero"`
}

// Telemetry holds the latest server status. The zero value is ready to use
// and reports every statistic as unavailable.
type Telemetry struct {
	mu        sync.Mutex
	latencies map[string]int
	tps       *float64
	online    []string
	uptime    *float64
	version   string
	// at is the time of the last update.
	at time.Time
}

var _ command.Telemetry = (*Telemetry)(nil)

// Update merges a status report.
func (t *Telemetry) Update(s *Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s.Latencies != nil {
		t.latencies = maps.Clone(s.Latencies)
	}
	if s.TPS != nil {
		v := *s.TPS
		t.tps = &v
	}
	if s.Online != nil {
		t.online = slices.Clone(s.Online)
	}
	if s.Uptime != nil {
		v := *s.Uptime
		t.uptime = &v
	}
	if s.Version != "" {
		t.version = s.Version
	}
	t.at = time.Now()
}

// Latencies returns the latest reported player latencies.
func (t *Telemetry) Latencies(ctx context.Context) (map[string]int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.latencies == nil {
		return nil, command.ErrUnavailable
	}
	return maps.Clone(t.latencies), nil
}

// TPS returns the latest reported ticks per second.
func (t *Telemetry) TPS(ctx context.Context) (float64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.tps == nil {
		return 0, command.ErrUnavailable
	}
	return *t.tps, nil
}

// Online returns the latest reported online players.
func (t *Telemetry) Online(ctx context.Context) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case t.online != nil:
		return slices.Clone(t.online), nil
	case t.latencies != nil:
		return slices.Collect(maps.Keys(t.latencies)), nil
	default:
		return nil, command.ErrUnavailable
	}
}

// Uptime returns the latest reported server uptime, advanced by the time
// since the report.
func (t *Telemetry) Uptime(ctx context.Context) (time.Duration, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.uptime == nil {
		return 0, command.ErrUnavailable
	}
	d := time.Duration(*t.uptime * float64(time.Second))
	return d + time.Since(t.at), nil
}

// Version returns the latest reported server version.
func (t *Telemetry) Version(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.version == "" {
		return "", command.ErrUnavailable
	}
	return t.version, nil
}
