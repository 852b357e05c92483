// Package cooldown tracks per-sender command cooldowns.
package cooldown

import "time"

// Tracker records the last accepted command time of each sender.
// It is not safe for concurrent use; the owner must serialize calls.
type Tracker struct {
	last   map[string]time.Time
	window time.Duration
}

// New creates a tracker with a cooldown window given in whole seconds.
func New(seconds int) *Tracker {
	return &Tracker{
		last:   make(map[string]time.Time),
		window: time.Duration(seconds) * time.Second,
	}
}

// Window returns the tracker's cooldown window.
func (t *Tracker) Window() time.Duration {
	return t.window
}

// Check determines whether who may issue a command at now.
// If bypass is true, the result is always ok and nothing is recorded.
// Otherwise, if the sender's window has elapsed, now becomes the sender's
// last command time and the result is ok. If not, wait is the number of
// seconds left in the window, with elapsed time truncated to whole seconds,
// and the sender's last command time is unchanged.
func (t *Tracker) Check(who string, now time.Time, bypass bool) (wait int, ok bool) {
	if bypass {
		return 0, true
	}
	last, seen := t.last[who]
	if !seen {
		t.last[who] = now
		return 0, true
	}
	elapsed := max(now.Sub(last), 0)
	if elapsed >= t.window {
		t.last[who] = now
		return 0, true
	}
	secs := int(elapsed / time.Second)
	return int(t.window/time.Second) - secs, false
}

// Active reports whether who is within a cooldown window at now without
// recording anything.
func (t *Tracker) Active(who string, now time.Time) bool {
	last, ok := t.last[who]
	return ok && now.Sub(last) < t.window
}

// Sweep removes entries whose windows have elapsed as of now and returns the
// number removed. Such entries would be replaced on their next check anyway,
// so sweeping never changes the result of [Tracker.Check].
func (t *Tracker) Sweep(now time.Time) int {
	n := 0
	for who, last := range t.last {
		if now.Sub(last) >= t.window {
			delete(t.last, who)
			n++
		}
	}
	return n
}

// Len returns the number of senders currently tracked.
func (t *Tracker) Len() int {
	return len(t.last)
}
