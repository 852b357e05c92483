package cooldown_test

import (
	"testing"
	"time"

	"github.com/zephyrtronium/utilbot/cooldown"
)

func TestCheck(t *testing.T) {
	type check struct {
		who    string
		at     time.Duration
		bypass bool
		wait   int
		ok     bool
	}
	cases := []struct {
		name   string
		window int
		checks []check
	}{
		{
			name:   "first",
			window: 5,
			checks: []check{
				{"bocchi", 0, false, 0, true},
			},
		},
		{
			name:   "throttled",
			window: 5,
			checks: []check{
				{"bocchi", 0, false, 0, true},
				{"bocchi", 3 * time.Second, false, 2, false},
			},
		},
		{
			name:   "truncate",
			window: 5,
			checks: []check{
				{"bocchi", 0, false, 0, true},
				{"bocchi", 1 * time.Millisecond, false, 5, false},
				{"bocchi", 4900 * time.Millisecond, false, 1, false},
			},
		},
		{
			name:   "elapsed",
			window: 5,
			checks: []check{
				{"bocchi", 0, false, 0, true},
				{"bocchi", 5 * time.Second, false, 0, true},
				{"bocchi", 9 * time.Second, false, 1, false},
				{"bocchi", 10 * time.Second, false, 0, true},
			},
		},
		{
			name:   "no-reset",
			window: 5,
			checks: []check{
				{"bocchi", 0, false, 0, true},
				{"bocchi", 2 * time.Second, false, 3, false},
				{"bocchi", 4 * time.Second, false, 1, false},
				{"bocchi", 5 * time.Second, false, 0, true},
			},
		},
		{
			name:   "separate",
			window: 5,
			checks: []check{
				{"bocchi", 0, false, 0, true},
				{"ryou", time.Second, false, 0, true},
				{"bocchi", time.Second, false, 4, false},
			},
		},
		{
			name:   "bypass",
			window: 5,
			checks: []check{
				{"root", 0, true, 0, true},
				{"root", time.Second, true, 0, true},
				// Bypassed checks don't start a window.
				{"root", 2 * time.Second, false, 0, true},
				{"root", 3 * time.Second, false, 4, false},
				{"root", 3 * time.Second, true, 0, true},
			},
		},
		{
			name:   "zero",
			window: 0,
			checks: []check{
				{"bocchi", 0, false, 0, true},
				{"bocchi", 0, false, 0, true},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			start := time.Unix(1700000000, 0)
			tr := cooldown.New(c.window)
			for i, k := range c.checks {
				wait, ok := tr.Check(k.who, start.Add(k.at), k.bypass)
				if wait != k.wait || ok != k.ok {
					t.Errorf("wrong result for check %d: want (%d, %t), got (%d, %t)", i, k.wait, k.ok, wait, ok)
				}
			}
		})
	}
}

func TestSweep(t *testing.T) {
	start := time.Unix(1700000000, 0)
	tr := cooldown.New(5)
	tr.Check("bocchi", start, false)
	tr.Check("ryou", start.Add(3*time.Second), false)
	tr.Check("root", start, true)
	if n := tr.Len(); n != 2 {
		t.Fatalf("wrong number tracked: want 2, got %d", n)
	}
	if n := tr.Sweep(start.Add(4 * time.Second)); n != 0 {
		t.Errorf("swept %d entries before any window elapsed", n)
	}
	if n := tr.Sweep(start.Add(5 * time.Second)); n != 1 {
		t.Errorf("wrong number swept: want 1, got %d", n)
	}
	// The sweep must not have touched ryou's window.
	if wait, ok := tr.Check("ryou", start.Add(5*time.Second), false); ok || wait != 3 {
		t.Errorf("wrong check after sweep: want (3, false), got (%d, %t)", wait, ok)
	}
	if wait, ok := tr.Check("bocchi", start.Add(5*time.Second), false); !ok {
		t.Errorf("swept sender throttled with wait %d", wait)
	}
}

func TestActive(t *testing.T) {
	start := time.Unix(1700000000, 0)
	tr := cooldown.New(5)
	if tr.Active("bocchi", start) {
		t.Errorf("unseen sender is active")
	}
	tr.Check("bocchi", start, false)
	if !tr.Active("bocchi", start.Add(4*time.Second)) {
		t.Errorf("sender inactive within window")
	}
	if tr.Active("bocchi", start.Add(5*time.Second)) {
		t.Errorf("sender active after window")
	}
	// Active must not record.
	if wait, ok := tr.Check("bocchi", start.Add(4*time.Second), false); ok || wait != 1 {
		t.Errorf("wrong check after active: want (1, false), got (%d, %t)", wait, ok)
	}
}
