package fallback_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/zephyrtronium/utilbot/fallback"
)

func songs() *fallback.Table {
	return fallback.New("!play",
		[]string{"night-dancer", "slay!", "Zeldas-Lullaby"},
		[]string{"minecraft:ki10_night_dancer", "minecraft:ki10_eternxlkz_slay", "minecraft:ki10_zeldas_lullaby_with_rain"},
	)
}

func TestLookup(t *testing.T) {
	tbl := songs()
	cases := []struct {
		name    string
		text    string
		payload string
		ok      bool
	}{
		{"exact", "!play night-dancer", "minecraft:ki10_night_dancer", true},
		{"punct", "!play slay!", "minecraft:ki10_eternxlkz_slay", true},
		{"case", "!PLAY zeldas-lullaby", "minecraft:ki10_zeldas_lullaby_with_rain", true},
		{"trim", "  !play night-dancer ", "minecraft:ki10_night_dancer", true},
		{"word-only", "!play", "", false},
		{"unknown", "!play bocchi", "", false},
		{"extra", "!play night-dancer please", "", false},
		{"double-space", "!play  night-dancer", "", false},
		{"empty", "", "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, ok := tbl.Lookup(c.text)
			if ok != c.ok {
				t.Errorf("wrong match: want %t, got %t", c.ok, ok)
			}
			if e.Payload != c.payload {
				t.Errorf("wrong payload: want %q, got %q", c.payload, e.Payload)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	tbl := songs()
	cases := []struct {
		text string
		want string
	}{
		{"!play night-dancer", "night-dancer"},
		{"!PLAY Zeldas-Lullaby", "Zeldas-Lullaby"},
		{" !play slay! ", "slay!"},
		{"!pla", "!pla"},
		{"!stop now", "!stop now"},
	}
	for _, c := range cases {
		if got := tbl.Label(c.text); got != c.want {
			t.Errorf("wrong label for %q: want %q, got %q", c.text, c.want, got)
		}
	}
}

func TestEntries(t *testing.T) {
	tbl := fallback.New("!play",
		[]string{"x-slide", "night-dancer", "X-SLIDE"},
		[]string{"a", "b", "c"},
	)
	want := []fallback.Entry{
		{Literal: "!play X-SLIDE", Name: "X-SLIDE", Payload: "c"},
		{Literal: "!play night-dancer", Name: "night-dancer", Payload: "b"},
	}
	if diff := cmp.Diff(want, tbl.Entries()); diff != "" {
		t.Errorf("wrong entries (-want +got):\n%s", diff)
	}
	if tbl.Len() != 2 {
		t.Errorf("wrong length: want 2, got %d", tbl.Len())
	}
}

func TestNil(t *testing.T) {
	var tbl *fallback.Table
	if _, ok := tbl.Lookup("!play night-dancer"); ok {
		t.Errorf("nil table matched")
	}
	if tbl.Len() != 0 || tbl.Entries() != nil {
		t.Errorf("nil table has entries")
	}
}
