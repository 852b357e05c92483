package audit_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/zephyrtronium/utilbot/audit"
)

var dbCount atomic.Int64

func testDB(ctx context.Context) *sqlitex.Pool {
	k := dbCount.Add(1)
	pool, err := sqlitex.NewPool(fmt.Sprintf("file:test-audit-%d.db?mode=memory&cache=shared", k), sqlitex.PoolOptions{Flags: sqlite.OpenReadWrite | sqlite.OpenCreate | sqlite.OpenMemory | sqlite.OpenSharedCache | sqlite.OpenURI})
	if err != nil {
		panic(err)
	}
	if err := audit.Init(ctx, pool); err != nil {
		panic(err)
	}
	return pool
}

func TestInitTwice(t *testing.T) {
	ctx := context.Background()
	db := testDB(ctx)
	if err := audit.Init(ctx, db); err != nil {
		t.Errorf("couldn't initialize again: %v", err)
	}
}

func TestRecent(t *testing.T) {
	ctx := context.Background()
	l := audit.Open(testDB(ctx))
	start := time.Unix(1700000000, 0)
	recs := []audit.Entry{
		{Time: start, Sender: "Root", Trigger: "!mt", Args: ""},
		{Time: start.Add(time.Second), Sender: "Root", Trigger: "!cl", Args: ""},
		{Time: start.Add(2 * time.Second), Sender: "Root", Trigger: "!say", Args: "restart soon"},
		{Time: start.Add(2 * time.Second), Sender: "Root", Trigger: "!debug", Args: "on"},
	}
	for _, r := range recs {
		if err := l.Record(ctx, r.Time, r.Sender, r.Trigger, r.Args); err != nil {
			t.Fatalf("couldn't record %+v: %v", r, err)
		}
	}
	cases := []struct {
		name string
		n    int
		want []audit.Entry
	}{
		{"all", 10, []audit.Entry{recs[3], recs[2], recs[1], recs[0]}},
		{"some", 2, []audit.Entry{recs[3], recs[2]}},
		{"none", 0, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := l.Recent(ctx, c.n)
			if err != nil {
				t.Fatalf("couldn't read: %v", err)
			}
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("wrong entries (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecentEmpty(t *testing.T) {
	ctx := context.Background()
	l := audit.Open(testDB(ctx))
	got, err := l.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("couldn't read: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("entries in empty log: %v", got)
	}
}
