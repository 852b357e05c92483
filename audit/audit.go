// Package audit records executions of admin-only commands in SQLite.
package audit

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Entry is a single recorded command.
type Entry struct {
	Time    time.Time
	Sender  string
	Trigger string
	Args    string
}

// Log is an audit log backed by an SQL database.
type Log struct {
	db *sqlitex.Pool
}

// Open opens an existing audit log in an SQL database.
func Open(db *sqlitex.Pool) *Log {
	return &Log{db: db}
}

//go:embed schema.sql
var schemaSQL string

// Init initializes an SQLite DB to hold an audit log.
// For convenience, it accepts either a single connection or a pool.
func Init[DB *sqlitex.Pool | *sqlite.Conn](ctx context.Context, db DB) error {
	var conn *sqlite.Conn
	switch db := any(db).(type) {
	case *sqlite.Conn:
		conn = db
	case *sqlitex.Pool:
		var err error
		conn, err = db.Take(ctx)
		defer db.Put(conn)
		if err != nil {
			return fmt.Errorf("couldn't get conn to initialize audit log: %w", err)
		}
	}
	err := sqlitex.ExecuteScript(conn, schemaSQL, nil)
	if err != nil {
		return fmt.Errorf("couldn't initialize audit schema: %w", err)
	}
	return nil
}

// Record records a command execution.
func (l *Log) Record(ctx context.Context, at time.Time, sender, trigger, args string) error {
	conn, err := l.db.Take(ctx)
	defer l.db.Put(conn)
	if err != nil {
		return fmt.Errorf("couldn't get conn to record command: %w", err)
	}
	const insert = `INSERT INTO audit (time, sender, cmd, args) VALUES (:time, :sender, :cmd, :args)`
	st, err := conn.Prepare(insert)
	if err != nil {
		return fmt.Errorf("couldn't prepare statement to record command: %w", err)
	}
	st.SetInt64(":time", at.UnixNano())
	st.SetText(":sender", sender)
	st.SetText(":cmd", trigger)
	st.SetText(":args", args)
	if _, err := st.Step(); err != nil {
		return fmt.Errorf("couldn't insert audit entry: %w", err)
	}
	return nil
}

// Recent returns up to n of the most recently recorded entries, newest first.
// Entries recorded at the same time are returned in reverse insertion order.
func (l *Log) Recent(ctx context.Context, n int) ([]Entry, error) {
	conn, err := l.db.Take(ctx)
	defer l.db.Put(conn)
	if err != nil {
		return nil, fmt.Errorf("couldn't get conn to read audit log: %w", err)
	}
	var r []Entry
	opts := sqlitex.ExecOptions{
		Args: []any{n},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			r = append(r, Entry{
				Time:    time.Unix(0, stmt.ColumnInt64(0)),
				Sender:  stmt.ColumnText(1),
				Trigger: stmt.ColumnText(2),
				Args:    stmt.ColumnText(3),
			})
			return nil
		},
	}
	const sel = `SELECT time, sender, cmd, args FROM audit ORDER BY time DESC, id DESC LIMIT ?`
	if err := sqlitex.Execute(conn, sel, &opts); err != nil {
		return nil, fmt.Errorf("couldn't read audit log: %w", err)
	}
	return r, nil
}
