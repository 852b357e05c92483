package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"sync"
)

// Lines is a console connection over line-oriented streams, typically the
// standard input and output of a process piped to a server console.
type Lines struct {
	scan *bufio.Scanner
	mu   sync.Mutex
	w    io.Writer
	c    io.Closer

	// in carries lines from the reader goroutine.
	// It is closed after err is set.
	in    chan string
	err   error
	start sync.Once
	done  chan struct{}
	stop  sync.Once
}

var _ Conn = (*Lines)(nil)

// NewLines creates a line-oriented console connection.
// If r implements [io.Closer], Close closes it.
func NewLines(r io.Reader, w io.Writer) *Lines {
	l := &Lines{
		scan: bufio.NewScanner(r),
		w:    w,
		in:   make(chan string),
		done: make(chan struct{}),
	}
	l.c, _ = r.(io.Closer)
	return l
}

func (l *Lines) read() {
	defer close(l.in)
	for l.scan.Scan() {
		select {
		case l.in <- l.scan.Text():
		case <-l.done:
			l.err = net.ErrClosed
			return
		}
	}
	if err := l.scan.Err(); err != nil {
		l.err = fmt.Errorf("couldn't read console line: %w", err)
		return
	}
	l.err = io.EOF
}

// Recv gets the next line. It returns [io.EOF] when the input ends.
func (l *Lines) Recv(ctx context.Context) (string, error) {
	l.start.Do(func() { go l.read() })
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case s, ok := <-l.in:
		if !ok {
			return "", l.err
		}
		return s, nil
	}
}

// Send writes a line.
func (l *Lines) Send(ctx context.Context, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := io.WriteString(l.w, text+"\n"); err != nil {
		return fmt.Errorf("couldn't write console line: %w", err)
	}
	return nil
}

// Close closes the input if it is closable.
func (l *Lines) Close() error {
	l.stop.Do(func() { close(l.done) })
	if l.c == nil {
		return nil
	}
	return l.c.Close()
}
