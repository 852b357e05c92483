// Package fallback implements a literal-text command table for commands whose
// selector is embedded in the message rather than parsed as an argument.
package fallback

import (
	"strings"

	"golang.org/x/text/cases"
)

// Entry is a single literal command.
type Entry struct {
	// Literal is the full message text that selects the entry,
	// e.g. "!play night-dancer".
	Literal string
	// Name is the literal with the command word removed, e.g. "night-dancer".
	Name string
	// Payload is the opaque value associated with the entry,
	// e.g. a sound identifier.
	Payload string
}

// Table maps literal message texts to entries. It is immutable after
// construction and safe for concurrent use.
type Table struct {
	word    string
	entries []Entry
	index   map[string]int
}

// New creates a table for a command word, e.g. "!play", from a list of names
// and their payloads. Each entry's literal is the word and the name separated
// by one space. Later names replace earlier ones which differ only by case.
func New(word string, names, payloads []string) *Table {
	if len(names) != len(payloads) {
		panic("fallback: mismatched names and payloads")
	}
	t := &Table{
		word:  word,
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		e := Entry{
			Literal: word + " " + name,
			Name:    name,
			Payload: payloads[i],
		}
		k := fold(e.Literal)
		if j, ok := t.index[k]; ok {
			t.entries[j] = e
			continue
		}
		t.index[k] = len(t.entries)
		t.entries = append(t.entries, e)
	}
	return t
}

// Word returns the command word of the table.
func (t *Table) Word() string {
	if t == nil {
		return ""
	}
	return t.word
}

// Lookup finds the entry whose literal matches the entire text,
// ignoring case and surrounding whitespace.
func (t *Table) Lookup(text string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	i, ok := t.index[fold(strings.TrimSpace(text))]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Label returns the part of text following the command word and one space.
// If text does not start with the word, it is returned trimmed but otherwise
// unchanged.
func (t *Table) Label(text string) string {
	text = strings.TrimSpace(text)
	n := len(t.word) + 1
	if len(text) < n || fold(text[:n]) != fold(t.word+" ") {
		return text
	}
	return text[n:]
}

// Entries returns the table's entries in the order they were given.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	r := make([]Entry, len(t.entries))
	copy(r, t.entries)
	return r
}

// Len returns the number of entries in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

func fold(s string) string {
	return cases.Fold().String(s)
}
