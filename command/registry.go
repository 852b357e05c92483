package command

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Registry maps case-insensitive triggers to commands.
// It is not safe for concurrent mutation.
type Registry struct {
	cmds map[string]*Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]*Command)}
}

// Register adds a command, replacing any existing command whose trigger
// differs only by case.
func (r *Registry) Register(c Command) {
	r.cmds[Fold(c.Trigger)] = &c
}

// Lookup finds the command with the given trigger, ignoring case.
func (r *Registry) Lookup(token string) (*Command, bool) {
	c, ok := r.cmds[Fold(token)]
	return c, ok
}

// List returns the commands satisfying pred, sorted by trigger.
// If pred is nil, all commands are returned.
func (r *Registry) List(pred func(*Command) bool) []*Command {
	s := make([]*Command, 0, len(r.cmds))
	for _, c := range r.cmds {
		if pred == nil || pred(c) {
			s = append(s, c)
		}
	}
	slices.SortFunc(s, func(a, b *Command) int {
		return strings.Compare(Fold(a.Trigger), Fold(b.Trigger))
	})
	return s
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	return len(r.cmds)
}

// Fold returns the case-insensitive key for a trigger.
func Fold(s string) string {
	return cases.Fold().String(s)
}
