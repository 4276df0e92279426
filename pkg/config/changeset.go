// Package config implements the candidate-configuration transaction engine:
// ordered set/delete change sets, the idempotency check against the running
// datastore, atomic apply with rollback, drift comparison, and client-side
// changeset validation.
package config

import (
	"fmt"
	"strings"
)

// Action is what a statement does to its path.
type Action string

const (
	// ActionSet writes a value at a path.
	ActionSet Action = "set"
	// ActionDelete removes a path and everything under it.
	ActionDelete Action = "delete"
)

// Statement is one configuration statement: an action plus the flat path
// expression, e.g. args "/ interface ethernet-1/1 admin-state enable".
type Statement struct {
	Action Action
	Args   string
}

// Line renders the statement as the CLI line sent to the device.
func (s Statement) Line() string {
	return string(s.Action) + " " + s.Args
}

// ParseStatement parses one "set /..." or "delete /..." line.
func ParseStatement(line string) (Statement, error) {
	norm := normalize(line)

	var action Action
	switch {
	case strings.HasPrefix(norm, "set "):
		action = ActionSet
	case strings.HasPrefix(norm, "delete "):
		action = ActionDelete
	default:
		return Statement{}, fmt.Errorf("statement must start with %q or %q: %q", ActionSet, ActionDelete, line)
	}

	args := strings.TrimSpace(strings.TrimPrefix(norm, string(action)))
	if !strings.HasPrefix(args, "/") {
		return Statement{}, fmt.Errorf("statement path must start with /: %q", line)
	}
	return Statement{Action: action, Args: args}, nil
}

// ChangeSet is an ordered, immutable sequence of statements. Order is
// significant: device-side validation may depend on a delete preceding an
// unrelated set, so statements are never reordered.
type ChangeSet struct {
	stmts []Statement
}

// NewChangeSet copies the statements into an immutable set.
func NewChangeSet(stmts ...Statement) ChangeSet {
	return ChangeSet{stmts: append([]Statement(nil), stmts...)}
}

// ParseChangeSet parses configuration lines into a ChangeSet. Blank lines
// and #-comments are skipped.
func ParseChangeSet(lines []string) (ChangeSet, error) {
	var stmts []Statement
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		st, err := ParseStatement(trimmed)
		if err != nil {
			return ChangeSet{}, err
		}
		stmts = append(stmts, st)
	}
	return ChangeSet{stmts: stmts}, nil
}

// Statements returns a copy of the ordered statements.
func (cs ChangeSet) Statements() []Statement {
	return append([]Statement(nil), cs.stmts...)
}

// Len returns the number of statements.
func (cs ChangeSet) Len() int {
	return len(cs.stmts)
}

// Empty reports whether the set has no statements.
func (cs ChangeSet) Empty() bool {
	return len(cs.stmts) == 0
}

// Lines renders all statements as CLI lines, in order.
func (cs ChangeSet) Lines() []string {
	out := make([]string, len(cs.stmts))
	for i, st := range cs.stmts {
		out[i] = st.Line()
	}
	return out
}

// normalize collapses whitespace runs outside quoted strings so that
// line-level comparison is not defeated by formatting.
func normalize(line string) string {
	var b strings.Builder
	inQuote := false
	space := false
	for _, r := range strings.TrimSpace(line) {
		if r == '"' {
			inQuote = !inQuote
		}
		if !inQuote && (r == ' ' || r == '\t') {
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
