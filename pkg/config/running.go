package config

import (
	"context"
	"strings"

	"github.com/srlinux-automation/srlcli/pkg/session"
)

// infoFlatCommand dumps the running datastore as flat "set /..." lines,
// readable from operational mode. Flat form is the same shape as ChangeSet
// statements, which is what makes line-level satisfaction checks possible.
const infoFlatCommand = "info flat from running /"

// runningConfig is a snapshot of the running datastore in flat form.
type runningConfig struct {
	lines []string
	index map[string]bool
}

// fetchRunning reads the running datastore through the command executor.
// Read-only: the session stays in operational mode.
func fetchRunning(ctx context.Context, sess *session.Session) (*runningConfig, error) {
	results, err := sess.Run(ctx, []string{infoFlatCommand})
	if err != nil {
		return nil, err
	}
	return parseRunning(results[0].Output), nil
}

func parseRunning(output string) *runningConfig {
	rc := &runningConfig{index: make(map[string]bool)}
	for _, raw := range strings.Split(output, "\n") {
		line := normalize(raw)
		if !strings.HasPrefix(line, "set /") {
			continue
		}
		rc.lines = append(rc.lines, line)
		rc.index[line] = true
	}
	return rc
}

// satisfied reports whether the statement already holds in the snapshot:
// a set holds when its exact line is present, a delete when no line exists
// at or under its path.
func (rc *runningConfig) satisfied(st Statement) bool {
	switch st.Action {
	case ActionSet:
		return rc.index[normalize(st.Line())]
	case ActionDelete:
		prefix := normalize("set " + st.Args)
		for _, line := range rc.lines {
			if line == prefix || strings.HasPrefix(line, prefix+" ") {
				return false
			}
		}
		return true
	default:
		return false
	}
}
