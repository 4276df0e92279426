package config

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/srlinux-automation/srlcli/pkg/session"
)

// CompareFormat selects how a comparison renders.
type CompareFormat string

const (
	FormatDiff CompareFormat = "diff"
	FormatJSON CompareFormat = "json"
	FormatYAML CompareFormat = "yaml"
)

// CompareResult is the drift between an intended flat configuration and the
// device's running datastore, scoped to a path.
type CompareResult struct {
	Path    string   `json:"path" yaml:"path"`
	InSync  bool     `json:"in_sync" yaml:"in_sync"`
	Missing []string `json:"missing" yaml:"missing"` // intended, absent from running
	Extra   []string `json:"extra" yaml:"extra"`     // running under path, not intended
}

// Compare reads the running datastore and diffs it against the intended
// "set /..." lines. Only running lines at or under path count as extra, so
// a comparison of a subtree is not polluted by the rest of the box.
// Read-only: the session never leaves operational mode.
func Compare(ctx context.Context, sess *session.Session, intended []string, path string) (*CompareResult, error) {
	if path == "" {
		path = "/"
	}

	rc, err := fetchRunning(ctx, sess)
	if err != nil {
		return nil, err
	}

	want := make(map[string]bool)
	for _, line := range intended {
		norm := normalize(line)
		if norm == "" || strings.HasPrefix(norm, "#") {
			continue
		}
		if strings.HasPrefix(norm, "set ") {
			want[norm] = true
		}
	}

	scope := normalize("set " + path)
	res := &CompareResult{Path: path}

	for line := range want {
		if !rc.index[line] {
			res.Missing = append(res.Missing, line)
		}
	}
	for _, line := range rc.lines {
		if path != "/" && line != scope && !strings.HasPrefix(line, scope+" ") {
			continue
		}
		if !want[line] {
			res.Extra = append(res.Extra, line)
		}
	}

	sort.Strings(res.Missing)
	sort.Strings(res.Extra)
	res.InSync = len(res.Missing) == 0 && len(res.Extra) == 0
	return res, nil
}

// Render formats the result. Diff form lists missing lines with "+" (to be
// added to reach intent) and extra lines with "-".
func (r *CompareResult) Render(format CompareFormat) (string, error) {
	switch format {
	case FormatDiff, "":
		var b strings.Builder
		for _, line := range r.Missing {
			b.WriteString("+ " + line + "\n")
		}
		for _, line := range r.Extra {
			b.WriteString("- " + line + "\n")
		}
		return b.String(), nil
	case FormatJSON:
		out, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case FormatYAML:
		out, err := yaml.Marshal(r)
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unknown compare format %q", format)
	}
}
