// Package backup snapshots a device's running configuration to a local
// file, either as flat set statements or as the device's JSON rendering.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/srlinux-automation/srlcli/pkg/facts"
	"github.com/srlinux-automation/srlcli/pkg/session"
	"github.com/srlinux-automation/srlcli/pkg/util"
)

// Format selects the snapshot rendering.
type Format string

const (
	// FormatSet dumps flat "set /..." statements, restorable by feeding
	// them back through a configuration transaction.
	FormatSet Format = "set"
	// FormatJSON dumps the device's JSON configuration rendering.
	FormatJSON Format = "json"
)

const (
	cmdDumpSet  = "info flat from running /"
	cmdDumpJSON = "info from running / | as json"

	timestampLayout = "2006-01-02_150405"
)

// Options controls where and how the snapshot is written.
type Options struct {
	// Dir is the target directory, created if absent.
	Dir string
	// Filename overrides the generated "<hostname>_<timestamp>.<ext>" name.
	Filename string
	// Format defaults to FormatSet.
	Format Format
	// OmitTimestamp generates "<hostname>.<ext>" instead.
	OmitTimestamp bool
	// DryRun resolves hostname and path without writing anything.
	DryRun bool
}

// Result describes a written snapshot.
type Result struct {
	Path     string `json:"path"`
	Hostname string `json:"hostname"`
	Size     int    `json:"size"`
	Lines    int    `json:"lines"`
}

// Snapshot reads the running configuration and writes it under opts.Dir.
// Read-only on the device side; the session stays in operational mode.
func Snapshot(ctx context.Context, sess *session.Session, opts Options) (*Result, error) {
	format := opts.Format
	if format == "" {
		format = FormatSet
	}
	var cmd, ext string
	switch format {
	case FormatSet:
		cmd, ext = cmdDumpSet, "cfg"
	case FormatJSON:
		cmd, ext = cmdDumpJSON, "json"
	default:
		return nil, fmt.Errorf("unknown backup format %q", format)
	}

	hostname := deviceHostname(ctx, sess)

	filename := opts.Filename
	if filename == "" {
		if opts.OmitTimestamp {
			filename = fmt.Sprintf("%s.%s", hostname, ext)
		} else {
			filename = fmt.Sprintf("%s_%s.%s", hostname, time.Now().Format(timestampLayout), ext)
		}
	}
	path := filepath.Join(opts.Dir, filename)

	if opts.DryRun {
		return &Result{Path: path, Hostname: hostname}, nil
	}

	results, err := sess.Run(ctx, []string{cmd})
	if err != nil {
		return nil, err
	}
	data := results[0].Output
	if !strings.HasSuffix(data, "\n") {
		data += "\n"
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		return nil, fmt.Errorf("write backup: %w", err)
	}

	util.WithDevice(hostname).WithField("path", path).Info("Configuration backed up")
	return &Result{
		Path:     path,
		Hostname: hostname,
		Size:     len(data),
		Lines:    strings.Count(data, "\n"),
	}, nil
}

// deviceHostname asks the device for its own name so snapshots from many
// devices can share a directory. Falls back to the endpoint host.
func deviceHostname(ctx context.Context, sess *session.Session) string {
	f, err := facts.Gather(ctx, sess, []string{string(facts.SubsetHardware)})
	if err == nil && f.System != nil && f.System.Hostname != "" {
		return f.System.Hostname
	}
	if sess.Device() != "" {
		return sess.Device()
	}
	return "srlinux"
}
