// Package testutil provides a scripted SR Linux shell for protocol tests.
// FakeDevice implements transport.Channel and emulates just enough of the
// CLI (candidate transactions, flat config dumps, prompts, error replies)
// to drive the session and transaction engines against recorded behavior
// instead of a live switch.
package testutil

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/srlinux-automation/srlcli/pkg/util"
)

// FakeDevice emulates one SR Linux interactive shell.
//
// The running datastore is an ordered list of flat "set / ..." lines;
// entering candidate mode stages a copy, commit replaces running with the
// staged copy, discard drops it. FailOn rigs individual commands to answer
// with a device error.
type FakeDevice struct {
	Hostname string

	// FailOn maps an exact command line to the reply the device gives
	// instead of accepting it.
	FailOn map[string]string
	// FailCommit, when set, makes "commit now" answer with this error.
	FailCommit string
	// ConfirmCommit makes the first commit ask a yes/no question.
	ConfirmCommit bool
	// Noisy wraps every prompt in ANSI control sequences.
	Noisy bool

	// Sent records every line received, in order.
	Sent []string

	running []string
	staged  []string

	inCandidate  bool
	awaitConfirm bool

	buf bytes.Buffer
}

// NewFakeDevice creates a device with the login banner already queued.
func NewFakeDevice(hostname string, runningLines ...string) *FakeDevice {
	d := &FakeDevice{
		Hostname: hostname,
		FailOn:   map[string]string{},
		running:  append([]string(nil), runningLines...),
	}
	d.buf.WriteString("Welcome to the srlinux CLI.\r\n")
	d.writePrompt()
	return d
}

// HasLine reports whether the running datastore contains the exact line.
func (d *FakeDevice) HasLine(line string) bool {
	for _, l := range d.running {
		if l == line {
			return true
		}
	}
	return false
}

// RunningLines returns a copy of the running datastore.
func (d *FakeDevice) RunningLines() []string {
	return append([]string(nil), d.running...)
}

// ModeCommands returns the mode-transition lines the session sent.
func (d *FakeDevice) ModeCommands() []string {
	var out []string
	for _, s := range d.Sent {
		switch s {
		case "enter candidate", "quit", "commit now", "discard now", "y", "n":
			out = append(out, s)
		}
	}
	return out
}

// Send processes one command line and queues its reply plus prompt.
func (d *FakeDevice) Send(line string) error {
	d.Sent = append(d.Sent, line)
	d.buf.WriteString(line + "\r\n") // PTY echo

	if reply, ok := d.FailOn[line]; ok {
		d.buf.WriteString(reply + "\r\n")
		d.writePrompt()
		return nil
	}

	if d.awaitConfirm {
		d.answerConfirm(line)
		return nil
	}

	switch {
	case line == "enter candidate":
		d.inCandidate = true
		d.staged = append([]string(nil), d.running...)
	case line == "quit":
		d.inCandidate = false
	case line == "commit now":
		d.commit()
		return nil
	case line == "discard now":
		d.staged = append([]string(nil), d.running...)
		d.buf.WriteString("All changes have been discarded.\r\n")
	case line == "diff":
		d.buf.WriteString(d.diff())
	case strings.HasPrefix(line, "info"):
		if strings.Contains(line, "as json") {
			d.buf.WriteString(d.jsonConfig())
		} else {
			for _, l := range d.running {
				d.buf.WriteString(l + "\r\n")
			}
		}
	case line == "show version":
		d.buf.WriteString(d.versionBlock())
	case line == "show interface brief":
		d.buf.WriteString(interfaceBriefTable)
	case strings.HasPrefix(line, "set /") || strings.HasPrefix(line, "delete /"):
		d.applyStatement(line)
	case strings.HasPrefix(line, "show "):
		d.buf.WriteString("(no output)\r\n")
	}

	d.writePrompt()
	return nil
}

// ReadUntil checks the queued output against the predicate. The shell is
// synchronous, so a predicate that does not already match never will;
// that case reports a timeout without waiting.
func (d *FakeDevice) ReadUntil(pred func([]byte) bool, timeout time.Duration) ([]byte, error) {
	if !pred(d.buf.Bytes()) {
		return nil, util.NewTimeoutError("read", timeout)
	}
	out := make([]byte, d.buf.Len())
	copy(out, d.buf.Bytes())
	d.buf.Reset()
	return out, nil
}

// Close is a no-op.
func (d *FakeDevice) Close() error { return nil }

func (d *FakeDevice) applyStatement(line string) {
	if !d.inCandidate {
		d.buf.WriteString("Error: cannot modify the running datastore\r\n")
		return
	}
	if strings.HasPrefix(line, "set /") {
		for _, l := range d.staged {
			if l == line {
				return
			}
		}
		d.staged = append(d.staged, line)
		return
	}
	// delete /path removes every set line under the path
	prefix := "set /" + strings.TrimPrefix(line, "delete /")
	kept := d.staged[:0]
	for _, l := range d.staged {
		if l != prefix && !strings.HasPrefix(l, prefix+" ") {
			kept = append(kept, l)
		}
	}
	d.staged = kept
}

func (d *FakeDevice) commit() {
	if !d.inCandidate {
		d.buf.WriteString("Error: no candidate session\r\n")
		d.writePrompt()
		return
	}
	if d.FailCommit != "" {
		d.buf.WriteString(d.FailCommit + "\r\n")
		d.writePrompt()
		return
	}
	if d.ConfirmCommit {
		d.awaitConfirm = true
		d.buf.WriteString("Commit will replace the running configuration.\r\nAre you sure? [y/n]:")
		return
	}
	d.running = append([]string(nil), d.staged...)
	d.buf.WriteString("All changes have been committed.\r\n")
	d.writePrompt()
}

func (d *FakeDevice) answerConfirm(line string) {
	d.awaitConfirm = false
	if line == "y" {
		d.running = append([]string(nil), d.staged...)
		d.buf.WriteString("All changes have been committed.\r\n")
	} else {
		d.buf.WriteString("Commit cancelled.\r\n")
	}
	d.writePrompt()
}

func (d *FakeDevice) diff() string {
	var b strings.Builder
	for _, l := range d.staged {
		if !contains(d.running, l) {
			b.WriteString("+ " + l + "\r\n")
		}
	}
	for _, l := range d.running {
		if !contains(d.staged, l) {
			b.WriteString("- " + l + "\r\n")
		}
	}
	return b.String()
}

func (d *FakeDevice) writePrompt() {
	banner := "--{ running }--[  ]--"
	if d.inCandidate {
		marker := ""
		if d.diff() != "" {
			marker = "* "
		}
		banner = fmt.Sprintf("--{ %scandidate shared default }--[  ]--", marker)
	}
	prompt := fmt.Sprintf("%s\r\nA:%s# ", banner, d.Hostname)
	if d.Noisy {
		prompt = "\x1b[?2004h\x1b[0m" + strings.ReplaceAll(prompt, "A:", "\x1b[1;32mA:") + "\x1b[0m\x1b[?25h"
	}
	d.buf.WriteString(prompt)
}

func (d *FakeDevice) jsonConfig() string {
	var b strings.Builder
	b.WriteString("{\r\n  \"statements\": [\r\n")
	for i, l := range d.running {
		b.WriteString("    " + fmt.Sprintf("%q", l))
		if i < len(d.running)-1 {
			b.WriteString(",")
		}
		b.WriteString("\r\n")
	}
	b.WriteString("  ]\r\n}\r\n")
	return b.String()
}

func (d *FakeDevice) versionBlock() string {
	return fmt.Sprintf(""+
		"Hostname          : %s\r\n"+
		"Chassis Type      : 7220 IXR-D2\r\n"+
		"Part Number       : Sim Part No.\r\n"+
		"Serial Number     : Sim Serial No.\r\n"+
		"Software Version  : v25.10.1\r\n"+
		"Build Number      : 112-g9b12a9b331\r\n", d.Hostname)
}

const interfaceBriefTable = "" +
	"+--------------+-------------+------------+--------+----------------+----------------+\r\n" +
	"|     Port     | Admin State | Oper State | Speed  |      Type      |  Description   |\r\n" +
	"+==============+=============+============+========+================+================+\r\n" +
	"| ethernet-1/1 | enable      | up         | 25G    |                | to-spine1      |\r\n" +
	"| ethernet-1/2 | enable      | down       | 25G    |                |                |\r\n" +
	"| mgmt0        | enable      | up         | 1G     |                | oob            |\r\n" +
	"+--------------+-------------+------------+--------+----------------+----------------+\r\n"

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}
