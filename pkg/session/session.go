// Package session owns one shell conversation with an SR Linux device: the
// explicit mode state machine, the command executor, and the candidate
// transaction primitives built on it.
package session

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/srlinux-automation/srlcli/pkg/terminal"
	"github.com/srlinux-automation/srlcli/pkg/transport"
	"github.com/srlinux-automation/srlcli/pkg/util"
)

// CommandResult is the framed response to one command in a batch. Results
// are positionally aligned 1:1 with the submitted commands.
type CommandResult struct {
	Command string `json:"command"`
	Output  string `json:"output"`
	Failed  bool   `json:"failed"`
}

// Session is one logical shell conversation with one device.
//
// A session is strictly sequential: a command is sent only after the
// previous command's terminating prompt was observed, and nothing here is
// safe for concurrent use. Drive each device from its own session.
type Session struct {
	ep transport.Endpoint
	ch transport.Channel
	rd *terminal.Reader

	mode      terminal.Mode
	corrupted bool

	log *logrus.Entry
}

// Open dials the device and waits for the initial operational prompt.
func Open(ep transport.Endpoint) (*Session, error) {
	ch, err := transport.Dial(ep)
	if err != nil {
		return nil, err
	}
	return New(ch, ep)
}

// New binds a session to an already-open channel and drains the login
// banner up to the first prompt. The channel is closed on failure.
func New(ch transport.Channel, ep transport.Endpoint) (*Session, error) {
	s := &Session{
		ep:   ep,
		ch:   ch,
		rd:   terminal.NewReader(ch),
		mode: terminal.ModeOperational,
		log:  util.WithDevice(ep.Host),
	}

	mode, err := s.rd.Drain(ep.ReadTimeout())
	if err != nil {
		ch.Close()
		return nil, util.NewConnectError(ep.Host, err)
	}
	if mode != terminal.ModeOperational {
		ch.Close()
		return nil, &util.ModeTransitionError{From: mode.String(), To: terminal.ModeOperational.String(), Prompt: mode.String()}
	}

	s.log.Debug("Session opened")
	return s, nil
}

// Device returns the device host this session is bound to.
func (s *Session) Device() string {
	return s.ep.Host
}

// Mode returns the tracked CLI mode.
func (s *Session) Mode() terminal.Mode {
	return s.mode
}

// Corrupted reports whether the session hit an unrecoverable state and must
// be discarded by the caller.
func (s *Session) Corrupted() bool {
	return s.corrupted
}

// Close tears down the transport.
func (s *Session) Close() error {
	s.log.Debug("Session closed")
	return s.ch.Close()
}

// exchange sends one line and reads the framed response along with the
// prompt mode the device landed in. Transport and timeout failures poison
// the session: a partially observed response makes device state unknown.
func (s *Session) exchange(cmd string) (terminal.Response, terminal.Mode, error) {
	if err := s.ch.Send(cmd); err != nil {
		s.corrupted = true
		return terminal.Response{}, s.mode, err
	}
	resp, mode, err := s.rd.ReadResponse(cmd, s.ep.ReadTimeout())
	if err != nil {
		s.corrupted = true
		return terminal.Response{}, s.mode, err
	}
	return resp, mode, nil
}

var errPoisoned = errors.New("previous failure left device state unknown")

// guard rejects calls on a poisoned session.
func (s *Session) guard() error {
	if s.corrupted {
		return util.NewSessionCorruptedError(s.ep.Host, errPoisoned)
	}
	return nil
}
