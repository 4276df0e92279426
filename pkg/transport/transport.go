// Package transport provides the duplex byte-stream channel to a device's
// interactive shell. The SSH implementation lives in ssh.go; tests and
// simulators provide their own Channel.
package transport

import (
	"fmt"
	"time"
)

// DefaultPort is the SSH port used when an endpoint does not specify one.
const DefaultPort = 22

// DefaultTimeout bounds every ReadUntil call when an endpoint does not
// specify its own timeout.
const DefaultTimeout = 30 * time.Second

// Endpoint identifies one device shell: address, credentials, and the
// per-exchange deadline.
type Endpoint struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// Addr returns the host:port dial address.
func (e Endpoint) Addr() string {
	port := e.Port
	if port == 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("%s:%d", e.Host, port)
}

// ReadTimeout returns the endpoint's exchange deadline.
func (e Endpoint) ReadTimeout() time.Duration {
	if e.Timeout <= 0 {
		return DefaultTimeout
	}
	return e.Timeout
}

// Channel is a duplex byte stream over one remote shell conversation.
//
// A Channel is single-writer, single-reader: callers send one line and read
// its complete response before sending the next. ReadUntil blocks until the
// predicate matches the accumulated bytes or the timeout elapses; on timeout
// no partial data is returned. A successful ReadUntil consumes and returns
// everything received so far.
type Channel interface {
	Send(line string) error
	ReadUntil(pred func([]byte) bool, timeout time.Duration) ([]byte, error)
	Close() error
}
