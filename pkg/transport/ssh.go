package transport

import (
	"bytes"
	"io"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/srlinux-automation/srlcli/pkg/util"
)

// settleWindow is how long ReadUntil waits for further bytes after the
// predicate first matches. A match that survives the window is anchored at a
// quiet buffer end, which filters out prompt look-alikes in the middle of
// still-arriving output.
const settleWindow = 100 * time.Millisecond

// SSHChannel is the Channel implementation over an SSH interactive shell
// with a PTY, the way SR Linux expects a human session.
type SSHChannel struct {
	client  *ssh.Client
	session *ssh.Session

	stdin    io.WriteCloser
	incoming chan []byte
	done     chan struct{}
	readErr  error

	buf bytes.Buffer

	closeOnce sync.Once
	closeErr  error
}

// Dial opens the SSH connection and the interactive shell. The endpoint's
// timeout bounds the TCP/SSH handshake as well as later reads.
func Dial(ep Endpoint) (*SSHChannel, error) {
	config := &ssh.ClientConfig{
		User: ep.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(ep.Password),
		},
		// Lab/fabric deployments pin nothing; production would verify host keys.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         ep.ReadTimeout(),
	}

	client, err := ssh.Dial("tcp", ep.Addr(), config)
	if err != nil {
		return nil, util.NewConnectError(ep.Host, err)
	}

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, util.NewConnectError(ep.Host, err)
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          0,
		ssh.TTY_OP_ISPEED: 115200,
		ssh.TTY_OP_OSPEED: 115200,
	}
	if err := session.RequestPty("xterm", 80, 512, modes); err != nil {
		session.Close()
		client.Close()
		return nil, util.NewConnectError(ep.Host, err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, util.NewConnectError(ep.Host, err)
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, util.NewConnectError(ep.Host, err)
	}

	if err := session.Shell(); err != nil {
		session.Close()
		client.Close()
		return nil, util.NewConnectError(ep.Host, err)
	}

	c := &SSHChannel{
		client:   client,
		session:  session,
		stdin:    stdin,
		incoming: make(chan []byte, 16),
		done:     make(chan struct{}),
	}
	go c.pump(stdout)

	return c, nil
}

// pump moves shell output into the incoming channel until the stream ends
// or the channel is closed. The send must not block past Close: a caller
// that abandoned the session after a timeout no longer drains incoming, and
// a chatty device would otherwise park this goroutine on a full channel
// where closing the SSH session cannot reach it.
func (c *SSHChannel) pump(r io.Reader) {
	defer close(c.incoming)
	for {
		chunk := make([]byte, 64*1024)
		n, err := r.Read(chunk)
		if n > 0 {
			select {
			case c.incoming <- chunk[:n]:
			case <-c.done:
				return
			}
		}
		if err != nil {
			c.readErr = err
			return
		}
	}
}

// Send writes one line to the shell.
func (c *SSHChannel) Send(line string) error {
	if _, err := io.WriteString(c.stdin, line+"\n"); err != nil {
		return util.NewConnectError("shell", err)
	}
	return nil
}

// ReadUntil accumulates shell output until pred matches and the stream has
// been quiet for settleWindow, then returns and consumes everything
// received. On timeout the accumulated bytes are kept internally but not
// returned; the caller treats the session as unknown-state.
func (c *SSHChannel) ReadUntil(pred func([]byte) bool, timeout time.Duration) ([]byte, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		if pred(c.buf.Bytes()) {
			if c.settled(deadline.C) {
				out := make([]byte, c.buf.Len())
				copy(out, c.buf.Bytes())
				c.buf.Reset()
				return out, nil
			}
			continue
		}

		select {
		case chunk, ok := <-c.incoming:
			if !ok {
				return nil, util.NewConnectError("shell", io.ErrUnexpectedEOF)
			}
			c.buf.Write(chunk)
		case <-deadline.C:
			return nil, util.NewTimeoutError("read", timeout)
		}
	}
}

// settled waits out the quiet window. It returns false if more bytes arrive
// (the match must be re-evaluated) and true once the stream stays quiet.
// A deadline firing mid-window does not discard an already-matched buffer.
func (c *SSHChannel) settled(deadline <-chan time.Time) bool {
	settle := time.NewTimer(settleWindow)
	defer settle.Stop()

	select {
	case chunk, ok := <-c.incoming:
		if ok {
			c.buf.Write(chunk)
		}
		return !ok
	case <-settle.C:
		return true
	case <-deadline:
		return true
	}
}

// Close tears down the shell and the SSH connection.
func (c *SSHChannel) Close() error {
	c.closeOnce.Do(func() {
		if c.done != nil {
			close(c.done)
		}
		if c.stdin != nil {
			c.stdin.Close()
		}
		if c.session != nil {
			c.session.Close()
		}
		if c.client != nil {
			c.closeErr = c.client.Close()
		}
	})
	return c.closeErr
}
