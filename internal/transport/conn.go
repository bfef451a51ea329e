package transport

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/dvrctl/internal/protocol"
)

// ErrConnection marks transport-level failure. Once a send or receive
// reports it the session owning the socket is unusable.
var ErrConnection = errors.New("dvrip: connection failed")

// ConnError is a socket failure during one transport operation.
type ConnError struct {
	Op  string
	Err error
}

func (e *ConnError) Error() string {
	return fmt.Sprintf("dvrip: connection %s: %v", e.Op, e.Err)
}

func (e *ConnError) Unwrap() error { return e.Err }

func (e *ConnError) Is(target error) bool { return target == ErrConnection }

// Conn is a framed stream connection to one device. It carries no
// protocol semantics beyond the fixed header.
type Conn struct {
	cfg  Config
	sock net.Conn
	log  zerolog.Logger

	closeOnce sync.Once
}

// Dial opens a raw TCP connection to addr.
func Dial(addr string, cfg Config, log zerolog.Logger) (*Conn, error) {
	sock, err := net.DialTimeout("tcp", addr, cfg.ConnectTimeout)
	if err != nil {
		return nil, &ConnError{Op: "dial", Err: err}
	}
	log.Debug().Str("addr", addr).Msg("transport connected")
	return NewConn(sock, cfg, log), nil
}

// NewConn wraps an established stream connection. The Conn takes
// exclusive ownership of sock.
func NewConn(sock net.Conn, cfg Config, log zerolog.Logger) *Conn {
	return &Conn{cfg: cfg, sock: sock, log: log}
}

// Send writes one complete frame.
func (c *Conn) Send(f protocol.Frame) error {
	if c.cfg.WriteTimeout > 0 {
		if err := c.sock.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout)); err != nil {
			return &ConnError{Op: "send", Err: err}
		}
	}
	if err := protocol.WriteFrame(c.sock, f); err != nil {
		return &ConnError{Op: "send", Err: err}
	}
	c.log.Trace().
		Uint16("command", f.Header.Command).
		Uint32("sequence", f.Header.Sequence).
		Int("body_len", len(f.Body)).
		Msg("frame sent")
	return nil
}

// Recv blocks until one complete frame is read. Wire-format violations
// surface as decode errors; a peer that errors or closes mid-frame is a
// connection failure.
func (c *Conn) Recv() (protocol.Frame, error) {
	if c.cfg.ReadTimeout > 0 {
		if err := c.sock.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout)); err != nil {
			return protocol.Frame{}, &ConnError{Op: "recv", Err: err}
		}
	}
	f, err := protocol.ReadFrame(c.sock, c.cfg.Limits)
	if err != nil {
		if errors.Is(err, protocol.ErrDecode) {
			return protocol.Frame{}, err
		}
		return protocol.Frame{}, &ConnError{Op: "recv", Err: err}
	}
	c.log.Trace().
		Uint16("command", f.Header.Command).
		Uint32("sequence", f.Header.Sequence).
		Int("body_len", len(f.Body)).
		Msg("frame received")
	return f, nil
}

// Close releases the socket. Safe to call repeatedly and after the
// connection has already broken.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		_ = c.sock.Close()
		c.log.Debug().Msg("transport closed")
	})
	return nil
}
