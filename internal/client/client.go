package client

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/dvrctl/internal/command"
	"github.com/danmuck/dvrctl/internal/protocol"
	"github.com/danmuck/dvrctl/internal/transport"
)

// State is the session lifecycle position.
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateAuthenticated
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateAuthenticated:
		return "authenticated"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// State-precondition failures. These are detected locally and never cost
// a network round trip.
var (
	ErrNotAuthenticated = errors.New("dvrip: session not authenticated")
	ErrAlreadyLoggedIn  = errors.New("dvrip: session already authenticated")
	ErrClosed           = errors.New("dvrip: session closed")
)

// Client is one control-channel session with a device. It exclusively
// owns its transport connection.
type Client struct {
	mu   sync.Mutex
	conn *transport.Conn
	log  zerolog.Logger

	state      State
	seq        uint32
	session    uint32
	alive      time.Duration
	channels   int
	videoIn    int
	deviceType string
}

// Dial opens a TCP connection to addr and returns an unauthenticated
// session in the connected state.
func Dial(addr string, cfg transport.Config, log zerolog.Logger) (*Client, error) {
	conn, err := transport.Dial(addr, cfg, log)
	if err != nil {
		return nil, err
	}
	return New(conn, log), nil
}

// New wraps an established transport connection in a connected,
// unauthenticated session.
func New(conn *transport.Conn, log zerolog.Logger) *Client {
	return &Client{
		conn:    conn,
		log:     log,
		state:   StateConnected,
		videoIn: -1,
	}
}

// State reports the current lifecycle position.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns the device-issued token, zero before login.
func (c *Client) Session() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// AliveInterval is the keepalive period the device negotiated at login.
func (c *Client) AliveInterval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alive
}

// DeviceType is the device class string from the login reply.
func (c *Client) DeviceType() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deviceType
}

// Login authenticates the session. On device rejection or a malformed
// reply the session stays connected, so a caller may retry with other
// credentials on the same socket; only transport failure closes it.
func (c *Client) Login(username, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateClosed:
		return ErrClosed
	case StateAuthenticated:
		return ErrAlreadyLoggedIn
	}

	body, err := c.roundTrip(command.Login(username, password))
	if err != nil {
		return err
	}
	result, err := command.ParseLogin(body)
	if err != nil {
		return err
	}

	c.session = result.Session
	c.alive = result.AliveInterval
	c.channels = result.Channels
	c.deviceType = result.DeviceType
	c.state = StateAuthenticated
	c.log.Info().
		Str("session", protocol.FormatSession(result.Session)).
		Str("device_type", result.DeviceType).
		Int("channels", result.Channels).
		Msg("logged in")
	return nil
}

// SystemInfo queries device identity and capabilities.
func (c *Client) SystemInfo() (command.SystemInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	body, err := c.call(command.GetSystemInfo(c.session))
	if err != nil {
		return command.SystemInfo{}, err
	}
	info, err := command.ParseSystemInfo(body)
	if err != nil {
		return command.SystemInfo{}, err
	}
	c.videoIn = info.VideoIn
	return info, nil
}

// StorageInfo queries disks and their partitions.
func (c *Client) StorageInfo() ([]command.Disk, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	body, err := c.call(command.GetStorageInfo(c.session))
	if err != nil {
		return nil, err
	}
	return command.ParseStorageInfo(body)
}

// ActivityInfo queries live channel state and alarm triggers. Channel
// records are bounded by the video-in count from the last SystemInfo
// query, falling back to the channel count negotiated at login. When
// neither is known (the login reply omitted its channel count and no
// system query has run) the records are taken as sent.
func (c *Client) ActivityInfo() (command.ActivityInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bound := c.videoIn
	if bound < 0 {
		bound = c.channels
		if bound == 0 {
			bound = -1
		}
	}
	body, err := c.call(command.GetActivityInfo(c.session))
	if err != nil {
		return command.ActivityInfo{}, err
	}
	return command.ParseActivityInfo(body, bound)
}

// Time reads the device clock.
func (c *Client) Time() (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	body, err := c.call(command.GetTime(c.session))
	if err != nil {
		return time.Time{}, err
	}
	return command.ParseTime(body)
}

// SetTime writes the device clock and returns the applied value.
func (c *Client) SetTime(t time.Time) (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	applied := t.Truncate(time.Second)
	body, err := c.call(command.SetTime(c.session, t))
	if err != nil {
		return time.Time{}, err
	}
	if err := command.ParseAck(body, "OPTimeSetting"); err != nil {
		return time.Time{}, err
	}
	return applied, nil
}

// KeepAlive pings the device to hold an idle session open.
func (c *Client) KeepAlive() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	body, err := c.call(command.KeepAlive(c.session))
	if err != nil {
		return err
	}
	return command.ParseAck(body, "KeepAlive")
}

// Reboot asks the device to restart. Fire-and-forget: the device is free
// to drop the connection before replying, so no reply is awaited and the
// session closes once the request is on the wire.
func (c *Client) Reboot() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateClosed:
		return ErrClosed
	case StateConnected, StateDisconnected:
		return ErrNotAuthenticated
	}

	req := command.Reboot(c.session)
	seq := c.nextSeq()
	err := c.conn.Send(protocol.Frame{
		Header: protocol.Header{
			Session:  c.session,
			Sequence: seq,
			Command:  req.Code,
		},
		Body: req.Body,
	})
	c.state = StateClosed
	_ = c.conn.Close()
	if err != nil {
		return err
	}
	c.log.Info().Msg("reboot requested")
	return nil
}

// Logout tears the session down. Device-side or decode failures of the
// logout exchange are logged and suppressed; the socket is always
// released. Repeated calls are no-ops.
func (c *Client) Logout() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed {
		return nil
	}
	if c.state == StateAuthenticated {
		body, err := c.roundTrip(command.Logout(c.session))
		if err == nil {
			err = command.ParseAck(body, "")
		}
		if err != nil {
			c.log.Warn().Err(err).Msg("logout exchange failed")
		}
	}
	c.state = StateClosed
	_ = c.conn.Close()
	c.log.Debug().Msg("session closed")
	return nil
}

// Close releases the socket without a logout exchange. Idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateClosed
	return c.conn.Close()
}

// call runs one authenticated request/reply exchange. Callers hold c.mu.
func (c *Client) call(req command.Request) ([]byte, error) {
	switch c.state {
	case StateClosed:
		return nil, ErrClosed
	case StateConnected, StateDisconnected:
		return nil, ErrNotAuthenticated
	}
	return c.roundTrip(req)
}

// roundTrip frames and sends req, then blocks for the matching reply.
// Exactly one sequence number is consumed per attempt. A transport
// failure in either direction leaves the session closed; decode and
// request failures leave it usable.
func (c *Client) roundTrip(req command.Request) ([]byte, error) {
	seq := c.nextSeq()
	err := c.conn.Send(protocol.Frame{
		Header: protocol.Header{
			Session:  c.session,
			Sequence: seq,
			Command:  req.Code,
		},
		Body: req.Body,
	})
	if err != nil {
		c.fail(err)
		return nil, err
	}

	rsp, err := c.conn.Recv()
	if err != nil {
		if errors.Is(err, transport.ErrConnection) {
			c.fail(err)
		}
		return nil, err
	}
	if rsp.Header.Command != req.Reply {
		return nil, fmt.Errorf("%w: reply command %d, want %d",
			protocol.ErrDecode, rsp.Header.Command, req.Reply)
	}
	return rsp.Body, nil
}

func (c *Client) nextSeq() uint32 {
	seq := c.seq
	c.seq++
	return seq
}

// fail marks the session unusable after a transport-level error. Further
// calls fail immediately without touching the network.
func (c *Client) fail(err error) {
	c.state = StateClosed
	_ = c.conn.Close()
	c.log.Debug().Err(err).Msg("session failed")
}
