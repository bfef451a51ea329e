// Package devicetest runs an in-process fake device speaking the DVRIP
// wire protocol, for session and scenario tests.
package devicetest

import (
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/danmuck/dvrctl/internal/auth"
	"github.com/danmuck/dvrctl/internal/protocol"
)

// Handler produces the reply frame for one request. Returning ok=false
// drops the connection without replying.
type Handler func(f protocol.Frame) (protocol.Frame, bool)

// Device is a scriptable fake recorder. The zero value is not usable;
// call New.
type Device struct {
	Username      string
	Password      string
	Token         uint32
	AliveInterval int
	Channels      int
	DeviceType    string

	// Payloads spliced into info replies, keyed by query name.
	Info map[string]json.RawMessage

	mu       sync.Mutex
	clock    time.Time
	seqs     []uint32
	handlers map[uint16]Handler
}

func New() *Device {
	return &Device{
		Username:      "admin",
		Password:      "x",
		Token:         0x2,
		AliveInterval: 21,
		Channels:      2,
		DeviceType:    "HVR",
		Info: map[string]json.RawMessage{
			"SystemInfo": json.RawMessage(`{
				"ChassisNo": "HVR7104", "BoardNo": "MBD7104X", "SerialNo": "6ba7b8149dad11d1",
				"HardWareVersion": "V1.0", "EEPROMVersion": "", "SoftWareVersion": "V4.02.R11",
				"BuildTime": "2019/04/09",
				"VideoInChannel": 2, "VideoOutChannel": 1, "AudioInChannel": 1,
				"TalkInChannel": 1, "TalkOutChannel": 1,
				"AlarmInChannel": 2, "AlarmOutChannel": 1, "VideoViewChannel": 1,
				"DeviceRunTime": "0x0000143B"
			}`),
			"StorageInfo": json.RawMessage(`[{
				"LogicSerialNo": 0, "PartNumber": 2,
				"Partition": [
					{"IsCurrent": false, "TotalSpace": "0x000003B7", "RemainSpace": "0x00000000",
					 "OldStartTime": "2023-10-01 00:00:00", "OldEndTime": "2023-11-15 08:30:00",
					 "NewStartTime": "2023-11-15 08:30:00", "NewEndTime": "2023-12-31 23:59:59"},
					{"IsCurrent": true, "TotalSpace": "0x000003B7", "RemainSpace": "0x000001D0",
					 "OldStartTime": "2000-00-00 00:00:00", "OldEndTime": "2000-00-00 00:00:00",
					 "NewStartTime": "2024-01-01 00:00:00", "NewEndTime": "2024-01-01 00:00:00"}
				]
			}]`),
			"WorkState": json.RawMessage(`{
				"ChannelState": [
					{"Bitrate": 4046, "Record": true},
					{"Bitrate": 0, "Record": false}
				],
				"AlarmState": {
					"AlarmIn": "0x00000000", "AlarmOut": "0x00000000",
					"VideoBlind": "0x00000000", "VideoLoss": "0x00000000",
					"VideoMotion": "0x00000001"
				}
			}`),
		},
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		handlers: map[uint16]Handler{},
	}
}

// Handle overrides the reply for one command code.
func (d *Device) Handle(code uint16, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[code] = h
}

// Sequences returns every request sequence number observed, in order.
func (d *Device) Sequences() []uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]uint32, len(d.seqs))
	copy(out, d.seqs)
	return out
}

// Clock returns the fake device clock.
func (d *Device) Clock() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clock
}

// Start listens on a loopback port and serves connections until the test
// ends. It returns the dialable address.
func (d *Device) Start(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("devicetest listen: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			go d.serve(conn)
		}
	}()
	return l.Addr().String()
}

func (d *Device) serve(conn net.Conn) {
	defer conn.Close()
	for {
		f, err := protocol.ReadFrame(conn, protocol.DefaultLimits())
		if err != nil {
			return
		}
		d.mu.Lock()
		d.seqs = append(d.seqs, f.Header.Sequence)
		h := d.handlers[f.Header.Command]
		d.mu.Unlock()

		var rsp protocol.Frame
		ok := true
		if h != nil {
			rsp, ok = h(f)
		} else {
			rsp, ok = d.respond(f)
		}
		if !ok {
			return
		}
		if err := protocol.WriteFrame(conn, rsp); err != nil {
			return
		}
		if f.Header.Command == protocol.LogoutReq {
			return
		}
	}
}

// Reply frames a JSON body as the echo of request f.
func Reply(f protocol.Frame, reply uint16, body []byte) protocol.Frame {
	return protocol.Frame{
		Header: protocol.Header{
			Session:  f.Header.Session,
			Sequence: f.Header.Sequence,
			Command:  reply,
		},
		Body: body,
	}
}

func (d *Device) respond(f protocol.Frame) (protocol.Frame, bool) {
	switch f.Header.Command {
	case protocol.LoginReq:
		return d.login(f)
	case protocol.LogoutReq:
		return Reply(f, protocol.LogoutRsp, d.envelope("", nil)), true
	case protocol.KeepAliveReq:
		return Reply(f, protocol.KeepAliveRsp, d.envelope("KeepAlive", nil)), true
	case protocol.InfoReq:
		return d.info(f)
	case protocol.TimeReq:
		d.mu.Lock()
		clock := d.clock
		d.mu.Unlock()
		body := d.envelope("OPTimeQuery", map[string]any{
			"OPTimeQuery": clock.Format("2006-01-02 15:04:05"),
		})
		return Reply(f, protocol.TimeRsp, body), true
	case protocol.ManagerReq:
		return d.manager(f)
	default:
		return Reply(f, f.Header.Command+1, d.ret(protocol.StatusIllegal, "")), true
	}
}

func (d *Device) login(f protocol.Frame) (protocol.Frame, bool) {
	var req struct {
		UserName string `json:"UserName"`
		PassWord string `json:"PassWord"`
	}
	if err := json.Unmarshal(f.Body, &req); err != nil {
		return Reply(f, protocol.LoginRsp, d.ret(protocol.StatusIllegal, "")), true
	}
	if req.UserName != d.Username || req.PassWord != auth.Digest(d.Password) {
		return Reply(f, protocol.LoginRsp, d.ret(protocol.StatusBadCredentials, "")), true
	}
	body, _ := json.Marshal(map[string]any{
		"Ret":           uint32(protocol.StatusOK),
		"SessionID":     protocol.FormatSession(d.Token),
		"AliveInterval": d.AliveInterval,
		"ChannelNum":    d.Channels,
		"DeviceType":    d.DeviceType,
	})
	return Reply(f, protocol.LoginRsp, body), true
}

func (d *Device) info(f protocol.Frame) (protocol.Frame, bool) {
	var req struct {
		Name string `json:"Name"`
	}
	if err := json.Unmarshal(f.Body, &req); err != nil {
		return Reply(f, protocol.InfoRsp, d.ret(protocol.StatusIllegal, "")), true
	}
	payload, ok := d.Info[req.Name]
	if !ok {
		return Reply(f, protocol.InfoRsp, d.ret(protocol.StatusIllegal, req.Name)), true
	}
	body := d.envelope(req.Name, map[string]any{req.Name: payload})
	return Reply(f, protocol.InfoRsp, body), true
}

func (d *Device) manager(f protocol.Frame) (protocol.Frame, bool) {
	var req struct {
		Name          string  `json:"Name"`
		OPTimeSetting *string `json:"OPTimeSetting"`
	}
	if err := json.Unmarshal(f.Body, &req); err != nil {
		return Reply(f, protocol.ManagerRsp, d.ret(protocol.StatusIllegal, "")), true
	}
	switch req.Name {
	case "OPTimeSetting":
		if req.OPTimeSetting == nil {
			return Reply(f, protocol.ManagerRsp, d.ret(protocol.StatusIllegal, req.Name)), true
		}
		clock, err := time.Parse("2006-01-02 15:04:05", *req.OPTimeSetting)
		if err != nil {
			return Reply(f, protocol.ManagerRsp, d.ret(protocol.StatusIllegal, req.Name)), true
		}
		d.mu.Lock()
		d.clock = clock
		d.mu.Unlock()
		return Reply(f, protocol.ManagerRsp, d.envelope("OPTimeSetting", nil)), true
	case "OPMachine":
		// real hardware drops the connection while rebooting
		return protocol.Frame{}, false
	default:
		return Reply(f, protocol.ManagerRsp, d.ret(protocol.StatusIllegal, req.Name)), true
	}
}

func (d *Device) envelope(name string, extra map[string]any) []byte {
	m := map[string]any{
		"Name":      name,
		"Ret":       uint32(protocol.StatusOK),
		"SessionID": protocol.FormatSession(d.Token),
	}
	for k, v := range extra {
		m[k] = v
	}
	body, err := json.Marshal(m)
	if err != nil {
		panic(fmt.Sprintf("devicetest: envelope: %v", err))
	}
	return body
}

func (d *Device) ret(status protocol.Status, name string) []byte {
	body, _ := json.Marshal(map[string]any{
		"Name":      name,
		"Ret":       uint32(status),
		"SessionID": protocol.FormatSession(d.Token),
	})
	return body
}
