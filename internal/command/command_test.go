package command

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/danmuck/dvrctl/internal/auth"
	"github.com/danmuck/dvrctl/internal/protocol"
)

func TestLoginRequestBody(t *testing.T) {
	req := Login("admin", "x")
	if req.Code != protocol.LoginReq || req.Reply != protocol.LoginRsp {
		t.Fatalf("codes: got %d/%d", req.Code, req.Reply)
	}

	var body struct {
		EncryptType string `json:"EncryptType"`
		LoginType   string `json:"LoginType"`
		UserName    string `json:"UserName"`
		PassWord    string `json:"PassWord"`
	}
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("body: %v", err)
	}
	if body.EncryptType != "MD5" || body.LoginType != "DVRIP-Web" {
		t.Fatalf("scheme fields: %+v", body)
	}
	if body.UserName != "admin" {
		t.Fatalf("username: got %q", body.UserName)
	}
	if body.PassWord != auth.Digest("x") {
		t.Fatalf("password must cross the wire as digest, got %q", body.PassWord)
	}
}

func TestParseLoginSuccess(t *testing.T) {
	body := []byte(`{"AliveInterval":21,"ChannelNum":4,"DeviceType":"HVR",` +
		`"Ret":100,"SessionID":"0x00000002"}`)
	res, err := ParseLogin(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if res.Session != 0x2 {
		t.Fatalf("session: got %#x", res.Session)
	}
	if res.AliveInterval != 21*time.Second {
		t.Fatalf("alive interval: got %v", res.AliveInterval)
	}
	if res.Channels != 4 || res.DeviceType != "HVR" {
		t.Fatalf("capabilities: %+v", res)
	}
}

func TestParseLoginRejected(t *testing.T) {
	body := []byte(`{"Ret":106,"SessionID":"0x00000000"}`)
	_, err := ParseLogin(body)
	if !errors.Is(err, protocol.ErrRequest) {
		t.Fatalf("expected request error, got %v", err)
	}
	var reqErr *protocol.RequestError
	if !errors.As(err, &reqErr) || reqErr.Code != protocol.StatusBadCredentials {
		t.Fatalf("expected status 106, got %v", err)
	}
}

func TestParseLoginMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":          `{"Ret":100`,
		"missing Ret":       `{"SessionID":"0x00000002"}`,
		"missing SessionID": `{"Ret":100,"AliveInterval":21}`,
		"bad SessionID":     `{"Ret":100,"SessionID":"two"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLogin([]byte(body))
			if !errors.Is(err, protocol.ErrDecode) {
				t.Fatalf("expected decode error, got %v", err)
			}
			if errors.Is(err, protocol.ErrRequest) {
				t.Fatalf("decode failure must not classify as request error")
			}
		})
	}
}

func TestParseLoginDefaultsAliveInterval(t *testing.T) {
	body := []byte(`{"Ret":100,"SessionID":"0x00000002"}`)
	res, err := ParseLogin(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if res.AliveInterval != defaultAliveInterval {
		t.Fatalf("alive interval: got %v want %v", res.AliveInterval, defaultAliveInterval)
	}
}

func TestParseAckClassification(t *testing.T) {
	if err := ParseAck([]byte(`{"Name":"KeepAlive","Ret":100}`), "KeepAlive"); err != nil {
		t.Fatalf("ack: %v", err)
	}
	err := ParseAck([]byte(`{"Name":"KeepAlive","Ret":105}`), "KeepAlive")
	if !errors.Is(err, protocol.ErrRequest) {
		t.Fatalf("expected request error, got %v", err)
	}
	err = ParseAck([]byte(`{"Name":"Wrong","Ret":100}`), "KeepAlive")
	if !errors.Is(err, protocol.ErrDecode) {
		t.Fatalf("expected decode error for name mismatch, got %v", err)
	}
}

func TestParseTime(t *testing.T) {
	body := []byte(`{"Name":"OPTimeQuery","Ret":100,"SessionID":"0x00000002",` +
		`"OPTimeQuery":"2024-01-01 00:00:00"}`)
	got, err := ParseTime(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("clock: got %v want %v", got, want)
	}
}

func TestParseTimeMissingPayload(t *testing.T) {
	body := []byte(`{"Name":"OPTimeQuery","Ret":100,"SessionID":"0x00000002"}`)
	if _, err := ParseTime(body); !errors.Is(err, protocol.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestSetTimeBody(t *testing.T) {
	at := time.Date(2024, 6, 15, 12, 30, 45, 999, time.UTC)
	req := SetTime(0x2, at)
	if req.Code != protocol.ManagerReq {
		t.Fatalf("code: got %d", req.Code)
	}
	var body struct {
		Name          string `json:"Name"`
		OPTimeSetting string `json:"OPTimeSetting"`
	}
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("body: %v", err)
	}
	if body.Name != "OPTimeSetting" {
		t.Fatalf("name: got %q", body.Name)
	}
	if body.OPTimeSetting != "2024-06-15 12:30:45" {
		t.Fatalf("timestamp: got %q", body.OPTimeSetting)
	}
}

func TestTimestampUnsetSentinel(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"2000-00-00 00:00:00"`), &ts); err != nil {
		t.Fatalf("unset sentinel: %v", err)
	}
	if !ts.IsZero() {
		t.Fatalf("sentinel must decode to zero time, got %v", ts)
	}
	out, err := json.Marshal(Timestamp{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2000-00-00 00:00:00"` {
		t.Fatalf("zero time must encode as sentinel, got %s", out)
	}
}

func TestTimestampMalformed(t *testing.T) {
	var ts Timestamp
	err := json.Unmarshal([]byte(`"yesterday"`), &ts)
	if !errors.Is(err, protocol.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestHexUintForms(t *testing.T) {
	var v struct {
		N hexUint `json:"N"`
	}
	if err := json.Unmarshal([]byte(`{"N":"0x0000143B"}`), &v); err != nil {
		t.Fatalf("hex string: %v", err)
	}
	if v.N != 0x143B {
		t.Fatalf("hex string: got %#x", uint32(v.N))
	}
	if err := json.Unmarshal([]byte(`{"N":951}`), &v); err != nil {
		t.Fatalf("plain number: %v", err)
	}
	if v.N != 951 {
		t.Fatalf("plain number: got %d", uint32(v.N))
	}
	if err := json.Unmarshal([]byte(`{"N":"0xZZ"}`), &v); err == nil {
		t.Fatalf("expected error for malformed hex")
	}
}
