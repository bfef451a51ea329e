package main

import (
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/danmuck/dvrctl/internal/command"
	"github.com/danmuck/dvrctl/internal/protocol"
	"github.com/danmuck/dvrctl/internal/transport"
)

func stamp(s string) command.Timestamp {
	t, err := time.Parse(command.TimeLayout, s)
	if err != nil {
		panic(err)
	}
	return command.Timestamp{Time: t}
}

func TestSystemLineSkipsEmptyAttrs(t *testing.T) {
	info := command.SystemInfo{
		Chassis:  "HVR",
		Board:    "MBD6304T",
		Serial:   "a1b2c3d4e5f6a7b8",
		Software: "V4.02.R11",
		VideoIn:  4,
	}
	got := systemLine(info)
	want := "HVR MBD6304T a1b2c3d4e5f6a7b8 software V4.02.R11 videoin 4"
	if got != want {
		t.Fatalf("systemLine = %q, want %q", got, want)
	}
}

func TestPartLine(t *testing.T) {
	part := command.Partition{
		Current:     true,
		SizeMB:      953,
		FreeMB:      120,
		ViewedStart: stamp("2023-11-02 08:00:00"),
		ViewedEnd:   stamp("2023-12-01 20:15:00"),
	}
	got := partLine(1, part)
	want := "  part 1 current size 953M free 120M" +
		" viewedstart 2023-11-02T08:00:00 viewedend 2023-12-01T20:15:00" +
		" unviewedstart - unviewedend -"
	if got != want {
		t.Fatalf("partLine = %q, want %q", got, want)
	}
}

func TestStatusLine(t *testing.T) {
	clock := time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC)
	uptime := 26*time.Hour + 5*time.Minute

	got := statusLine(clock, uptime, command.Triggers{Motion: 1})
	want := "2024-01-01T12:30:00 up P1dT02h05m triggers motion 1"
	if got != want {
		t.Fatalf("statusLine = %q, want %q", got, want)
	}

	got = statusLine(clock, 90*time.Minute, command.Triggers{})
	want = "2024-01-01T12:30:00 up PT1h30m triggers none"
	if got != want {
		t.Fatalf("statusLine = %q, want %q", got, want)
	}
}

func TestParseClock(t *testing.T) {
	want := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{"2024-03-09 00:00:00", "2024-03-09T00:00:00", "2024-03-09"} {
		got, err := parseClock(raw)
		if err != nil {
			t.Fatalf("parseClock(%q): %v", raw, err)
		}
		if !got.Equal(want) {
			t.Fatalf("parseClock(%q) = %v, want %v", raw, got, want)
		}
	}
	if _, err := parseClock("yesterday"); err == nil {
		t.Fatal("expected error for unparseable clock")
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&protocol.RequestError{Code: protocol.StatusBadCredentials}, exitRequest},
		{fmt.Errorf("reply: %w", protocol.ErrInvalidMagic), exitProtocol},
		{&ioError{err: errors.New("read tty")}, exitIO},
		{&net.DNSError{Name: "nvr.invalid", IsNotFound: true}, exitNoHost},
		{&net.AddrError{Err: "unknown port", Addr: "tcp/nosuchservice"}, exitNoHost},
		{&transport.ConnError{Op: "recv", Err: errors.New("broken pipe")}, exitIO},
		{errors.New("bad flag"), exitUsage},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Fatalf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
