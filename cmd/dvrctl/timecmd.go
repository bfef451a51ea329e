package main

import (
	"fmt"
	"time"
)

// timeLayouts are the clock formats accepted on the command line.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseClock(raw string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", raw)
}

func runTime(args []string) error {
	host := args[0]

	// Parse before dialing so a bad argument costs no connection.
	var setTo time.Time
	set := len(args) == 2
	if set {
		t, err := parseClock(args[1])
		if err != nil {
			return err
		}
		setTo = t
	}

	conn, err := connect(host)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Logout() }()

	clock := time.Time{}
	if set {
		clock, err = conn.SetTime(setTo)
	} else {
		clock, err = conn.Time()
	}
	if err != nil {
		return err
	}
	fmt.Println(clock.Format(isoLayout))
	return nil
}

func runKeepAlive(host string) error {
	conn, err := connect(host)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Logout() }()

	if err := conn.KeepAlive(); err != nil {
		return err
	}
	fmt.Printf("alive, keepalive period %s\n", conn.AliveInterval())
	return nil
}

func runReboot(host string) error {
	conn, err := connect(host)
	if err != nil {
		return err
	}
	// No logout: the device drops the session as it goes down.
	return conn.Reboot()
}
