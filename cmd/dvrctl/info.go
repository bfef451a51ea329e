package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/danmuck/dvrctl/internal/command"
)

const isoLayout = "2006-01-02T15:04:05"

func runInfo(host string) error {
	conn, err := connect(host)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Logout() }()

	info, err := conn.SystemInfo()
	if err != nil {
		return err
	}
	fmt.Println(systemLine(info))

	disks, err := conn.StorageInfo()
	if err != nil {
		return err
	}
	for _, disk := range disks {
		fmt.Printf("disk %d\n", disk.Number)
		for i, part := range disk.Partitions {
			fmt.Println(partLine(i, part))
		}
	}

	actv, err := conn.ActivityInfo()
	if err != nil {
		return err
	}
	for i, ch := range actv.Channels {
		line := fmt.Sprintf("channel %d bitrate %dK/s", i, ch.Bitrate)
		if ch.Recording {
			line += " recording"
		}
		fmt.Println(line)
	}

	clock, err := conn.Time()
	if err != nil {
		return err
	}
	fmt.Println(statusLine(clock, info.Uptime, actv.Triggers))
	return nil
}

func systemLine(info command.SystemInfo) string {
	line := []string{info.Chassis, info.Board, info.Serial}
	attrs := []struct {
		name  string
		value string
	}{
		{"hardware", info.Hardware},
		{"eeprom", info.EEPROM},
		{"software", info.Software},
		{"build", info.Build},
		{"videoin", countAttr(info.VideoIn)},
		{"videoout", countAttr(info.VideoOut)},
		{"commin", countAttr(info.CommIn)},
		{"commout", countAttr(info.CommOut)},
		{"triggerin", countAttr(info.TriggerIn)},
		{"triggerout", countAttr(info.TriggerOut)},
		{"audioin", countAttr(info.AudioIn)},
		{"views", countAttr(info.Views)},
	}
	for _, attr := range attrs {
		if attr.value != "" {
			line = append(line, attr.name, attr.value)
		}
	}
	return strings.Join(line, " ")
}

func countAttr(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}

func partLine(i int, part command.Partition) string {
	line := []string{fmt.Sprintf("  part %d", i)}
	if part.Current {
		line = append(line, "current")
	}
	line = append(line, fmt.Sprintf("size %dM free %dM", part.SizeMB, part.FreeMB))
	stamps := []struct {
		name string
		at   command.Timestamp
	}{
		{"viewedstart", part.ViewedStart},
		{"viewedend", part.ViewedEnd},
		{"unviewedstart", part.UnviewedStart},
		{"unviewedend", part.UnviewedEnd},
	}
	for _, s := range stamps {
		line = append(line, s.name, stampAttr(s.at))
	}
	return strings.Join(line, " ")
}

func stampAttr(at command.Timestamp) string {
	if at.IsZero() {
		return "-"
	}
	return at.Format(isoLayout)
}

func statusLine(clock time.Time, uptime time.Duration, triggers command.Triggers) string {
	line := []string{clock.Format(isoLayout), "up " + uptimeAttr(uptime), "triggers"}
	attrs := []struct {
		name  string
		value uint32
	}{
		{"in", triggers.In},
		{"out", triggers.Out},
		{"obscure", triggers.Obscure},
		{"disconnect", triggers.Disconnect},
		{"motion", triggers.Motion},
	}
	active := false
	for _, attr := range attrs {
		if attr.value != 0 {
			line = append(line, attr.name, fmt.Sprintf("%d", attr.value))
			active = true
		}
	}
	if !active {
		line = append(line, "none")
	}
	return strings.Join(line, " ")
}

func uptimeAttr(uptime time.Duration) string {
	minutes := int64(uptime / time.Minute)
	hours, minutes := minutes/60, minutes%60
	days, hours := hours/24, hours%24
	if days > 0 {
		return fmt.Sprintf("P%ddT%02dh%02dm", days, hours, minutes)
	}
	return fmt.Sprintf("PT%dh%02dm", hours, minutes)
}
