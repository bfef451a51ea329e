package command

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/dvrctl/internal/protocol"
)

const systemInfoReply = `{
	"Name": "SystemInfo", "Ret": 100, "SessionID": "0x00000002",
	"SystemInfo": {
		"ChassisNo": "HVR7104", "BoardNo": "MBD7104X", "SerialNo": "6ba7b8149dad11d1",
		"HardWareVersion": "V1.0", "EEPROMVersion": "", "SoftWareVersion": "V4.02.R11",
		"BuildTime": "2019/04/09",
		"VideoInChannel": 4, "VideoOutChannel": 1, "AudioInChannel": 1,
		"TalkInChannel": 1, "TalkOutChannel": 1,
		"AlarmInChannel": 2, "AlarmOutChannel": 1, "VideoViewChannel": 1,
		"DeviceRunTime": "0x0000143B"
	}
}`

func TestParseSystemInfo(t *testing.T) {
	info, err := ParseSystemInfo([]byte(systemInfoReply))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if info.Chassis != "HVR7104" || info.Board != "MBD7104X" || info.Serial != "6ba7b8149dad11d1" {
		t.Fatalf("identity: %+v", info)
	}
	if info.EEPROM != "" {
		t.Fatalf("empty version string must stay empty, got %q", info.EEPROM)
	}
	if info.VideoIn != 4 || info.TriggerIn != 2 || info.Views != 1 {
		t.Fatalf("counts: %+v", info)
	}
	if info.Uptime != 0x143B*time.Minute {
		t.Fatalf("uptime: got %v", info.Uptime)
	}
}

func TestParseSystemInfoMissingCount(t *testing.T) {
	body := strings.Replace(systemInfoReply, `"VideoInChannel": 4,`, ``, 1)
	_, err := ParseSystemInfo([]byte(body))
	if !errors.Is(err, protocol.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestParseSystemInfoMissingPayload(t *testing.T) {
	body := `{"Name":"SystemInfo","Ret":100,"SessionID":"0x00000002"}`
	_, err := ParseSystemInfo([]byte(body))
	if !errors.Is(err, protocol.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func storageReply(partNumber, records int) string {
	parts := make([]string, 0, records)
	for i := 0; i < records; i++ {
		parts = append(parts, fmt.Sprintf(`{
			"IsCurrent": %t, "TotalSpace": "0x000003B7", "RemainSpace": "0x%08X",
			"OldStartTime": "2023-10-01 00:00:00", "OldEndTime": "2023-11-15 08:30:00",
			"NewStartTime": "2023-11-15 08:30:00", "NewEndTime": "2000-00-00 00:00:00"
		}`, i == 0, i))
	}
	return fmt.Sprintf(`{
		"Name": "StorageInfo", "Ret": 100, "SessionID": "0x00000002",
		"StorageInfo": [{"LogicSerialNo": 0, "PartNumber": %d, "Partition": [%s]}]
	}`, partNumber, strings.Join(parts, ","))
}

func TestParseStorageInfo(t *testing.T) {
	disks, err := ParseStorageInfo([]byte(storageReply(2, 2)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(disks) != 1 || disks[0].Number != 0 {
		t.Fatalf("disks: %+v", disks)
	}
	parts := disks[0].Partitions
	if len(parts) != 2 {
		t.Fatalf("partitions: got %d want 2", len(parts))
	}
	if !parts[0].Current || parts[1].Current {
		t.Fatalf("current flags: %+v", parts)
	}
	if parts[0].SizeMB != 0x3B7 || parts[1].FreeMB != 1 {
		t.Fatalf("sizes: %+v", parts)
	}
	if parts[0].ViewedStart.IsZero() {
		t.Fatalf("viewed start must be set")
	}
	if !parts[0].UnviewedEnd.IsZero() {
		t.Fatalf("sentinel timestamp must decode to zero time")
	}
}

func TestParseStorageInfoBoundsByPartNumber(t *testing.T) {
	// disk reports 3 partitions, body carries 5: decode exactly 3
	disks, err := ParseStorageInfo([]byte(storageReply(3, 5)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := len(disks[0].Partitions); got != 3 {
		t.Fatalf("partitions: got %d want 3", got)
	}
}

func TestParseStorageInfoShortfall(t *testing.T) {
	// disk claims more partitions than the body carries
	_, err := ParseStorageInfo([]byte(storageReply(4, 2)))
	if !errors.Is(err, protocol.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestParseStorageInfoRejected(t *testing.T) {
	body := `{"Name":"StorageInfo","Ret":103,"SessionID":"0x00000002"}`
	_, err := ParseStorageInfo([]byte(body))
	if !errors.Is(err, protocol.ErrRequest) {
		t.Fatalf("expected request error, got %v", err)
	}
}

const workStateReply = `{
	"Name": "WorkState", "Ret": 100, "SessionID": "0x00000002",
	"WorkState": {
		"ChannelState": [
			{"Bitrate": 4046, "Record": true},
			{"Bitrate": 1024, "Record": false},
			{"Bitrate": 0, "Record": false}
		],
		"AlarmState": {"AlarmIn": "0x00000002", "VideoMotion": "0x00000001"}
	}
}`

func TestParseActivityInfo(t *testing.T) {
	info, err := ParseActivityInfo([]byte(workStateReply), 4)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(info.Channels) != 3 {
		t.Fatalf("channels: got %d want 3", len(info.Channels))
	}
	if info.Channels[0].Bitrate != 4046 || !info.Channels[0].Recording {
		t.Fatalf("channel 0: %+v", info.Channels[0])
	}
	if info.Triggers.In != 2 || info.Triggers.Motion != 1 {
		t.Fatalf("triggers: %+v", info.Triggers)
	}
	// absent counters default to idle
	if info.Triggers.Out != 0 || info.Triggers.Obscure != 0 || info.Triggers.Disconnect != 0 {
		t.Fatalf("absent triggers must stay zero: %+v", info.Triggers)
	}
}

func TestParseActivityInfoBoundsChannels(t *testing.T) {
	info, err := ParseActivityInfo([]byte(workStateReply), 2)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := len(info.Channels); got != 2 {
		t.Fatalf("channels: got %d want 2", got)
	}
}
