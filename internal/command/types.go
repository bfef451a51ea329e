package command

import "time"

// Request is one outbound command: its code, the reply code the device
// answers it with, and the JSON body to frame.
type Request struct {
	Code  uint16
	Reply uint16
	Body  []byte
}

// LoginResult is the negotiated session summary from a successful login.
type LoginResult struct {
	Session       uint32
	AliveInterval time.Duration
	Channels      int
	DeviceType    string
}

// SystemInfo is the device identity and capability summary. Version
// strings may be empty, meaning the device does not report them.
type SystemInfo struct {
	Chassis string
	Board   string
	Serial  string

	Hardware string
	EEPROM   string
	Software string
	Build    string

	VideoIn    int
	VideoOut   int
	AudioIn    int
	CommIn     int
	CommOut    int
	TriggerIn  int
	TriggerOut int
	Views      int

	// Uptime is device-reported, at minute resolution.
	Uptime time.Duration
}

// Disk is one physical disk with its partitions. Partitions is bounded
// by the disk's own reported partition count, never by raw element count.
type Disk struct {
	Number     int
	Partitions []Partition
}

// Partition is one recording partition. Viewed* and Unviewed* delimit
// the already-viewed and not-yet-viewed recording ranges; a zero
// Timestamp means the boundary is unset.
type Partition struct {
	Current bool
	SizeMB  uint32
	FreeMB  uint32

	ViewedStart   Timestamp
	ViewedEnd     Timestamp
	UnviewedStart Timestamp
	UnviewedEnd   Timestamp
}

// ChannelActivity is the live state of one video channel.
type ChannelActivity struct {
	// Bitrate is in kilobytes per second.
	Bitrate   int
	Recording bool
}

// Triggers is the alarm counter set. A zero counter means the trigger is
// idle or not supported; firmware does not distinguish the two.
type Triggers struct {
	In         uint32
	Out        uint32
	Obscure    uint32
	Disconnect uint32
	Motion     uint32
}

// ActivityInfo is per-channel activity plus the alarm trigger counters.
type ActivityInfo struct {
	Channels []ChannelActivity
	Triggers Triggers
}
