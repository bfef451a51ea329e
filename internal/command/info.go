package command

import (
	"fmt"
	"time"

	"github.com/danmuck/dvrctl/internal/protocol"
)

func infoRequest(session uint32, name string) Request {
	body := marshalBody(struct {
		Name      string `json:"Name"`
		SessionID string `json:"SessionID"`
	}{
		Name:      name,
		SessionID: protocol.FormatSession(session),
	})
	return Request{Code: protocol.InfoReq, Reply: protocol.InfoRsp, Body: body}
}

// GetSystemInfo builds the identity/capability query.
func GetSystemInfo(session uint32) Request { return infoRequest(session, "SystemInfo") }

// GetStorageInfo builds the disk/partition query.
func GetStorageInfo(session uint32) Request { return infoRequest(session, "StorageInfo") }

// GetActivityInfo builds the live channel/trigger state query.
func GetActivityInfo(session uint32) Request { return infoRequest(session, "WorkState") }

type systemInfoBody struct {
	ChassisNo        string   `json:"ChassisNo"`
	BoardNo          string   `json:"BoardNo"`
	SerialNo         string   `json:"SerialNo"`
	HardWareVersion  string   `json:"HardWareVersion"`
	EEPROMVersion    string   `json:"EEPROMVersion"`
	SoftWareVersion  string   `json:"SoftWareVersion"`
	BuildTime        string   `json:"BuildTime"`
	VideoInChannel   *int     `json:"VideoInChannel"`
	VideoOutChannel  *int     `json:"VideoOutChannel"`
	AudioInChannel   *int     `json:"AudioInChannel"`
	TalkInChannel    *int     `json:"TalkInChannel"`
	TalkOutChannel   *int     `json:"TalkOutChannel"`
	AlarmInChannel   *int     `json:"AlarmInChannel"`
	AlarmOutChannel  *int     `json:"AlarmOutChannel"`
	VideoViewChannel *int     `json:"VideoViewChannel"`
	DeviceRunTime    *hexUint `json:"DeviceRunTime"`
}

// ParseSystemInfo decodes the SystemInfo reply. Identity and version
// strings may legitimately be empty; capability counts are required.
func ParseSystemInfo(body []byte) (SystemInfo, error) {
	if _, err := checkReply(body, "SystemInfo"); err != nil {
		return SystemInfo{}, err
	}
	var payload struct {
		SystemInfo *systemInfoBody `json:"SystemInfo"`
	}
	if err := unmarshalPayload(body, &payload); err != nil {
		return SystemInfo{}, err
	}
	si := payload.SystemInfo
	if si == nil {
		return SystemInfo{}, fmt.Errorf("%w: reply missing SystemInfo", protocol.ErrDecode)
	}
	counts := map[string]*int{
		"VideoInChannel":   si.VideoInChannel,
		"VideoOutChannel":  si.VideoOutChannel,
		"AudioInChannel":   si.AudioInChannel,
		"TalkInChannel":    si.TalkInChannel,
		"TalkOutChannel":   si.TalkOutChannel,
		"AlarmInChannel":   si.AlarmInChannel,
		"AlarmOutChannel":  si.AlarmOutChannel,
		"VideoViewChannel": si.VideoViewChannel,
	}
	for name, v := range counts {
		if v == nil {
			return SystemInfo{}, fmt.Errorf("%w: SystemInfo missing %s", protocol.ErrDecode, name)
		}
	}

	info := SystemInfo{
		Chassis:    si.ChassisNo,
		Board:      si.BoardNo,
		Serial:     si.SerialNo,
		Hardware:   si.HardWareVersion,
		EEPROM:     si.EEPROMVersion,
		Software:   si.SoftWareVersion,
		Build:      si.BuildTime,
		VideoIn:    *si.VideoInChannel,
		VideoOut:   *si.VideoOutChannel,
		AudioIn:    *si.AudioInChannel,
		CommIn:     *si.TalkInChannel,
		CommOut:    *si.TalkOutChannel,
		TriggerIn:  *si.AlarmInChannel,
		TriggerOut: *si.AlarmOutChannel,
		Views:      *si.VideoViewChannel,
	}
	if si.DeviceRunTime != nil {
		info.Uptime = time.Duration(*si.DeviceRunTime) * time.Minute
	}
	return info, nil
}

type partitionBody struct {
	IsCurrent    bool       `json:"IsCurrent"`
	TotalSpace   *hexUint   `json:"TotalSpace"`
	RemainSpace  *hexUint   `json:"RemainSpace"`
	OldStartTime *Timestamp `json:"OldStartTime"`
	OldEndTime   *Timestamp `json:"OldEndTime"`
	NewStartTime *Timestamp `json:"NewStartTime"`
	NewEndTime   *Timestamp `json:"NewEndTime"`
}

type diskBody struct {
	LogicSerialNo int             `json:"LogicSerialNo"`
	PartNumber    *int            `json:"PartNumber"`
	Partition     []partitionBody `json:"Partition"`
}

// ParseStorageInfo decodes the StorageInfo reply. Partition iteration is
// bounded by each disk's own PartNumber, never by the raw element count,
// so surplus records in a hostile body are dropped and a shortfall is a
// decode error.
func ParseStorageInfo(body []byte) ([]Disk, error) {
	if _, err := checkReply(body, "StorageInfo"); err != nil {
		return nil, err
	}
	var payload struct {
		StorageInfo *[]diskBody `json:"StorageInfo"`
	}
	if err := unmarshalPayload(body, &payload); err != nil {
		return nil, err
	}
	if payload.StorageInfo == nil {
		return nil, fmt.Errorf("%w: reply missing StorageInfo", protocol.ErrDecode)
	}

	disks := make([]Disk, 0, len(*payload.StorageInfo))
	for i, db := range *payload.StorageInfo {
		if db.PartNumber == nil {
			return nil, fmt.Errorf("%w: disk %d missing PartNumber", protocol.ErrDecode, i)
		}
		parts := *db.PartNumber
		if parts < 0 || parts > len(db.Partition) {
			return nil, fmt.Errorf("%w: disk %d reports %d partitions, body has %d",
				protocol.ErrDecode, i, parts, len(db.Partition))
		}
		disk := Disk{
			Number:     db.LogicSerialNo,
			Partitions: make([]Partition, 0, parts),
		}
		for _, pb := range db.Partition[:parts] {
			part, err := decodePartition(i, pb)
			if err != nil {
				return nil, err
			}
			disk.Partitions = append(disk.Partitions, part)
		}
		disks = append(disks, disk)
	}
	return disks, nil
}

func decodePartition(disk int, pb partitionBody) (Partition, error) {
	if pb.TotalSpace == nil || pb.RemainSpace == nil {
		return Partition{}, fmt.Errorf("%w: disk %d partition missing sizes", protocol.ErrDecode, disk)
	}
	part := Partition{
		Current: pb.IsCurrent,
		SizeMB:  uint32(*pb.TotalSpace),
		FreeMB:  uint32(*pb.RemainSpace),
	}
	stamps := []struct {
		name string
		src  *Timestamp
		dst  *Timestamp
	}{
		{"OldStartTime", pb.OldStartTime, &part.ViewedStart},
		{"OldEndTime", pb.OldEndTime, &part.ViewedEnd},
		{"NewStartTime", pb.NewStartTime, &part.UnviewedStart},
		{"NewEndTime", pb.NewEndTime, &part.UnviewedEnd},
	}
	for _, s := range stamps {
		if s.src == nil {
			return Partition{}, fmt.Errorf("%w: disk %d partition missing %s",
				protocol.ErrDecode, disk, s.name)
		}
		*s.dst = *s.src
	}
	return part, nil
}

type workStateBody struct {
	ChannelState []struct {
		Bitrate int  `json:"Bitrate"`
		Record  bool `json:"Record"`
	} `json:"ChannelState"`
	AlarmState struct {
		AlarmIn     hexUint `json:"AlarmIn"`
		AlarmOut    hexUint `json:"AlarmOut"`
		VideoBlind  hexUint `json:"VideoBlind"`
		VideoLoss   hexUint `json:"VideoLoss"`
		VideoMotion hexUint `json:"VideoMotion"`
	} `json:"AlarmState"`
}

// ParseActivityInfo decodes the WorkState reply. Channel iteration is
// bounded by maxChannels, the video-in count the device reported through
// SystemInfo or login; surplus channel records are dropped. All trigger
// counters are optional and default to idle.
func ParseActivityInfo(body []byte, maxChannels int) (ActivityInfo, error) {
	if _, err := checkReply(body, "WorkState"); err != nil {
		return ActivityInfo{}, err
	}
	var payload struct {
		WorkState *workStateBody `json:"WorkState"`
	}
	if err := unmarshalPayload(body, &payload); err != nil {
		return ActivityInfo{}, err
	}
	ws := payload.WorkState
	if ws == nil {
		return ActivityInfo{}, fmt.Errorf("%w: reply missing WorkState", protocol.ErrDecode)
	}

	n := len(ws.ChannelState)
	if maxChannels >= 0 && n > maxChannels {
		n = maxChannels
	}
	info := ActivityInfo{
		Channels: make([]ChannelActivity, 0, n),
		Triggers: Triggers{
			In:         uint32(ws.AlarmState.AlarmIn),
			Out:        uint32(ws.AlarmState.AlarmOut),
			Obscure:    uint32(ws.AlarmState.VideoBlind),
			Disconnect: uint32(ws.AlarmState.VideoLoss),
			Motion:     uint32(ws.AlarmState.VideoMotion),
		},
	}
	for _, ch := range ws.ChannelState[:n] {
		info.Channels = append(info.Channels, ChannelActivity{
			Bitrate:   ch.Bitrate,
			Recording: ch.Record,
		})
	}
	return info, nil
}
