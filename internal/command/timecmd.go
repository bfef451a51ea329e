package command

import (
	"fmt"
	"time"

	"github.com/danmuck/dvrctl/internal/protocol"
)

// GetTime builds the clock read request.
func GetTime(session uint32) Request {
	body := marshalBody(struct {
		Name      string `json:"Name"`
		SessionID string `json:"SessionID"`
	}{
		Name:      "OPTimeQuery",
		SessionID: protocol.FormatSession(session),
	})
	return Request{Code: protocol.TimeReq, Reply: protocol.TimeRsp, Body: body}
}

// ParseTime decodes the clock read reply. The clock is timezone-naive;
// the result carries whatever wall time the device believes, in UTC
// location for lack of a better one.
func ParseTime(body []byte) (time.Time, error) {
	if _, err := checkReply(body, "OPTimeQuery"); err != nil {
		return time.Time{}, err
	}
	var payload struct {
		OPTimeQuery *Timestamp `json:"OPTimeQuery"`
	}
	if err := unmarshalPayload(body, &payload); err != nil {
		return time.Time{}, err
	}
	if payload.OPTimeQuery == nil {
		return time.Time{}, fmt.Errorf("%w: time reply missing OPTimeQuery", protocol.ErrDecode)
	}
	return payload.OPTimeQuery.Time, nil
}

// SetTime builds the clock write request. The timestamp is truncated to
// the protocol's second resolution.
func SetTime(session uint32, t time.Time) Request {
	body := marshalBody(struct {
		Name          string    `json:"Name"`
		SessionID     string    `json:"SessionID"`
		OPTimeSetting Timestamp `json:"OPTimeSetting"`
	}{
		Name:          "OPTimeSetting",
		SessionID:     protocol.FormatSession(session),
		OPTimeSetting: Timestamp{Time: t.Truncate(time.Second)},
	})
	return Request{Code: protocol.ManagerReq, Reply: protocol.ManagerRsp, Body: body}
}
