package protocol

import "fmt"

const (
	Magic   uint8 = 0xFF
	Version uint8 = 0x01

	// HeaderSize is the fixed wire header length in bytes.
	HeaderSize = 20
)

// Command codes from the DVRIP contract. Requests are even-numbered
// conceptually; each request code has a fixed reply code.
const (
	LoginReq     uint16 = 1000
	LoginRsp     uint16 = 1001
	LogoutReq    uint16 = 1002
	LogoutRsp    uint16 = 1003
	KeepAliveReq uint16 = 1006
	KeepAliveRsp uint16 = 1007
	InfoReq      uint16 = 1020
	InfoRsp      uint16 = 1021
	ManagerReq   uint16 = 1450
	ManagerRsp   uint16 = 1451
	TimeReq      uint16 = 1452
	TimeRsp      uint16 = 1453
)

// Header is the fixed wire header.
type Header struct {
	Session  uint32
	Sequence uint32
	Channel  uint8
	EndFlag  uint8
	Command  uint16
	BodyLen  uint32
}

// Frame is one complete wire message.
type Frame struct {
	Header Header
	Body   []byte
}

// Limits constrains frame decode memory use.
type Limits struct {
	MaxBodyBytes uint32
}

func DefaultLimits() Limits {
	return Limits{MaxBodyBytes: 1024 * 1024}
}

// FormatSession renders a session token the way device firmware expects it
// inside JSON bodies.
func FormatSession(token uint32) string {
	return fmt.Sprintf("0x%08X", token)
}

// ParseSession parses a JSON-body session token ("0x%08X").
func ParseSession(s string) (uint32, error) {
	var token uint32
	if _, err := fmt.Sscanf(s, "0x%08X", &token); err != nil {
		return 0, fmt.Errorf("%w: bad session id %q", ErrDecode, s)
	}
	return token, nil
}
