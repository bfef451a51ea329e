package command

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/danmuck/dvrctl/internal/protocol"
)

// TimeLayout is the timezone-naive clock format used in reply bodies.
const TimeLayout = "2006-01-02 15:04:05"

// unsetTime is the firmware sentinel for "no such timestamp".
const unsetTime = "2000-00-00 00:00:00"

// Timestamp is a device clock value. The zero value round-trips as the
// firmware's unset sentinel.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(strconv.Quote(unsetTime)), nil
	}
	return []byte(strconv.Quote(t.Format(TimeLayout))), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("%w: timestamp %s", protocol.ErrDecode, b)
	}
	if s == unsetTime {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(TimeLayout, s)
	if err != nil {
		return fmt.Errorf("%w: timestamp %q", protocol.ErrDecode, s)
	}
	t.Time = parsed
	return nil
}

// hexUint is a numeric field that firmware renders as "0x%08X". Plain
// JSON numbers are accepted too; some builds emit either form.
type hexUint uint32

func (h hexUint) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(fmt.Sprintf("0x%08X", uint32(h)))), nil
}

func (h *hexUint) UnmarshalJSON(b []byte) error {
	s := string(b)
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("%w: hex number %s", protocol.ErrDecode, b)
		}
		v, err := strconv.ParseUint(strings.TrimPrefix(unquoted, "0x"), 16, 32)
		if err != nil {
			return fmt.Errorf("%w: hex number %q", protocol.ErrDecode, unquoted)
		}
		*h = hexUint(v)
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return fmt.Errorf("%w: number %s", protocol.ErrDecode, b)
	}
	*h = hexUint(v)
	return nil
}
