package protocol

import (
	"encoding/binary"
	"io"
)

// EncodeHeader serializes the fixed header. Multi-byte fields are
// little-endian per the device firmware.
func EncodeHeader(h Header) []byte {
	buf := make([]byte, HeaderSize)
	buf[0] = Magic
	buf[1] = Version
	// buf[2:4] reserved
	binary.LittleEndian.PutUint32(buf[4:8], h.Session)
	binary.LittleEndian.PutUint32(buf[8:12], h.Sequence)
	buf[12] = h.Channel
	buf[13] = h.EndFlag
	binary.LittleEndian.PutUint16(buf[14:16], h.Command)
	binary.LittleEndian.PutUint32(buf[16:20], h.BodyLen)
	return buf
}

// WriteFrame writes one complete frame to w. The header's BodyLen is
// always taken from the actual body.
func WriteFrame(w io.Writer, f Frame) error {
	h := f.Header
	h.BodyLen = uint32(len(f.Body))
	if _, err := w.Write(EncodeHeader(h)); err != nil {
		return err
	}
	if len(f.Body) == 0 {
		return nil
	}
	_, err := w.Write(f.Body)
	return err
}
