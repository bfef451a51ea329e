package protocol

import (
	"encoding/binary"
	"io"
)

// DecodeHeader parses and validates the fixed header. Marker or version
// violations are decode errors; I/O concerns belong to the caller.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) != HeaderSize {
		return Header{}, ErrTruncated
	}
	if buf[0] != Magic {
		return Header{}, ErrInvalidMagic
	}
	if buf[1] != Version {
		return Header{}, ErrUnsupportedVersion
	}
	return Header{
		Session:  binary.LittleEndian.Uint32(buf[4:8]),
		Sequence: binary.LittleEndian.Uint32(buf[8:12]),
		Channel:  buf[12],
		EndFlag:  buf[13],
		Command:  binary.LittleEndian.Uint16(buf[14:16]),
		BodyLen:  binary.LittleEndian.Uint32(buf[16:20]),
	}, nil
}

// ReadFrame reads one complete frame from r, looping partial reads until
// the full header and declared body are in hand. A peer that closes
// mid-frame surfaces as the underlying I/O error, not a decode error.
func ReadFrame(r io.Reader, limits Limits) (Frame, error) {
	var fixed [HeaderSize]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return Frame{}, err
	}

	h, err := DecodeHeader(fixed[:])
	if err != nil {
		return Frame{}, err
	}
	if limits.MaxBodyBytes > 0 && h.BodyLen > limits.MaxBodyBytes {
		return Frame{}, ErrBodyTooLarge
	}

	body := make([]byte, h.BodyLen)
	if h.BodyLen > 0 {
		if _, err := io.ReadFull(r, body); err != nil {
			return Frame{}, err
		}
	}

	return Frame{Header: h, Body: body}, nil
}
