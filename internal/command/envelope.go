package command

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/danmuck/dvrctl/internal/protocol"
)

// envelope is the reply fields common to every command.
type envelope struct {
	Name      string  `json:"Name"`
	Ret       *uint32 `json:"Ret"`
	SessionID string  `json:"SessionID"`
}

// checkReply classifies a reply body. Malformed JSON or a missing Ret is
// a decode error; a well-formed body with a non-success Ret is a request
// error. The two are never conflated.
func checkReply(body []byte, name string) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope{}, fmt.Errorf("%w: reply body: %v", protocol.ErrDecode, err)
	}
	if env.Ret == nil {
		return envelope{}, fmt.Errorf("%w: reply missing Ret", protocol.ErrDecode)
	}
	if err := protocol.Status(*env.Ret).Err(); err != nil {
		return envelope{}, err
	}
	if name != "" && env.Name != name {
		return envelope{}, fmt.Errorf("%w: reply Name %q, want %q",
			protocol.ErrDecode, env.Name, name)
	}
	return env, nil
}

// ParseAck validates a bare acknowledgment reply carrying no payload of
// its own (logout, keepalive, set-time, machine operations).
func ParseAck(body []byte, name string) error {
	_, err := checkReply(body, name)
	return err
}

// unmarshalPayload decodes a reply payload, classifying any failure as a
// decode error without double-wrapping codec errors that already are one.
func unmarshalPayload(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		if errors.Is(err, protocol.ErrDecode) {
			return err
		}
		return fmt.Errorf("%w: reply payload: %v", protocol.ErrDecode, err)
	}
	return nil
}

func marshalBody(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		// catalog bodies are fixed shapes and always marshal
		panic(err)
	}
	return b
}
