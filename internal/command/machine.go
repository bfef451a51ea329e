package command

import "github.com/danmuck/dvrctl/internal/protocol"

// Reboot builds the machine restart request. The device is free to drop
// the connection before acknowledging; callers treat the reply as
// best-effort.
func Reboot(session uint32) Request {
	body := marshalBody(struct {
		Name      string `json:"Name"`
		SessionID string `json:"SessionID"`
		OPMachine struct {
			Action string `json:"Action"`
		} `json:"OPMachine"`
	}{
		Name:      "OPMachine",
		SessionID: protocol.FormatSession(session),
		OPMachine: struct {
			Action string `json:"Action"`
		}{Action: "Reboot"},
	})
	return Request{Code: protocol.ManagerReq, Reply: protocol.ManagerRsp, Body: body}
}
