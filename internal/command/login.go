package command

import (
	"fmt"
	"time"

	"github.com/danmuck/dvrctl/internal/auth"
	"github.com/danmuck/dvrctl/internal/protocol"
)

// defaultAliveInterval applies when a device omits the keepalive hint.
const defaultAliveInterval = 20 * time.Second

// Login builds the authentication request. The password is never sent;
// only its digest crosses the wire.
func Login(username, password string) Request {
	body := marshalBody(struct {
		EncryptType string `json:"EncryptType"`
		LoginType   string `json:"LoginType"`
		UserName    string `json:"UserName"`
		PassWord    string `json:"PassWord"`
	}{
		EncryptType: "MD5",
		LoginType:   "DVRIP-Web",
		UserName:    username,
		PassWord:    auth.Digest(password),
	})
	return Request{Code: protocol.LoginReq, Reply: protocol.LoginRsp, Body: body}
}

// ParseLogin decodes the login reply into the negotiated session summary.
// A rejection status (bad credentials, already logged in) surfaces as a
// request error; a token the body fails to carry is a decode error.
func ParseLogin(body []byte) (LoginResult, error) {
	env, err := checkReply(body, "")
	if err != nil {
		return LoginResult{}, err
	}
	if env.SessionID == "" {
		return LoginResult{}, fmt.Errorf("%w: login reply missing SessionID", protocol.ErrDecode)
	}
	token, err := protocol.ParseSession(env.SessionID)
	if err != nil {
		return LoginResult{}, err
	}

	var payload struct {
		AliveInterval int    `json:"AliveInterval"`
		ChannelNum    int    `json:"ChannelNum"`
		DeviceType    string `json:"DeviceType"`
	}
	if err := unmarshalPayload(body, &payload); err != nil {
		return LoginResult{}, err
	}

	result := LoginResult{
		Session:       token,
		AliveInterval: time.Duration(payload.AliveInterval) * time.Second,
		Channels:      payload.ChannelNum,
		DeviceType:    payload.DeviceType,
	}
	if result.AliveInterval <= 0 {
		result.AliveInterval = defaultAliveInterval
	}
	return result, nil
}

// Logout builds the session teardown request.
func Logout(session uint32) Request {
	body := marshalBody(struct {
		Name      string `json:"Name"`
		SessionID string `json:"SessionID"`
	}{
		SessionID: protocol.FormatSession(session),
	})
	return Request{Code: protocol.LogoutReq, Reply: protocol.LogoutRsp, Body: body}
}

// KeepAlive builds the liveness ping holding an idle session open.
func KeepAlive(session uint32) Request {
	body := marshalBody(struct {
		Name      string `json:"Name"`
		SessionID string `json:"SessionID"`
	}{
		Name:      "KeepAlive",
		SessionID: protocol.FormatSession(session),
	})
	return Request{Code: protocol.KeepAliveReq, Reply: protocol.KeepAliveRsp, Body: body}
}
