package protocol

import "fmt"

// Status is a device status code carried in the Ret field of reply bodies.
type Status uint32

const (
	StatusOK             Status = 100
	StatusError          Status = 101
	StatusVersion        Status = 102
	StatusIllegal        Status = 103
	StatusLoggedIn       Status = 104
	StatusNotLoggedIn    Status = 105
	StatusBadCredentials Status = 106
	StatusNoPermission   Status = 107
	StatusPassword       Status = 203
	StatusUpgradeStart   Status = 511
	StatusUpgradeIdle    Status = 512
	StatusUpgradeData    Status = 513
	StatusUpgradeFailed  Status = 514
	StatusUpgradeOK      Status = 515
)

var statusText = map[Status]string{
	StatusOK:             "OK",
	StatusError:          "unknown error",
	StatusVersion:        "invalid version",
	StatusIllegal:        "illegal request",
	StatusLoggedIn:       "user already logged in",
	StatusNotLoggedIn:    "user not logged in",
	StatusBadCredentials: "username or password incorrect",
	StatusNoPermission:   "no permission",
	StatusPassword:       "password incorrect",
	StatusUpgradeStart:   "upgrade started",
	StatusUpgradeIdle:    "upgrade not started",
	StatusUpgradeData:    "upgrade data error",
	StatusUpgradeFailed:  "upgrade failed",
	StatusUpgradeOK:      "upgrade successful",
}

// OK reports whether the code counts as success. Firmware reports a
// finished upgrade through the status channel, so 515 is a success too.
func (s Status) OK() bool {
	return s == StatusOK || s == StatusUpgradeOK
}

func (s Status) Message() string {
	if msg, ok := statusText[s]; ok {
		return msg
	}
	return fmt.Sprintf("unknown status %d", uint32(s))
}

// Err returns nil for success codes and a *RequestError otherwise.
func (s Status) Err() error {
	if s.OK() {
		return nil
	}
	return &RequestError{Code: s}
}
