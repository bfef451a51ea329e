package transport

import (
	"time"

	"github.com/danmuck/dvrctl/internal/protocol"
)

// Config defines socket reliability knobs. Zero read/write timeouts mean
// an unbounded wait; callers that cannot tolerate a hung device must set
// deadlines here, since the session layer never imposes its own.
type Config struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	Limits         protocol.Limits
}

func DefaultConfig() Config {
	return Config{
		ConnectTimeout: 5 * time.Second,
		Limits:         protocol.DefaultLimits(),
	}
}
