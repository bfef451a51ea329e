package main

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/danmuck/dvrctl/internal/client"
	"github.com/danmuck/dvrctl/internal/config"
	"github.com/danmuck/dvrctl/internal/transport"
)

// Environment fallbacks honored for parity with the historical tool.
const (
	envPort     = "DVR_PORT"
	envUsername = "DVR_USERNAME"
	envPassword = "DVR_PASSWORD"
)

// ioError marks local I/O failures (terminal, stdin) for exit-code
// mapping.
type ioError struct{ err error }

func (e *ioError) Error() string { return e.err.Error() }
func (e *ioError) Unwrap() error { return e.err }

// settings resolves effective connection parameters with flag > env >
// config file > default precedence.
func settings() (config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if v := os.Getenv(envPort); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv(envUsername); v != "" {
		cfg.Username = v
	}
	if flagPort != "" {
		cfg.Port = flagPort
	}
	if flagUser != "" {
		cfg.Username = flagUser
	}
	return cfg, config.Validate(cfg)
}

func password() (string, error) {
	if v, ok := os.LookupEnv(envPassword); ok {
		return v, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", &ioError{err: err}
	}
	return string(raw), nil
}

// connect dials host and logs in. Dial attempts beyond the first are
// driven by --retries with exponential backoff; the session itself never
// retries anything.
func connect(host string) (*client.Client, error) {
	cfg, err := settings()
	if err != nil {
		return nil, err
	}

	port, err := net.LookupPort("tcp", cfg.Port)
	if err != nil {
		return nil, err
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	tcfg := transport.DefaultConfig()
	tcfg.ConnectTimeout = time.Duration(cfg.ConnectTimeout)
	tcfg.ReadTimeout = time.Duration(cfg.ReadTimeout)
	tcfg.WriteTimeout = time.Duration(cfg.WriteTimeout)

	pass, err := password()
	if err != nil {
		return nil, err
	}

	dial := func() (*client.Client, error) {
		return client.Dial(addr, tcfg, log.Logger)
	}
	conn, err := backoff.RetryWithData(dial,
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(flagRetries)))
	if err != nil {
		return nil, err
	}

	if err := conn.Login(cfg.Username, pass); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}
