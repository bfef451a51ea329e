// Package config loads the CLI configuration file. The protocol core
// takes all of its parameters explicitly; nothing below cmd/ reads this.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPort     = "34567"
	DefaultUsername = "admin"
)

// Duration is a TOML-friendly time.Duration ("5s", "250ms").
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

type Config struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Username string `toml:"username"`

	ConnectTimeout Duration `toml:"connect_timeout"`
	ReadTimeout    Duration `toml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout"`
}

func Default() Config {
	return Config{
		Port:           DefaultPort,
		Username:       DefaultUsername,
		ConnectTimeout: Duration(5 * time.Second),
	}
}

// Load reads a TOML config file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Port) == "" {
		return fmt.Errorf("config missing port")
	}
	if strings.TrimSpace(cfg.Username) == "" {
		return fmt.Errorf("config missing username")
	}
	return nil
}
