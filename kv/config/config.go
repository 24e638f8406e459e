package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"
)

// Config holds the runtime configuration of simpledb-server.
type Config struct {
	LogLevel string `toml:"log-level"`

	// Interactive forces the readline prompt even when stdin is not a terminal.
	Interactive bool   `toml:"interactive"`
	Prompt      string `toml:"prompt"`
	// HistoryFile is where the interactive prompt persists command history. Empty disables it.
	HistoryFile string `toml:"history-file"`
}

func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "fatal":
		return nil
	}
	return errors.Errorf("unsupported log level %q", c.LogLevel)
}

func getLogLevel() (logLevel string) {
	logLevel = "info"
	if l := os.Getenv("LOG_LEVEL"); len(l) != 0 {
		logLevel = l
	}
	return
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: getLogLevel(),
		Prompt:   "simpledb> ",
	}
}

// FromFile loads defaults, then overlays the TOML file at path.
func FromFile(path string) (*Config, error) {
	c := NewDefaultConfig()
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, errors.Trace(err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
