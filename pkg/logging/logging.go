package logging

import (
	"errors"
	"io"
	"log/slog"
	"os"
)

const (
	// KeyAppName is the log key for the application name.
	KeyAppName = "app"

	// KeyError is the log key for errors.
	KeyError = "err"

	// KeyDal is the log key for the data access layer in use.
	KeyDal = "dal"

	// KeySignal is the log key for os signals.
	KeySignal = "signal"
)

// Name is the name of the application that the logger is created for.
type Name string

// Config is the configuration for a logger.
type Config struct {
	// name is the application name appended to every record.
	name string

	// w is the destination for log output.
	w io.Writer
}

// NewConfig creates a new logging config with the default output.
func NewConfig(name Name) *Config {
	return &Config{
		name: string(name),
		w:    os.Stdout,
	}
}

// CommonLogger creates the common logger for the application. The returned
// logger is also installed as the slog default.
func CommonLogger(c *Config) (*slog.Logger, error) {
	if c.name == "" {
		return nil, errors.New("no application name provided")
	}

	h := slog.NewJSONHandler(c.w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	l := slog.New(h).With(slog.String(KeyAppName, c.name))
	slog.SetDefault(l)
	return l, nil
}
