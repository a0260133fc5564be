// Package logging configures the process logger from settings.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Settings is the read side of the layered settings used here.
type Settings interface {
	GetString(key string) string
	GetBool(key string) (bool, error)
}

// ParseLevel maps LOG_LEVEL names (DEBUG, INFO, WARNING, ERROR, CRITICAL) onto
// zerolog levels.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "DEBUG":
		return zerolog.DebugLevel, nil
	case "INFO":
		return zerolog.InfoLevel, nil
	case "WARN", "WARNING":
		return zerolog.WarnLevel, nil
	case "ERROR":
		return zerolog.ErrorLevel, nil
	case "CRITICAL", "FATAL":
		return zerolog.FatalLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
}

// Configure installs the global logger according to LOG_ENABLED, LOG_LEVEL and
// LOG_FILE. The returned closer releases the log file, if any.
func Configure(s Settings, stderr io.Writer) (io.Closer, error) {
	enabled, err := s.GetBool("LOG_ENABLED")
	if err != nil {
		return nopCloser{}, err
	}
	if !enabled {
		log.Logger = zerolog.Nop()
		return nopCloser{}, nil
	}

	level, err := ParseLevel(s.GetString("LOG_LEVEL"))
	if err != nil {
		return nopCloser{}, err
	}

	var (
		out    io.Writer
		closer io.Closer = nopCloser{}
	)
	if path := strings.TrimSpace(s.GetString("LOG_FILE")); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nopCloser{}, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	} else {
		if stderr == nil {
			stderr = os.Stderr
		}
		out = zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339}
	}

	log.Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
