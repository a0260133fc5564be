package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/louisbranch/scrapectl/internal/crawler"
	"github.com/louisbranch/scrapectl/internal/settings"
)

// ErrDivisionByZero is returned by Base.Divide.
var ErrDivisionByZero = errors.New("division by zero")

// Base carries the state the dispatcher attaches to a command and the global
// options every command accepts. Concrete commands embed it and override the
// hooks they need. Base itself is never registered as a command.
type Base struct {
	Settings *settings.Settings
	Process  *crawler.Process

	exitCode   int
	retryLimit *int
}

var (
	_ Command      = (*Base)(nil)
	_ RetryLimiter = (*Base)(nil)
	_ Calculator   = (*Base)(nil)
)

func (b *Base) RequiresProject() bool { return false }

func (b *Base) DefaultSettings() map[string]any { return nil }

func (b *Base) Syntax() string { return "" }

func (b *Base) ShortDesc() string { return "" }

func (b *Base) LongDesc() string { return "" }

// AddOptions registers the global options.
func (b *Base) AddOptions(p Parser, opts *Options) {
	p.StringVar(&opts.LogFile, "logfile", "", "", "log file. if omitted stderr will be used")
	p.StringVar(&opts.LogLevel, "loglevel", "L", "", "log level (default: DEBUG)")
	p.BoolVar(&opts.NoLog, "nolog", "", false, "disable logging completely")
	p.StringVar(&opts.Profile, "profile", "", "", "write a CPU profile of the run to FILE")
	p.StringVar(&opts.PidFile, "pidfile", "", "", "write process ID to FILE")
	p.StringArrayVar(&opts.Set, "set", "s", nil, "set/override setting NAME=VALUE (may be repeated)")
	p.IntVar(&opts.RetryLimit, "retry-limit", "", 0, "override the retry limit")
}

// ProcessOptions applies the global options to the attached settings.
func (b *Base) ProcessOptions(args []string, opts *Options) error {
	if b.Settings == nil {
		return errors.New("settings are not attached")
	}
	overrides, err := ParseKeyValues(opts.Set)
	if err != nil {
		return Usagef("Invalid -s value, use -s NAME=VALUE")
	}
	values := make(map[string]any, len(overrides))
	for key, value := range overrides {
		values[key] = value
	}
	if err := b.Settings.SetDict(values, settings.PriorityCmdline); err != nil {
		return err
	}

	if opts.LogFile != "" {
		_ = b.Settings.Set("LOG_ENABLED", true, settings.PriorityCmdline)
		_ = b.Settings.Set("LOG_FILE", opts.LogFile, settings.PriorityCmdline)
	}
	if opts.LogLevel != "" {
		_ = b.Settings.Set("LOG_ENABLED", true, settings.PriorityCmdline)
		_ = b.Settings.Set("LOG_LEVEL", opts.LogLevel, settings.PriorityCmdline)
	}
	if opts.NoLog {
		_ = b.Settings.Set("LOG_ENABLED", false, settings.PriorityCmdline)
	}

	if opts.PidFile != "" {
		pid := strconv.Itoa(os.Getpid()) + "\n"
		if err := os.WriteFile(opts.PidFile, []byte(pid), 0o644); err != nil {
			return fmt.Errorf("write pidfile: %w", err)
		}
	}
	return nil
}

// Run is the sentinel implementation; concrete commands override it.
func (b *Base) Run(context.Context, []string, *Options) error {
	return errors.New("command does not implement Run")
}

func (b *Base) SetSettings(s *settings.Settings) { b.Settings = s }

func (b *Base) SetProcess(p *crawler.Process) { b.Process = p }

func (b *Base) ExitCode() int { return b.exitCode }

func (b *Base) SetExitCode(code int) { b.exitCode = code }

// RetryLimit reports the carried retry limit, if one was set.
func (b *Base) RetryLimit() (int, bool) {
	if b.retryLimit == nil {
		return 0, false
	}
	return *b.retryLimit, true
}

func (b *Base) SetRetryLimit(limit int) {
	b.retryLimit = &limit
}

// Calculate applies op to x and y.
func (b *Base) Calculate(op func(x, y float64) (float64, error), x, y float64) (float64, error) {
	if op == nil {
		return 0, errors.New("no operation")
	}
	return op(x, y)
}

// Divide returns x / y.
func (b *Base) Divide(x, y float64) (float64, error) {
	if y == 0 {
		return 0, ErrDivisionByZero
	}
	return x / y, nil
}
