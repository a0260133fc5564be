// Package command defines the contract every scrapectl subcommand satisfies
// and the shared base types commands embed.
//
// The dispatcher drives one command through a fixed lifecycle: AddOptions,
// ProcessOptions, Run, then ExitCode. Settings and the crawler process are
// attached by the dispatcher before the hooks that need them.
package command

import (
	"context"
	"io"

	"github.com/louisbranch/scrapectl/internal/crawler"
	"github.com/louisbranch/scrapectl/internal/settings"
	"github.com/spf13/pflag"
)

// Command is one named subcommand.
type Command interface {
	// RequiresProject reports whether the command is only offered inside a
	// project.
	RequiresProject() bool
	// DefaultSettings are applied at command priority before the command runs.
	DefaultSettings() map[string]any

	Syntax() string
	ShortDesc() string
	// LongDesc is the help body. An empty value falls back to ShortDesc.
	LongDesc() string

	AddOptions(p Parser, opts *Options)
	ProcessOptions(args []string, opts *Options) error
	Run(ctx context.Context, args []string, opts *Options) error

	SetSettings(s *settings.Settings)
	SetProcess(p *crawler.Process)
	ExitCode() int
	SetExitCode(code int)
}

// Parser is the option table handed to AddOptions. Defining an option whose
// long name or shorthand is already taken replaces the earlier definition.
type Parser interface {
	Var(value pflag.Value, name, shorthand, usage string)
	BoolVar(p *bool, name, shorthand string, value bool, usage string)
	StringVar(p *string, name, shorthand, value, usage string)
	IntVar(p *int, name, shorthand string, value int, usage string)
	StringArrayVar(p *[]string, name, shorthand string, value []string, usage string)
}

// Options holds the global options shared by every command, plus the parsed
// flag set for commands that need to inspect it.
type Options struct {
	Help       bool
	LogFile    string
	LogLevel   string
	NoLog      bool
	Profile    string
	PidFile    string
	Set        []string
	RetryLimit int

	Flags  *pflag.FlagSet
	Stdout io.Writer
	Stderr io.Writer
}

// Changed reports whether the named option was given on the command line.
func (o *Options) Changed(name string) bool {
	if o == nil || o.Flags == nil {
		return false
	}
	return o.Flags.Changed(name)
}

// RetryLimiter is implemented by commands that can carry a retry limit
// between dispatch steps.
type RetryLimiter interface {
	RetryLimit() (int, bool)
	SetRetryLimit(limit int)
}

// Calculator is the arithmetic capability used by post-run verification.
type Calculator interface {
	Calculate(op func(x, y float64) (float64, error), x, y float64) (float64, error)
	Divide(x, y float64) (float64, error)
}
