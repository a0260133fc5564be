// Package cmdline is the scrapectl dispatcher. It discovers the available
// commands, resolves the command name from the invocation tokens, parses the
// command options, and drives the command through its lifecycle.
package cmdline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/louisbranch/scrapectl/internal/command"
	"github.com/louisbranch/scrapectl/internal/crawler"
	"github.com/louisbranch/scrapectl/internal/platform/branding"
	"github.com/louisbranch/scrapectl/internal/platform/config"
	"github.com/louisbranch/scrapectl/internal/platform/i18n/catalog"
	"github.com/louisbranch/scrapectl/internal/platform/logging"
	platformotel "github.com/louisbranch/scrapectl/internal/platform/otel"
	"github.com/louisbranch/scrapectl/internal/registry"
	"github.com/louisbranch/scrapectl/internal/settings"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/message"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// RegistryBuilder assembles the command table for one invocation.
type RegistryBuilder interface {
	Build(projectModule string, inProject bool) (registry.Table, error)
}

// Controller runs one scrapectl invocation.
type Controller struct {
	Program string
	AppName string
	Version string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Env      config.Env
	Builder  RegistryBuilder
	Printer  *message.Printer
	Getwd    func() (string, error)
	Lookup   func(key string) (string, bool)
	Tracer   trace.Tracer
	Logging  func(s logging.Settings, stderr io.Writer) (io.Closer, error)
	Profiler Profiler
}

// New returns a controller wired to the process streams and defaults.
func New(env config.Env) *Controller {
	return &Controller{
		Program:  branding.Program,
		AppName:  branding.AppName,
		Version:  branding.Version,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Env:      env,
		Builder:  registry.NewBuilder(),
		Printer:  catalog.Default().Printer(env.Locale),
		Getwd:    os.Getwd,
		Lookup:   os.LookupEnv,
		Tracer:   platformotel.Tracer(),
		Logging:  logging.Configure,
		Profiler: CPUProfiler{},
	}
}

// Execute dispatches args (without the program name) and returns the process
// exit code. When s is nil the project settings are loaded from the
// environment and the working directory.
func (c *Controller) Execute(ctx context.Context, args []string, s *settings.Settings) int {
	c.applyDefaults()

	wd, err := c.Getwd()
	if err != nil {
		wd = "."
	}
	projectEnv := settings.ProjectEnv{Project: c.Env.Project, SettingsFile: c.Env.SettingsFile}
	_, inProject := settings.DetectProject(projectEnv, wd)
	if s == nil {
		loaded, _, err := settings.LoadProject(projectEnv, wd)
		if err != nil {
			fmt.Fprintf(c.Stderr, "%s: %v\n", c.Program, err)
			return ExitError
		}
		s = loaded
		if editor, ok := c.Lookup("EDITOR"); ok {
			_ = s.Set("EDITOR", editor, settings.PriorityCmdline)
		}
	}

	cmds, err := c.Builder.Build(s.GetString("COMMANDS_MODULE"), inProject)
	if err != nil {
		fmt.Fprintf(c.Stderr, "%s: %v\n", c.Program, err)
		return ExitError
	}

	tokens := append([]string(nil), args...)
	name, ok := PopCommandName(&tokens)
	if !ok || name == "" {
		c.printCommands(s, cmds, inProject)
		return ExitOK
	}
	cmd, ok := cmds[name]
	if !ok {
		c.printUnknownCommand(s, name, inProject)
		return ExitUsage
	}

	parser := NewParser(c.Program, name, cmd.Syntax(), longDescription(cmd))
	opts := &command.Options{Stdout: c.Stdout, Stderr: c.Stderr}
	parser.BoolVar(&opts.Help, "help", "h", false, "show this help message and exit")
	if err := s.SetDict(cmd.DefaultSettings(), settings.PriorityCommand); err != nil {
		fmt.Fprintf(c.Stderr, "%s: %v\n", c.Program, err)
		return ExitError
	}
	cmd.SetSettings(s)
	cmd.AddOptions(parser, opts)

	rest, err := parser.Parse(tokens)
	if err != nil {
		parser.Error(c.Stderr, err.Error())
		return ExitUsage
	}
	opts.Flags = parser.Flags()
	if opts.Help {
		_ = parser.PrintHelp(c.Stdout)
		return ExitOK
	}

	if err := cmd.ProcessOptions(rest, opts); err != nil {
		return c.fail(parser, cmd, err)
	}

	closer, err := c.Logging(s, c.Stderr)
	if err != nil {
		fmt.Fprintf(c.Stderr, "%s: %v\n", c.Program, err)
		return ExitError
	}
	defer closer.Close()
	log.Info().
		Str("bot", s.GetString("BOT_NAME")).
		Msgf("%s %s started", c.AppName, c.Version)
	log.Debug().Int("commands", len(cmds)).Str("command", name).Msg("dispatching")

	cmd.SetProcess(crawler.NewProcess(s))

	code := c.runAndStore(ctx, parser, name, cmd, rest, opts)
	log.Debug().Str("command", name).Int("exit_code", code).Msg("command finished")
	return code
}

func (c *Controller) runAndStore(ctx context.Context, parser *Parser, name string, cmd command.Command, args []string, opts *command.Options) int {
	if err := c.run(ctx, name, cmd, args, opts); err != nil {
		return c.fail(parser, cmd, err)
	}
	if opts.RetryLimit > 0 {
		if limiter, ok := cmd.(command.RetryLimiter); ok {
			limiter.SetRetryLimit(opts.RetryLimit)
		}
	}
	return cmd.ExitCode()
}

func (c *Controller) run(ctx context.Context, name string, cmd command.Command, args []string, opts *command.Options) error {
	ctx, span := c.Tracer.Start(ctx, "scrapectl.command",
		trace.WithAttributes(attribute.String("scrapectl.command.name", name)))
	defer span.End()

	var err error
	if opts.Profile != "" {
		err = c.runProfiled(ctx, cmd, args, opts)
	} else {
		err = cmd.Run(ctx, args, opts)
		if err == nil {
			c.verifyNumbers(cmd)
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// fail maps a lifecycle error to an exit code. Usage errors always exit 2:
// a message is reported as a parser error on its own, and help is printed
// only for a usage error without a message.
// Any other error is reported and exits 1 unless the command already chose
// a non-zero code.
func (c *Controller) fail(parser *Parser, cmd command.Command, err error) int {
	var usage *command.UsageError
	if errors.As(err, &usage) {
		if usage.Message != "" {
			parser.Error(c.Stderr, usage.Message)
			return ExitUsage
		}
		if usage.PrintHelp {
			_ = parser.PrintHelp(c.Stderr)
		}
		return ExitUsage
	}
	log.Debug().Err(err).Msg("command failed")
	fmt.Fprintln(c.Stderr, c.Printer.Sprintf("cli.run.error", err))
	if code := cmd.ExitCode(); code != 0 {
		return code
	}
	return ExitError
}

func (c *Controller) applyDefaults() {
	if c.Program == "" {
		c.Program = branding.Program
	}
	if c.AppName == "" {
		c.AppName = branding.AppName
	}
	if c.Version == "" {
		c.Version = branding.Version
	}
	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	if c.Builder == nil {
		c.Builder = registry.NewBuilder()
	}
	if c.Printer == nil {
		c.Printer = catalog.Default().Printer(c.Env.Locale)
	}
	if c.Getwd == nil {
		c.Getwd = os.Getwd
	}
	if c.Lookup == nil {
		c.Lookup = os.LookupEnv
	}
	if c.Tracer == nil {
		c.Tracer = platformotel.Tracer()
	}
	if c.Logging == nil {
		c.Logging = logging.Configure
	}
	if c.Profiler == nil {
		c.Profiler = CPUProfiler{}
	}
}

func longDescription(cmd command.Command) string {
	if long := cmd.LongDesc(); long != "" {
		return long
	}
	return cmd.ShortDesc()
}
