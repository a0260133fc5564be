package cmdline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/louisbranch/scrapectl/internal/command"
	"github.com/rs/zerolog/log"
)

// Profiler collects a profile while run executes and returns the encoded
// profile bytes.
type Profiler interface {
	Profile(run func() error) ([]byte, error)
}

// CPUProfiler records a pprof CPU profile.
type CPUProfiler struct{}

// Profile runs fn under the CPU profiler. When another CPU profile is already
// active fn still runs and the returned profile is empty.
func (CPUProfiler) Profile(fn func() error) ([]byte, error) {
	var buf bytes.Buffer
	if err := pprof.StartCPUProfile(&buf); err != nil {
		log.Warn().Err(err).Msg("cpu profiling unavailable")
		return nil, fn()
	}
	runErr := fn()
	pprof.StopCPUProfile()
	return buf.Bytes(), runErr
}

func (c *Controller) runProfiled(ctx context.Context, cmd command.Command, args []string, opts *command.Options) error {
	if opts.Profile != "" {
		fmt.Fprintln(c.Stderr, c.Printer.Sprintf("cli.profile.writing", c.Program, opts.Profile))
	}
	if limiter, ok := cmd.(command.RetryLimiter); ok {
		limiter.SetRetryLimit(opts.RetryLimit)
	}
	data, runErr := c.Profiler.Profile(func() error {
		return cmd.Run(ctx, args, opts)
	})
	if opts.Profile != "" {
		if err := os.WriteFile(opts.Profile, data, 0o644); err != nil {
			log.Error().Err(err).Str("path", opts.Profile).Msg("write profile")
			if runErr == nil {
				return fmt.Errorf("write profile: %w", err)
			}
		}
	}
	return runErr
}
