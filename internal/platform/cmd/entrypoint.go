// Package cmd holds the shared entrypoint plumbing for scrapectl binaries.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/scrapectl/internal/platform/config"
	"github.com/louisbranch/scrapectl/internal/platform/otel"
	"github.com/louisbranch/scrapectl/internal/platform/timeouts"
	"github.com/rs/zerolog/log"
)

// Service identifiers used as the telemetry service name.
const (
	ServiceScrapectl = "scrapectl"
	ServiceCmdgen    = "cmdgen"
)

// RunOptions controls shared entrypoint behavior.
type RunOptions struct {
	// ShutdownTimeout sets the timeout used when stopping telemetry.
	ShutdownTimeout time.Duration
	// Version is reported as the service version.
	Version string
}

// ParseConfig loads environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// RunWithTelemetry configures observability and executes run, returning its
// exit code.
func RunWithTelemetry(ctx context.Context, service string, options RunOptions, run func(context.Context) int) (int, error) {
	service = strings.TrimSpace(service)
	if service == "" {
		return 1, fmt.Errorf("service name is required")
	}
	if run == nil {
		return 1, fmt.Errorf("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := otel.Setup(ctx, service, options.Version)
	if err != nil {
		return 1, err
	}
	defer func() {
		shutdownTimeout := options.ShutdownTimeout
		if shutdownTimeout <= 0 {
			shutdownTimeout = timeouts.TelemetryShutdown
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Str("service", service).Msg("otel shutdown")
		}
	}()
	return run(ctx), nil
}
