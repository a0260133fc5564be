package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/scrapectl/internal/cmdline"
	_ "github.com/louisbranch/scrapectl/internal/commands"
	"github.com/louisbranch/scrapectl/internal/platform/branding"
	platformcmd "github.com/louisbranch/scrapectl/internal/platform/cmd"
	"github.com/louisbranch/scrapectl/internal/platform/config"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		config.Exitf("parse env: %v", err)
	}
	if err := cmdline.LoadExtensions(nil, env.Extensions); err != nil {
		config.Exitf("%s: %v", branding.Program, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code, err := platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceScrapectl, platformcmd.RunOptions{Version: branding.Version}, func(ctx context.Context) int {
		return cmdline.New(env).Execute(ctx, os.Args[1:], nil)
	})
	stop()
	if err != nil {
		config.Exitf("%s: %v", branding.Program, err)
	}
	os.Exit(code)
}
