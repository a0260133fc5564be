// Package status implements the "status" command, which prints the
// execution engine status report.
package status

import (
	"context"

	"github.com/louisbranch/scrapectl/internal/command"
	"github.com/louisbranch/scrapectl/internal/probe"
)

// Command prints the probe report for the process engine. Given a spider
// name it first runs that spider and reports the engine it left behind.
type Command struct {
	command.Base
}

func (c *Command) Syntax() string { return "[<spider>]" }

func (c *Command) ShortDesc() string { return "Print execution engine status" }

func (c *Command) LongDesc() string {
	return "Print execution engine status. Without a spider the report shows " +
		"the engine as unavailable; with a spider it shows the engine after the crawl."
}

func (c *Command) ProcessOptions(args []string, opts *command.Options) error {
	if err := c.Base.ProcessOptions(args, opts); err != nil {
		return err
	}
	if len(args) > 1 {
		return command.Usagef("status accepts at most one spider")
	}
	return nil
}

func (c *Command) Run(ctx context.Context, args []string, opts *command.Options) error {
	if len(args) == 1 {
		if err := c.Process.Crawl(ctx, args[0], nil); err != nil {
			c.SetExitCode(1)
			return err
		}
	}
	return probe.Print(opts.Stdout, c.Process.Engine())
}
