// Package crawl implements the "crawl" command.
package crawl

import (
	"context"

	"github.com/louisbranch/scrapectl/internal/command"
	"github.com/rs/zerolog/log"
)

// Command runs one spider.
type Command struct {
	command.RunSpiderBase
}

func (c *Command) Syntax() string { return "[options] <spider>" }

func (c *Command) ShortDesc() string { return "Run a spider" }

func (c *Command) Run(ctx context.Context, args []string, _ *command.Options) error {
	switch {
	case len(args) < 1:
		return command.HelpError()
	case len(args) > 1:
		return command.Usagef("running 'scrapectl crawl' with more than one spider is not supported")
	}
	name := args[0]
	for _, feed := range c.Feeds {
		log.Debug().Str("spider", name).Stringer("feed", feed).Msg("feed configured")
	}
	if err := c.Process.Crawl(ctx, name, c.SpiderArgs); err != nil {
		c.SetExitCode(1)
		return err
	}
	return nil
}
