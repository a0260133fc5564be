// Package beta is a test command that requires a project.
package beta

import (
	"context"

	"github.com/louisbranch/scrapectl/internal/command"
)

// Command records which discovery source built it.
type Command struct {
	command.RunSpiderBase
	Source string
}

func (c *Command) Syntax() string    { return "[options] <spider>" }
func (c *Command) ShortDesc() string { return "Beta from " + c.Source }

func (c *Command) Run(context.Context, []string, *command.Options) error { return nil }
