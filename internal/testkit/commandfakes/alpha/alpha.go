// Package alpha is a test command usable outside a project.
package alpha

import (
	"context"

	"github.com/louisbranch/scrapectl/internal/command"
)

// Command records which discovery source built it.
type Command struct {
	command.Base
	Source string
}

func (c *Command) Syntax() string    { return "[options]" }
func (c *Command) ShortDesc() string { return "Alpha from " + c.Source }

func (c *Command) Run(context.Context, []string, *command.Options) error { return nil }
