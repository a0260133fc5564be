// Package list implements the "list" command.
package list

import (
	"context"
	"fmt"

	"github.com/louisbranch/scrapectl/internal/command"
)

// Command prints the names of the project's spiders.
type Command struct {
	command.Base
}

func (c *Command) RequiresProject() bool { return true }

func (c *Command) DefaultSettings() map[string]any {
	return map[string]any{"LOG_ENABLED": false}
}

func (c *Command) ShortDesc() string { return "List available spiders" }

func (c *Command) Run(_ context.Context, _ []string, opts *command.Options) error {
	for _, name := range c.Process.SpiderNames() {
		if _, err := fmt.Fprintln(opts.Stdout, name); err != nil {
			return err
		}
	}
	return nil
}
