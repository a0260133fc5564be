package cmdline

import (
	"fmt"

	"github.com/louisbranch/scrapectl/internal/registry"
	"github.com/louisbranch/scrapectl/internal/settings"
)

func (c *Controller) printHeader(s *settings.Settings, inProject bool) {
	if inProject {
		fmt.Fprintln(c.Stdout, c.Printer.Sprintf("cli.header.project", c.AppName, c.Version, s.GetString("BOT_NAME")))
	} else {
		fmt.Fprintln(c.Stdout, c.Printer.Sprintf("cli.header.no_project", c.AppName, c.Version))
	}
	fmt.Fprintln(c.Stdout)
}

func (c *Controller) printCommands(s *settings.Settings, cmds registry.Table, inProject bool) {
	c.printHeader(s, inProject)
	fmt.Fprintln(c.Stdout, c.Printer.Sprintf("cli.usage.title"))
	fmt.Fprintln(c.Stdout, c.Printer.Sprintf("cli.usage.line", c.Program))
	fmt.Fprintln(c.Stdout)
	fmt.Fprintln(c.Stdout, c.Printer.Sprintf("cli.commands.title"))
	for _, name := range cmds.Names() {
		fmt.Fprintf(c.Stdout, "  %-13s %s\n", name, cmds[name].ShortDesc())
	}
	if !inProject {
		fmt.Fprintln(c.Stdout)
		fmt.Fprintln(c.Stdout, c.Printer.Sprintf("cli.commands.more"))
	}
	fmt.Fprintln(c.Stdout)
	fmt.Fprintln(c.Stdout, c.Printer.Sprintf("cli.commands.hint", c.Program))
}

func (c *Controller) printUnknownCommand(s *settings.Settings, name string, inProject bool) {
	c.printHeader(s, inProject)
	fmt.Fprintln(c.Stdout, c.Printer.Sprintf("cli.unknown.command", name))
	fmt.Fprintln(c.Stdout)
	fmt.Fprintln(c.Stdout, c.Printer.Sprintf("cli.unknown.hint", c.Program))
}
