// Package version implements the "version" command.
package version

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/louisbranch/scrapectl/internal/command"
	"github.com/louisbranch/scrapectl/internal/platform/branding"
)

// Command prints the scrapectl version.
type Command struct {
	command.Base

	verbose bool

	// BuildInfo is swapped in tests.
	BuildInfo func() (*debug.BuildInfo, bool)
}

func (c *Command) DefaultSettings() map[string]any {
	return map[string]any{"LOG_ENABLED": false}
}

func (c *Command) Syntax() string { return "[-v]" }

func (c *Command) ShortDesc() string {
	return "Print " + branding.AppName + " version"
}

func (c *Command) AddOptions(p command.Parser, opts *command.Options) {
	c.Base.AddOptions(p, opts)
	p.BoolVar(&c.verbose, "verbose", "v", false, "also display Go version, platform and module versions, useful for bug reports")
}

func (c *Command) Run(_ context.Context, _ []string, opts *command.Options) error {
	if !c.verbose {
		_, err := fmt.Fprintf(opts.Stdout, "%s %s\n", branding.AppName, branding.Version)
		return err
	}
	return writeTable(opts.Stdout, c.versions())
}

type row struct {
	name, value string
}

func (c *Command) versions() []row {
	rows := []row{
		{branding.AppName, branding.Version},
		{"Go", runtime.Version()},
		{"Platform", runtime.GOOS + "/" + runtime.GOARCH},
	}
	read := c.BuildInfo
	if read == nil {
		read = debug.ReadBuildInfo
	}
	info, ok := read()
	if !ok {
		return rows
	}
	for _, dep := range info.Deps {
		mod := dep
		if dep.Replace != nil {
			mod = dep.Replace
		}
		rows = append(rows, row{mod.Path, mod.Version})
	}
	return rows
}

func writeTable(w io.Writer, rows []row) error {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.name))
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%-*s : %s\n", width, r.name, r.value); err != nil {
			return err
		}
	}
	return nil
}
