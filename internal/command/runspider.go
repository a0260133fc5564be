package command

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/louisbranch/scrapectl/internal/settings"
)

// Feed is one output target requested with -o or -O.
type Feed struct {
	URI       string
	Format    string
	Overwrite bool
}

// RunSpiderBase extends Base with the spider arguments (-a) and feed outputs
// (-o/-O) shared by commands that run a spider. Like Base it is never
// registered on its own.
type RunSpiderBase struct {
	Base

	SpiderArgs map[string]string
	Feeds      []Feed

	rawArgs   []string
	output    []string
	overwrite []string
}

var _ Command = (*RunSpiderBase)(nil)

func (c *RunSpiderBase) RequiresProject() bool { return true }

func (c *RunSpiderBase) AddOptions(p Parser, opts *Options) {
	c.Base.AddOptions(p, opts)
	p.StringArrayVar(&c.rawArgs, "arg", "a", nil, "set spider argument NAME=VALUE (may be repeated)")
	p.StringArrayVar(&c.output, "output", "o", nil, "append scraped items to the end of FILE (use - for stdout), to define format set a colon at the end of the output URI (i.e. -o FILE:FORMAT)")
	p.StringArrayVar(&c.overwrite, "overwrite-output", "O", nil, "dump scraped items into FILE, overwriting any existing file, to define format set a colon at the end of the output URI (i.e. -O FILE:FORMAT)")
}

func (c *RunSpiderBase) ProcessOptions(args []string, opts *Options) error {
	if err := c.Base.ProcessOptions(args, opts); err != nil {
		return err
	}
	spiderArgs, err := ParseKeyValues(c.rawArgs)
	if err != nil {
		return Usagef("Invalid -a value, use -a NAME=VALUE")
	}
	c.SpiderArgs = spiderArgs

	if len(c.output) > 0 && len(c.overwrite) > 0 {
		return Usagef("Please use only one of -o/--output and -O/--overwrite-output")
	}
	feeds, err := parseFeeds(c.output, false)
	if err != nil {
		return err
	}
	overwriteFeeds, err := parseFeeds(c.overwrite, true)
	if err != nil {
		return err
	}
	c.Feeds = append(feeds, overwriteFeeds...)
	if len(c.Feeds) == 0 {
		return nil
	}

	table := make(map[string]any, len(c.Feeds))
	for _, feed := range c.Feeds {
		table[feed.URI] = map[string]any{"format": feed.Format, "overwrite": feed.Overwrite}
	}
	return c.Settings.Set("FEEDS", table, settings.PriorityCmdline)
}

func parseFeeds(values []string, overwrite bool) ([]Feed, error) {
	feeds := make([]Feed, 0, len(values))
	for _, value := range values {
		uri, format := splitFeed(value)
		if format == "" {
			return nil, Usagef("Unable to guess the format of %q, use -o FILE:FORMAT", value)
		}
		feeds = append(feeds, Feed{URI: uri, Format: format, Overwrite: overwrite})
	}
	return feeds, nil
}

// splitFeed separates an explicit ":FORMAT" suffix, falling back to the file
// extension. "-" means stdout and defaults to jsonlines.
func splitFeed(value string) (string, string) {
	if idx := strings.LastIndex(value, ":"); idx > 0 && !strings.Contains(value[idx:], "/") {
		return value[:idx], value[idx+1:]
	}
	if value == "-" {
		return "stdout:", "jsonlines"
	}
	ext := strings.TrimPrefix(filepath.Ext(value), ".")
	if ext == "jl" {
		ext = "jsonlines"
	}
	return value, ext
}

// String renders a feed the way it is listed in logs.
func (f Feed) String() string {
	return fmt.Sprintf("%s (%s)", f.URI, f.Format)
}
