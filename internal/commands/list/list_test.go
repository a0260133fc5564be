package list

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/louisbranch/scrapectl/internal/command"
	"github.com/louisbranch/scrapectl/internal/crawler"
	"github.com/louisbranch/scrapectl/internal/settings"
)

type namedSpider string

func (s namedSpider) Name() string { return string(s) }

func (namedSpider) Crawl(context.Context, *crawler.Engine, map[string]string) error { return nil }

func TestRunPrintsSortedSpiderNames(t *testing.T) {
	for _, name := range []string{"list-zeta", "list-alpha"} {
		crawler.RegisterSpider(name, func() crawler.Spider { return namedSpider(name) })
	}
	s := settings.New()
	c := &Command{}
	c.SetSettings(s)
	c.SetProcess(crawler.NewProcess(s))

	var out bytes.Buffer
	if err := c.Run(context.Background(), nil, &command.Options{Stdout: &out}); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	alpha := strings.Index(got, "list-alpha\n")
	zeta := strings.Index(got, "list-zeta\n")
	if alpha < 0 || zeta < 0 || alpha > zeta {
		t.Fatalf("unexpected listing:\n%s", got)
	}
	if !c.RequiresProject() {
		t.Fatal("list requires a project")
	}
}
