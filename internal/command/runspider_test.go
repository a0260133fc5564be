package command

import (
	"errors"
	"testing"

	"github.com/louisbranch/scrapectl/internal/settings"
)

func TestRunSpiderBaseParsesArgsAndFeeds(t *testing.T) {
	c := &RunSpiderBase{}
	c.SetSettings(settings.New())
	opts := parseBase(t, c, "-a", "category=books", "-o", "items.jl", "--output", "dump:csv")

	if err := c.ProcessOptions(nil, opts); err != nil {
		t.Fatalf("process options: %v", err)
	}
	if c.SpiderArgs["category"] != "books" {
		t.Fatalf("spider args = %#v", c.SpiderArgs)
	}
	if len(c.Feeds) != 2 {
		t.Fatalf("feeds = %#v", c.Feeds)
	}
	if c.Feeds[0].URI != "items.jl" || c.Feeds[0].Format != "jsonlines" {
		t.Fatalf("first feed = %+v", c.Feeds[0])
	}
	if c.Feeds[1].URI != "dump" || c.Feeds[1].Format != "csv" {
		t.Fatalf("second feed = %+v", c.Feeds[1])
	}
	raw, _ := c.Settings.Get("FEEDS")
	table, ok := raw.(map[string]any)
	if !ok || len(table) != 2 {
		t.Fatalf("FEEDS = %#v", raw)
	}
}

func TestRunSpiderBaseUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "bad arg", args: []string{"-a", "nope"}, want: "Invalid -a value, use -a NAME=VALUE"},
		{name: "both outputs", args: []string{"-o", "a.json", "-O", "b.json"}, want: "Please use only one of -o/--output and -O/--overwrite-output"},
		{name: "unknown format", args: []string{"-o", "items"}, want: `Unable to guess the format of "items", use -o FILE:FORMAT`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &RunSpiderBase{}
			c.SetSettings(settings.New())
			opts := parseBase(t, c, tt.args...)

			var usage *UsageError
			if err := c.ProcessOptions(nil, opts); !errors.As(err, &usage) {
				t.Fatalf("expected UsageError, got %v", err)
			}
			if usage.Message != tt.want {
				t.Fatalf("message = %q, want %q", usage.Message, tt.want)
			}
		})
	}
}

func TestSplitFeed(t *testing.T) {
	tests := []struct {
		in, uri, format string
	}{
		{"-", "stdout:", "jsonlines"},
		{"out.json", "out.json", "json"},
		{"out.jl", "out.jl", "jsonlines"},
		{"out.txt:csv", "out.txt", "csv"},
		{"s3://bucket/items.xml", "s3://bucket/items.xml", "xml"},
	}
	for _, tt := range tests {
		uri, format := splitFeed(tt.in)
		if uri != tt.uri || format != tt.format {
			t.Fatalf("splitFeed(%q) = %q, %q", tt.in, uri, format)
		}
	}
}

func TestRunSpiderBaseRequiresProject(t *testing.T) {
	if !(&RunSpiderBase{}).RequiresProject() {
		t.Fatal("expected RunSpiderBase to require a project")
	}
	if (&Base{}).RequiresProject() {
		t.Fatal("expected Base to run anywhere")
	}
}
