package settings

import (
	"bytes"
	"context"
	"testing"

	"github.com/louisbranch/scrapectl/internal/command"
	"github.com/louisbranch/scrapectl/internal/settings"
)

func TestRunPrintsTypedValues(t *testing.T) {
	s := settings.New()
	_ = s.SetDict(map[string]any{
		"FLAG":  "1",
		"COUNT": "12",
		"RATIO": 0.5,
		"ITEMS": "a,b",
		"FEEDS": map[string]any{"out.json": map[string]any{"format": "json"}},
		"PLAIN": "text",
	}, settings.PriorityProject)

	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{name: "get string", cmd: Command{get: "PLAIN"}, want: "text\n"},
		{name: "get map", cmd: Command{get: "FEEDS"}, want: `{"out.json":{"format":"json"}}` + "\n"},
		{name: "get missing", cmd: Command{get: "NOPE"}, want: "\n"},
		{name: "getbool", cmd: Command{getBool: "FLAG"}, want: "true\n"},
		{name: "getint", cmd: Command{getInt: "COUNT"}, want: "12\n"},
		{name: "getfloat", cmd: Command{getFloat: "RATIO"}, want: "0.5\n"},
		{name: "getlist", cmd: Command{getList: "ITEMS"}, want: `["a","b"]` + "\n"},
		{name: "nothing requested", cmd: Command{}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := tt.cmd
			c.SetSettings(s)
			if err := c.Run(context.Background(), nil, &command.Options{Stdout: &out}); err != nil {
				t.Fatalf("run: %v", err)
			}
			if out.String() != tt.want {
				t.Fatalf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRunReportsConversionErrors(t *testing.T) {
	s := settings.New()
	_ = s.Set("COUNT", "many", settings.PriorityProject)
	c := &Command{getInt: "COUNT"}
	c.SetSettings(s)
	var out bytes.Buffer
	if err := c.Run(context.Background(), nil, &command.Options{Stdout: &out}); err == nil {
		t.Fatal("expected conversion error")
	}
}
