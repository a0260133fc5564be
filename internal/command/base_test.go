package command

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/louisbranch/scrapectl/internal/settings"
)

func parseBase(t *testing.T, c Command, args ...string) *Options {
	t.Helper()
	p := newFlagSetParser()
	opts := &Options{}
	c.AddOptions(p, opts)
	if err := p.fs.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	opts.Flags = p.fs
	return opts
}

func TestBaseProcessOptionsAppliesOverrides(t *testing.T) {
	b := &Base{}
	b.SetSettings(settings.New())
	opts := parseBase(t, b, "-s", "BOT_NAME=demo", "--set", "EXTRA=a=b", "-L", "INFO")

	if err := b.ProcessOptions(nil, opts); err != nil {
		t.Fatalf("process options: %v", err)
	}
	if got := b.Settings.GetString("BOT_NAME"); got != "demo" {
		t.Fatalf("BOT_NAME = %q", got)
	}
	if got := b.Settings.GetString("EXTRA"); got != "a=b" {
		t.Fatalf("EXTRA = %q", got)
	}
	if got := b.Settings.GetString("LOG_LEVEL"); got != "INFO" {
		t.Fatalf("LOG_LEVEL = %q", got)
	}
	if p, _ := b.Settings.GetPriority("BOT_NAME"); p != settings.PriorityCmdline {
		t.Fatalf("priority = %v", p)
	}
	if !opts.Changed("loglevel") || opts.Changed("logfile") {
		t.Fatal("unexpected Changed results")
	}
}

func TestBaseProcessOptionsRejectsBadSet(t *testing.T) {
	b := &Base{}
	b.SetSettings(settings.New())
	opts := parseBase(t, b, "-s", "novalue")

	err := b.ProcessOptions(nil, opts)
	var usage *UsageError
	if !errors.As(err, &usage) {
		t.Fatalf("expected UsageError, got %v", err)
	}
	if usage.PrintHelp {
		t.Fatal("expected no help request")
	}
	if usage.Message != "Invalid -s value, use -s NAME=VALUE" {
		t.Fatalf("message = %q", usage.Message)
	}
}

func TestBaseProcessOptionsNoLogWins(t *testing.T) {
	b := &Base{}
	b.SetSettings(settings.New())
	opts := parseBase(t, b, "--logfile", "out.log", "--nolog")

	if err := b.ProcessOptions(nil, opts); err != nil {
		t.Fatalf("process options: %v", err)
	}
	if enabled, _ := b.Settings.GetBool("LOG_ENABLED"); enabled {
		t.Fatal("expected logging disabled")
	}
	if got := b.Settings.GetString("LOG_FILE"); got != "out.log" {
		t.Fatalf("LOG_FILE = %q", got)
	}
}

func TestBaseProcessOptionsWritesPidFile(t *testing.T) {
	b := &Base{}
	b.SetSettings(settings.New())
	path := filepath.Join(t.TempDir(), "scrapectl.pid")
	opts := parseBase(t, b, "--pidfile", path)

	if err := b.ProcessOptions(nil, opts); err != nil {
		t.Fatalf("process options: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pidfile: %v", err)
	}
	if strings.TrimSpace(string(data)) != strconv.Itoa(os.Getpid()) {
		t.Fatalf("pidfile = %q", data)
	}
}

func TestBaseProcessOptionsWithoutSettings(t *testing.T) {
	b := &Base{}
	if err := b.ProcessOptions(nil, &Options{}); err == nil {
		t.Fatal("expected error without settings")
	}
}

func TestBaseRunIsSentinel(t *testing.T) {
	b := &Base{}
	if err := b.Run(context.Background(), nil, &Options{}); err == nil {
		t.Fatal("expected sentinel Run error")
	}
}

func TestBaseRetryLimit(t *testing.T) {
	b := &Base{}
	if _, ok := b.RetryLimit(); ok {
		t.Fatal("expected no retry limit")
	}
	b.SetRetryLimit(0)
	if limit, ok := b.RetryLimit(); !ok || limit != 0 {
		t.Fatalf("RetryLimit = %d, %v", limit, ok)
	}
}

func TestBaseDivide(t *testing.T) {
	b := &Base{}
	tests := []struct {
		name    string
		x, y    float64
		want    float64
		wantErr error
	}{
		{name: "exact", x: 10, y: 4, want: 2.5},
		{name: "negative", x: -9, y: 3, want: -3},
		{name: "zero divisor", x: 1, y: 0, wantErr: ErrDivisionByZero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Calculate(b.Divide, tt.x, tt.y)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
	if _, err := b.Calculate(nil, 1, 1); err == nil {
		t.Fatal("expected error for nil op")
	}
}

func TestParseKeyValues(t *testing.T) {
	got, err := ParseKeyValues([]string{"a=1", "b=", "a=2"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got["a"] != "2" || got["b"] != "" || len(got) != 2 {
		t.Fatalf("got %#v", got)
	}
	if _, err := ParseKeyValues([]string{"=x"}); err == nil {
		t.Fatal("expected error for empty name")
	}
}
