package cmdline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/louisbranch/scrapectl/internal/command"
	"github.com/louisbranch/scrapectl/internal/platform/config"
	"github.com/louisbranch/scrapectl/internal/platform/logging"
	"github.com/louisbranch/scrapectl/internal/registry"
	"github.com/louisbranch/scrapectl/internal/settings"
)

type fakeBuilder struct {
	table     registry.Table
	err       error
	gotModule string
	gotInProj bool
}

func (b *fakeBuilder) Build(projectModule string, inProject bool) (registry.Table, error) {
	b.gotModule = projectModule
	b.gotInProj = inProject
	return b.table, b.err
}

type fakeProfiler struct {
	data  []byte
	calls int
}

func (p *fakeProfiler) Profile(fn func() error) ([]byte, error) {
	p.calls++
	return p.data, fn()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// recordingCommand records what the dispatcher hands it at each step.
type recordingCommand struct {
	command.Base

	short    string
	defaults map[string]any
	name     string

	processErr error
	runErr     error
	runExit    int

	gotArgs []string
	gotOpts *command.Options
	ran     bool
}

func (c *recordingCommand) Syntax() string { return "[options] <spider>" }

func (c *recordingCommand) ShortDesc() string { return c.short }

func (c *recordingCommand) DefaultSettings() map[string]any { return c.defaults }

func (c *recordingCommand) AddOptions(p command.Parser, opts *command.Options) {
	c.Base.AddOptions(p, opts)
	p.StringVar(&c.name, "name", "n", "", "a name")
}

func (c *recordingCommand) ProcessOptions(args []string, opts *command.Options) error {
	if err := c.Base.ProcessOptions(args, opts); err != nil {
		return err
	}
	return c.processErr
}

func (c *recordingCommand) Run(_ context.Context, args []string, opts *command.Options) error {
	c.ran = true
	c.gotArgs = append([]string(nil), args...)
	c.gotOpts = opts
	if c.runExit != 0 {
		c.SetExitCode(c.runExit)
	}
	return c.runErr
}

type harness struct {
	c        *Controller
	builder  *fakeBuilder
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	profiler *fakeProfiler
}

func newHarness(t *testing.T, table registry.Table) *harness {
	t.Helper()
	wd := t.TempDir()
	h := &harness{
		builder:  &fakeBuilder{table: table},
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
		profiler: &fakeProfiler{data: []byte("profile")},
	}
	h.c = New(config.Env{Locale: "en-US"})
	h.c.Version = "1.2.3"
	h.c.Stdin = strings.NewReader("")
	h.c.Stdout = h.stdout
	h.c.Stderr = h.stderr
	h.c.Builder = h.builder
	h.c.Getwd = func() (string, error) { return wd, nil }
	h.c.Lookup = func(string) (string, bool) { return "", false }
	h.c.Logging = func(logging.Settings, io.Writer) (io.Closer, error) { return nopCloser{}, nil }
	h.c.Profiler = h.profiler
	return h
}

func (h *harness) execute(args ...string) int {
	return h.c.Execute(context.Background(), args, settings.New())
}

var errBoom = errors.New("boom")
