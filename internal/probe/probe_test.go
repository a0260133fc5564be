package probe

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestSnapshotRunningEngine(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	now := start.Add(90 * time.Second)

	checks := Evaluate(runningEngine(start), Probes(), now)
	want := []Check{
		{"time()-engine.start_time", 90.0},
		{"len(engine.downloader.active)", 3},
		{"engine.scraper.is_idle()", false},
		{"engine.spider.name", "quotes"},
		{"engine.spider_is_idle()", false},
		{"engine.slot.closing", false},
		{"len(engine.slot.inprogress)", 5},
		{"len(engine.slot.scheduler.dqs or [])", 0},
		{"len(engine.slot.scheduler.mqs)", 7},
		{"len(engine.scraper.slot.queue)", 2},
		{"len(engine.scraper.slot.active)", 1},
		{"engine.scraper.slot.active_size", 2048},
		{"engine.scraper.slot.itemproc_size", 4},
		{"engine.scraper.slot.needs_backout()", false},
	}
	if !reflect.DeepEqual(checks, want) {
		t.Fatalf("unexpected checks:\n got %#v\nwant %#v", checks, want)
	}
}

func TestSnapshotIsolatesMissingSubsystem(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	e := runningEngine(start)
	e.downloader = nil

	healthy := Evaluate(runningEngine(start), Probes(), start)
	broken := Evaluate(e, Probes(), start)
	if len(broken) != len(healthy) {
		t.Fatalf("expected %d rows, got %d", len(healthy), len(broken))
	}
	for i := range broken {
		if broken[i].Expr != healthy[i].Expr {
			t.Fatalf("row %d order changed: %q vs %q", i, broken[i].Expr, healthy[i].Expr)
		}
		if broken[i].Expr == "len(engine.downloader.active)" {
			if broken[i].Result != "AttributeError (exception)" {
				t.Fatalf("expected AttributeError row, got %v", broken[i].Result)
			}
			continue
		}
		if broken[i].Result != healthy[i].Result {
			t.Fatalf("row %q changed: %v vs %v", broken[i].Expr, broken[i].Result, healthy[i].Result)
		}
	}
}

func TestSnapshotTypedNilSubsystem(t *testing.T) {
	e := runningEngine(time.Now())
	var slot *fakeSlot
	e.slot = slot

	for _, c := range Snapshot(e) {
		if strings.HasPrefix(c.Expr, "engine.slot") || strings.HasPrefix(c.Expr, "len(engine.slot") {
			if c.Result != "AttributeError (exception)" {
				t.Fatalf("%s: expected AttributeError, got %v", c.Expr, c.Result)
			}
		}
	}
}

func TestSnapshotRecoversPanics(t *testing.T) {
	e := runningEngine(time.Now())
	e.panicSpider = true

	checks := Snapshot(e)
	if len(checks) != len(Probes()) {
		t.Fatalf("expected %d rows, got %d", len(Probes()), len(checks))
	}
	for _, c := range checks {
		if c.Expr == "engine.spider.name" {
			if c.Result != "RuntimeError (exception)" {
				t.Fatalf("expected RuntimeError row, got %v", c.Result)
			}
		} else if s, ok := c.Result.(string); ok && strings.HasSuffix(s, "(exception)") {
			t.Fatalf("unexpected fault in %s: %v", c.Expr, s)
		}
	}
}

func TestSnapshotNilEngine(t *testing.T) {
	for _, c := range Snapshot(nil) {
		if c.Result != "AttributeError (exception)" {
			t.Fatalf("%s: expected AttributeError, got %v", c.Expr, c.Result)
		}
	}
}

func TestSnapshotNotStarted(t *testing.T) {
	e := runningEngine(time.Time{})
	checks := Snapshot(e)
	if checks[0].Result != "TypeError (exception)" {
		t.Fatalf("expected TypeError for unset start time, got %v", checks[0].Result)
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	e := runningEngine(start)
	e.scraper = nil
	now := start.Add(time.Minute)

	first := Evaluate(e, Probes(), now)
	second := Evaluate(e, Probes(), now)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("snapshots differ:\n%#v\n%#v", first, second)
	}
}

func TestEvaluateCustomProbeErrors(t *testing.T) {
	probes := []Probe{
		{"plain", func(Engine, time.Time) (any, error) { return nil, errors.New("boom") }},
		{"missing", nil},
		{"panic", func(Engine, time.Time) (any, error) { panic("bad") }},
		{"ok", func(Engine, time.Time) (any, error) { return 1, nil }},
	}
	checks := Evaluate(nil, probes, time.Now())
	want := []any{"Error (exception)", "TypeError (exception)", "Panic (exception)", 1}
	for i, c := range checks {
		if c.Result != want[i] {
			t.Fatalf("row %d: got %v, want %v", i, c.Result, want[i])
		}
	}
}

func TestFaultKind(t *testing.T) {
	if got := FaultKind(&AttributeError{Owner: "engine", Name: "slot"}); got != "AttributeError" {
		t.Fatalf("got %q", got)
	}
	if got := FaultKind(ExportedError{}); got != "ExportedError" {
		t.Fatalf("got %q", got)
	}
	if got := FaultKind(&PanicError{Value: &TypeError{}}); got != "TypeError" {
		t.Fatalf("got %q", got)
	}
}

type ExportedError struct{}

func (ExportedError) Error() string { return "exported" }

func TestFormatChecks(t *testing.T) {
	out := FormatChecks([]Check{
		{"engine.spider.name", "quotes"},
		{"engine.slot.closing", "AttributeError (exception)"},
	})
	lines := strings.Split(out, "\n")
	if lines[0] != "Execution engine status" || lines[1] != "" {
		t.Fatalf("unexpected header: %q", out)
	}
	wantRow := "engine.spider.name" + strings.Repeat(" ", 47-len("engine.spider.name")) + " : quotes"
	if lines[2] != wantRow {
		t.Fatalf("unexpected row:\n got %q\nwant %q", lines[2], wantRow)
	}
	if !strings.HasSuffix(out, "(exception)\n\n") {
		t.Fatalf("expected trailing blank line, got %q", out)
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, runningEngine(time.Now())); err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.Contains(buf.String(), "engine.spider.name") {
		t.Fatalf("expected report, got %q", buf.String())
	}
}
