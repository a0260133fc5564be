package probe

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"
)

// Probe is one diagnostic expression and the function that evaluates it.
type Probe struct {
	Expr string
	Eval func(e Engine, now time.Time) (any, error)
}

// Check is one report row: the probe expression and its value or fault tag.
type Check struct {
	Expr   string
	Result any
}

var engineProbes = []Probe{
	{"time()-engine.start_time", func(e Engine, now time.Time) (any, error) {
		root, err := engine(e)
		if err != nil {
			return nil, err
		}
		start := root.StartTime()
		if start.IsZero() {
			return nil, &TypeError{Message: "engine start time is not set"}
		}
		return now.Sub(start).Seconds(), nil
	}},
	{"len(engine.downloader.active)", func(e Engine, _ time.Time) (any, error) {
		d, err := downloader(e)
		if err != nil {
			return nil, err
		}
		return d.Active(), nil
	}},
	{"engine.scraper.is_idle()", func(e Engine, _ time.Time) (any, error) {
		s, err := scraper(e)
		if err != nil {
			return nil, err
		}
		return s.IsIdle(), nil
	}},
	{"engine.spider.name", func(e Engine, _ time.Time) (any, error) {
		root, err := engine(e)
		if err != nil {
			return nil, err
		}
		sp := root.Spider()
		if isNil(sp) {
			return nil, &AttributeError{Owner: "engine", Name: "spider"}
		}
		return sp.Name(), nil
	}},
	{"engine.spider_is_idle()", func(e Engine, _ time.Time) (any, error) {
		root, err := engine(e)
		if err != nil {
			return nil, err
		}
		return root.SpiderIsIdle(), nil
	}},
	{"engine.slot.closing", func(e Engine, _ time.Time) (any, error) {
		s, err := slot(e)
		if err != nil {
			return nil, err
		}
		return s.Closing(), nil
	}},
	{"len(engine.slot.inprogress)", func(e Engine, _ time.Time) (any, error) {
		s, err := slot(e)
		if err != nil {
			return nil, err
		}
		return s.InProgress(), nil
	}},
	{"len(engine.slot.scheduler.dqs or [])", func(e Engine, _ time.Time) (any, error) {
		s, err := scheduler(e)
		if err != nil {
			return nil, err
		}
		n, ok := s.DiskQueue()
		if !ok {
			return 0, nil
		}
		return n, nil
	}},
	{"len(engine.slot.scheduler.mqs)", func(e Engine, _ time.Time) (any, error) {
		s, err := scheduler(e)
		if err != nil {
			return nil, err
		}
		return s.MemoryQueue(), nil
	}},
	{"len(engine.scraper.slot.queue)", func(e Engine, _ time.Time) (any, error) {
		s, err := scraperSlot(e)
		if err != nil {
			return nil, err
		}
		return s.Queue(), nil
	}},
	{"len(engine.scraper.slot.active)", func(e Engine, _ time.Time) (any, error) {
		s, err := scraperSlot(e)
		if err != nil {
			return nil, err
		}
		return s.Active(), nil
	}},
	{"engine.scraper.slot.active_size", func(e Engine, _ time.Time) (any, error) {
		s, err := scraperSlot(e)
		if err != nil {
			return nil, err
		}
		return s.ActiveSize(), nil
	}},
	{"engine.scraper.slot.itemproc_size", func(e Engine, _ time.Time) (any, error) {
		s, err := scraperSlot(e)
		if err != nil {
			return nil, err
		}
		return s.ItemProcSize(), nil
	}},
	{"engine.scraper.slot.needs_backout()", func(e Engine, _ time.Time) (any, error) {
		s, err := scraperSlot(e)
		if err != nil {
			return nil, err
		}
		return s.NeedsBackout(), nil
	}},
}

// Probes returns a copy of the fixed engine probe list.
func Probes() []Probe {
	return append([]Probe(nil), engineProbes...)
}

// Snapshot evaluates every engine probe against e at the current time.
func Snapshot(e Engine) []Check {
	return Evaluate(e, engineProbes, time.Now())
}

// Evaluate runs probes against e in order, isolating each probe's failure.
func Evaluate(e Engine, probes []Probe, now time.Time) []Check {
	checks := make([]Check, 0, len(probes))
	for _, p := range probes {
		value, err := evalOne(p, e, now)
		if err != nil {
			checks = append(checks, Check{Expr: p.Expr, Result: FaultKind(err) + " (exception)"})
			continue
		}
		checks = append(checks, Check{Expr: p.Expr, Result: value})
	}
	return checks
}

func evalOne(p Probe, e Engine, now time.Time) (value any, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if rerr, ok := r.(runtime.Error); ok {
			err = &RuntimeError{Cause: rerr}
			return
		}
		err = &PanicError{Value: r}
	}()
	if p.Eval == nil {
		return nil, &TypeError{Message: "probe has no evaluator"}
	}
	return p.Eval(e, now)
}

// FormatChecks renders checks as the status report.
func FormatChecks(checks []Check) string {
	var b strings.Builder
	b.WriteString("Execution engine status\n\n")
	for _, c := range checks {
		fmt.Fprintf(&b, "%-47s : %v\n", c.Expr, c.Result)
	}
	b.WriteString("\n")
	return b.String()
}

// Format snapshots e and renders the report.
func Format(e Engine) string {
	return FormatChecks(Snapshot(e))
}

// Print writes the report for e to w.
func Print(w io.Writer, e Engine) error {
	_, err := fmt.Fprintln(w, Format(e))
	return err
}

func engine(e Engine) (Engine, error) {
	if isNil(e) {
		return nil, &AttributeError{Owner: "NoneType", Name: "engine"}
	}
	return e, nil
}

func downloader(e Engine) (Downloader, error) {
	root, err := engine(e)
	if err != nil {
		return nil, err
	}
	d := root.Downloader()
	if isNil(d) {
		return nil, &AttributeError{Owner: "engine", Name: "downloader"}
	}
	return d, nil
}

func scraper(e Engine) (Scraper, error) {
	root, err := engine(e)
	if err != nil {
		return nil, err
	}
	s := root.Scraper()
	if isNil(s) {
		return nil, &AttributeError{Owner: "engine", Name: "scraper"}
	}
	return s, nil
}

func scraperSlot(e Engine) (ScraperSlot, error) {
	s, err := scraper(e)
	if err != nil {
		return nil, err
	}
	slot := s.Slot()
	if isNil(slot) {
		return nil, &AttributeError{Owner: "scraper", Name: "slot"}
	}
	return slot, nil
}

func slot(e Engine) (Slot, error) {
	root, err := engine(e)
	if err != nil {
		return nil, err
	}
	s := root.Slot()
	if isNil(s) {
		return nil, &AttributeError{Owner: "engine", Name: "slot"}
	}
	return s, nil
}

func scheduler(e Engine) (Scheduler, error) {
	s, err := slot(e)
	if err != nil {
		return nil, err
	}
	sched := s.Scheduler()
	if isNil(sched) {
		return nil, &AttributeError{Owner: "slot", Name: "scheduler"}
	}
	return sched, nil
}
