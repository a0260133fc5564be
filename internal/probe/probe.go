// Package probe reports the live state of a crawl engine for debugging.
//
// Every probe is evaluated on its own: a probe that fails, including by
// panicking, is reported as "<Kind> (exception)" and never hides the others.
// The engine graph is read-only here and may be half built or changing.
package probe

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"time"
)

// Engine is the subsystem graph the probes read.
type Engine interface {
	StartTime() time.Time
	Downloader() Downloader
	Scraper() Scraper
	Spider() Spider
	SpiderIsIdle() bool
	Slot() Slot
}

// Downloader exposes the in-flight request count.
type Downloader interface {
	Active() int
}

// Scraper exposes the scraper idle state and its slot.
type Scraper interface {
	IsIdle() bool
	Slot() ScraperSlot
}

// ScraperSlot exposes scraper queue depths and backpressure.
type ScraperSlot interface {
	Queue() int
	Active() int
	ActiveSize() int
	ItemProcSize() int
	NeedsBackout() bool
}

// Spider exposes the running spider.
type Spider interface {
	Name() string
}

// Slot exposes the engine slot of the running spider.
type Slot interface {
	Closing() bool
	InProgress() int
	Scheduler() Scheduler
}

// Scheduler exposes scheduler queue depths. DiskQueue reports false when the
// scheduler has no disk queue.
type Scheduler interface {
	DiskQueue() (int, bool)
	MemoryQueue() int
}

// AttributeError reports a subsystem that is not available yet.
type AttributeError struct {
	Owner string
	Name  string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("%s has no attribute %q", e.Owner, e.Name)
}

// Kind names the fault in report rows.
func (e *AttributeError) Kind() string { return "AttributeError" }

// TypeError reports a value that exists but cannot be used by the probe.
type TypeError struct {
	Message string
}

func (e *TypeError) Error() string { return e.Message }

func (e *TypeError) Kind() string { return "TypeError" }

// RuntimeError wraps a runtime panic recovered while probing.
type RuntimeError struct {
	Cause runtime.Error
}

func (e *RuntimeError) Error() string { return e.Cause.Error() }

func (e *RuntimeError) Unwrap() error { return e.Cause }

func (e *RuntimeError) Kind() string { return "RuntimeError" }

// PanicError wraps a non-runtime panic value recovered while probing.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprint(e.Value) }

func (e *PanicError) Kind() string {
	if err, ok := e.Value.(error); ok {
		return FaultKind(err)
	}
	return "Panic"
}

// FaultKind names err for a report row: the Kind method when present, else the
// exported type name, else "Error".
func FaultKind(err error) string {
	var kinded interface{ Kind() string }
	if errors.As(err, &kinded) {
		return kinded.Kind()
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" || !isExported(t.Name()) {
		return "Error"
	}
	return t.Name()
}

func isExported(name string) bool {
	r := name[0]
	return r >= 'A' && r <= 'Z'
}

// isNil reports nil interfaces and interfaces holding typed nil pointers.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
