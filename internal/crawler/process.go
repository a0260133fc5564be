// Package crawler is the runtime handle the dispatcher attaches to commands.
// It knows which spiders the project registered and runs one at a time
// against an Engine whose state the status probes can read.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/louisbranch/scrapectl/internal/settings"
)

// DefaultMaxActiveSize is the scraper backlog in bytes above which the engine
// asks for backout.
const DefaultMaxActiveSize = 5_000_000

// Spider is project code that crawls using an Engine for bookkeeping.
type Spider interface {
	Name() string
	Crawl(ctx context.Context, e *Engine, args map[string]string) error
}

// SpiderFactory builds a fresh spider for one crawl.
type SpiderFactory func() Spider

// ErrSpiderNotFound is returned when no spider is registered under a name.
var ErrSpiderNotFound = errors.New("spider not found")

var (
	spidersMu sync.RWMutex
	spiders   = map[string]SpiderFactory{}
)

// RegisterSpider makes a spider available to every Process. A later
// registration with the same name replaces the earlier one.
func RegisterSpider(name string, factory SpiderFactory) {
	spidersMu.Lock()
	defer spidersMu.Unlock()
	spiders[name] = factory
}

func lookupSpider(name string) (SpiderFactory, bool) {
	spidersMu.RLock()
	defer spidersMu.RUnlock()
	f, ok := spiders[name]
	return f, ok
}

// SpiderNames lists registered spiders in order.
func SpiderNames() []string {
	spidersMu.RLock()
	defer spidersMu.RUnlock()
	names := make([]string, 0, len(spiders))
	for name := range spiders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Process runs crawls with one settings object.
type Process struct {
	Settings *settings.Settings

	mu     sync.Mutex
	engine *Engine
	now    func() time.Time
}

// NewProcess returns a process bound to s.
func NewProcess(s *settings.Settings) *Process {
	return &Process{Settings: s, now: time.Now}
}

// Engine returns the engine of the current or last crawl, or nil before the
// first crawl.
func (p *Process) Engine() *Engine {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engine
}

// SpiderNames lists the spiders this process can run.
func (p *Process) SpiderNames() []string {
	return SpiderNames()
}

// Crawl runs the named spider to completion.
func (p *Process) Crawl(ctx context.Context, name string, args map[string]string) error {
	factory, ok := lookupSpider(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSpiderNotFound, name)
	}
	spider := factory()
	if spider == nil {
		return fmt.Errorf("spider factory %s returned nil", name)
	}

	maxActive := int64(DefaultMaxActiveSize)
	withDisk := false
	if p.Settings != nil {
		if v, err := p.Settings.GetInt("SCRAPER_SLOT_MAX_ACTIVE_SIZE"); err == nil && v > 0 {
			maxActive = int64(v)
		}
		withDisk = p.Settings.GetString("JOBDIR") != ""
	}

	engine := NewEngine()
	engine.Open(spider, withDisk, maxActive, p.now())
	p.mu.Lock()
	p.engine = engine
	p.mu.Unlock()

	defer engine.Close()
	if err := spider.Crawl(ctx, engine, args); err != nil {
		return fmt.Errorf("crawl %s: %w", name, err)
	}
	return nil
}
