package crawler

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/louisbranch/scrapectl/internal/probe"
)

// Engine holds the observable state of one crawl. Spiders update it while
// they run; the status probes read it from any goroutine.
type Engine struct {
	mu         sync.RWMutex
	startTime  time.Time
	spider     Spider
	downloader *Downloader
	scraper    *Scraper
	slot       *Slot
}

var _ probe.Engine = (*Engine)(nil)

// NewEngine returns an engine with its downloader and scraper but no open
// spider.
func NewEngine() *Engine {
	return &Engine{
		downloader: &Downloader{},
		scraper:    &Scraper{},
	}
}

// Open starts tracking spider. maxActiveSize bounds the scraper backlog
// before NeedsBackout reports true.
func (e *Engine) Open(spider Spider, withDiskQueue bool, maxActiveSize int64, now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	sched := &Scheduler{}
	if withDiskQueue {
		sched.dqs = &atomic.Int64{}
	}
	e.spider = spider
	e.startTime = now
	e.slot = &Slot{scheduler: sched}
	e.scraper.setSlot(&ScraperSlot{maxActiveSize: maxActiveSize})
}

// Close marks the spider slot as closing.
func (e *Engine) Close() {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.slot != nil {
		e.slot.closing.Store(true)
	}
}

func (e *Engine) StartTime() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.startTime
}

func (e *Engine) Downloader() probe.Downloader {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.downloader == nil {
		return nil
	}
	return e.downloader
}

func (e *Engine) Scraper() probe.Scraper {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.scraper == nil {
		return nil
	}
	return e.scraper
}

func (e *Engine) Spider() probe.Spider {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.spider == nil {
		return nil
	}
	return e.spider
}

func (e *Engine) Slot() probe.Slot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.slot == nil {
		return nil
	}
	return e.slot
}

// Tracker returns the engine slot as a concrete value for spiders to update.
func (e *Engine) Tracker() (*Slot, *Downloader, *ScraperSlot) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.slot, e.downloader, e.scraper.slotValue()
}

// SpiderIsIdle reports whether nothing is downloading, queued or scraping.
func (e *Engine) SpiderIsIdle() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.downloader != nil && e.downloader.active.Load() > 0 {
		return false
	}
	if e.slot != nil && (e.slot.inProgress.Load() > 0 || e.slot.scheduler.pending() > 0) {
		return false
	}
	return e.scraper == nil || e.scraper.IsIdle()
}

// Downloader counts in-flight requests.
type Downloader struct {
	active atomic.Int64
}

func (d *Downloader) Active() int { return int(d.active.Load()) }

// Begin records a request entering the downloader.
func (d *Downloader) Begin() { d.active.Add(1) }

// Done records a request leaving the downloader.
func (d *Downloader) Done() { d.active.Add(-1) }

// Scraper tracks the scraper slot of the open spider.
type Scraper struct {
	mu   sync.RWMutex
	slot *ScraperSlot
}

func (s *Scraper) setSlot(slot *ScraperSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slot = slot
}

func (s *Scraper) slotValue() *ScraperSlot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slot
}

func (s *Scraper) IsIdle() bool {
	slot := s.slotValue()
	return slot == nil || (slot.queue.Load() == 0 && slot.active.Load() == 0)
}

func (s *Scraper) Slot() probe.ScraperSlot {
	slot := s.slotValue()
	if slot == nil {
		return nil
	}
	return slot
}

// ScraperSlot tracks responses waiting for and going through the spider
// callbacks and item pipelines.
type ScraperSlot struct {
	queue         atomic.Int64
	active        atomic.Int64
	activeSize    atomic.Int64
	itemProcSize  atomic.Int64
	maxActiveSize int64
}

func (s *ScraperSlot) Queue() int         { return int(s.queue.Load()) }
func (s *ScraperSlot) Active() int        { return int(s.active.Load()) }
func (s *ScraperSlot) ActiveSize() int    { return int(s.activeSize.Load()) }
func (s *ScraperSlot) ItemProcSize() int  { return int(s.itemProcSize.Load()) }
func (s *ScraperSlot) NeedsBackout() bool { return s.activeSize.Load() > s.maxActiveSize }

// Enqueue records a response of size bytes waiting to be scraped.
func (s *ScraperSlot) Enqueue(size int64) {
	s.queue.Add(1)
	s.activeSize.Add(size)
}

// Start moves one queued response into active processing.
func (s *ScraperSlot) Start() {
	s.queue.Add(-1)
	s.active.Add(1)
}

// Finish records a response of size bytes leaving the scraper.
func (s *ScraperSlot) Finish(size int64) {
	s.active.Add(-1)
	s.activeSize.Add(-size)
}

// Slot is the engine slot for the open spider.
type Slot struct {
	closing    atomic.Bool
	inProgress atomic.Int64
	scheduler  *Scheduler
}

func (s *Slot) Closing() bool   { return s.closing.Load() }
func (s *Slot) InProgress() int { return int(s.inProgress.Load()) }

func (s *Slot) Scheduler() probe.Scheduler {
	if s.scheduler == nil {
		return nil
	}
	return s.scheduler
}

// Add records a request taken from the scheduler.
func (s *Slot) Add() { s.inProgress.Add(1) }

// Remove records a finished request.
func (s *Slot) Remove() { s.inProgress.Add(-1) }

// Scheduler counts pending requests. The disk queue is optional.
type Scheduler struct {
	dqs *atomic.Int64
	mqs atomic.Int64
}

func (s *Scheduler) DiskQueue() (int, bool) {
	if s.dqs == nil {
		return 0, false
	}
	return int(s.dqs.Load()), true
}

func (s *Scheduler) MemoryQueue() int { return int(s.mqs.Load()) }

// Push records a request entering the memory queue.
func (s *Scheduler) Push() { s.mqs.Add(1) }

// Pop records a request leaving the memory queue.
func (s *Scheduler) Pop() { s.mqs.Add(-1) }

func (s *Scheduler) pending() int64 {
	if s == nil {
		return 0
	}
	n := s.mqs.Load()
	if s.dqs != nil {
		n += s.dqs.Load()
	}
	return n
}
