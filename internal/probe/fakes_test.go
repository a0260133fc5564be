package probe

import "time"

type fakeEngine struct {
	start       time.Time
	downloader  Downloader
	scraper     Scraper
	spider      Spider
	spiderIdle  bool
	slot        Slot
	panicSpider bool
}

func (f *fakeEngine) StartTime() time.Time   { return f.start }
func (f *fakeEngine) Downloader() Downloader { return f.downloader }
func (f *fakeEngine) Scraper() Scraper       { return f.scraper }
func (f *fakeEngine) SpiderIsIdle() bool     { return f.spiderIdle }
func (f *fakeEngine) Slot() Slot             { return f.slot }

func (f *fakeEngine) Spider() Spider {
	if f.panicSpider {
		var m map[string]Spider
		m["x"] = nil
	}
	return f.spider
}

type fakeDownloader struct{ active int }

func (f *fakeDownloader) Active() int { return f.active }

type fakeScraper struct {
	idle bool
	slot ScraperSlot
}

func (f *fakeScraper) IsIdle() bool      { return f.idle }
func (f *fakeScraper) Slot() ScraperSlot { return f.slot }

type fakeScraperSlot struct {
	queue, active, activeSize, itemProcSize int
	backout                                 bool
}

func (f *fakeScraperSlot) Queue() int         { return f.queue }
func (f *fakeScraperSlot) Active() int        { return f.active }
func (f *fakeScraperSlot) ActiveSize() int    { return f.activeSize }
func (f *fakeScraperSlot) ItemProcSize() int  { return f.itemProcSize }
func (f *fakeScraperSlot) NeedsBackout() bool { return f.backout }

type fakeSpider struct{ name string }

func (f fakeSpider) Name() string { return f.name }

type fakeSlot struct {
	closing    bool
	inProgress int
	scheduler  Scheduler
}

func (f *fakeSlot) Closing() bool        { return f.closing }
func (f *fakeSlot) InProgress() int      { return f.inProgress }
func (f *fakeSlot) Scheduler() Scheduler { return f.scheduler }

type fakeScheduler struct {
	dqs    int
	hasDQS bool
	mqs    int
}

func (f *fakeScheduler) DiskQueue() (int, bool) { return f.dqs, f.hasDQS }
func (f *fakeScheduler) MemoryQueue() int       { return f.mqs }

func runningEngine(start time.Time) *fakeEngine {
	return &fakeEngine{
		start:      start,
		downloader: &fakeDownloader{active: 3},
		scraper: &fakeScraper{slot: &fakeScraperSlot{
			queue: 2, active: 1, activeSize: 2048, itemProcSize: 4,
		}},
		spider: fakeSpider{name: "quotes"},
		slot: &fakeSlot{
			inProgress: 5,
			scheduler:  &fakeScheduler{mqs: 7},
		},
	}
}
