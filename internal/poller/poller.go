// Package poller keeps the kiosk's read models fresh.
package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"visitor-kiosk/internal/model"
)

// Model identifies one cached read model.
type Model int

const (
	Visitors Model = iota
	Pending
	Room
	MediaFiles
)

func (m Model) String() string {
	switch m {
	case Visitors:
		return "visitors"
	case Pending:
		return "pending"
	case Room:
		return "room"
	case MediaFiles:
		return "media"
	}
	return "unknown"
}

// Source is the part of the gateway client the poller reads from.
type Source interface {
	Visitors(ctx context.Context) ([]model.Visitor, error)
	PendingVisitors(ctx context.Context) ([]model.Visitor, error)
	RoomStatus(ctx context.Context) (model.RoomStatus, error)
	MediaList(ctx context.Context) ([]string, error)
}

// Poller refreshes each read model on its own single-flight guard. A failed
// fetch keeps the previous value.
type Poller struct {
	src           Source
	interval      time.Duration
	mediaInterval time.Duration
	log           *zap.Logger
	onUpdate      func(Model)

	mu       sync.RWMutex
	visitors []model.Visitor
	pending  []model.Visitor
	room     *model.RoomStatus
	media    []string

	flights [4]flight
	wg      sync.WaitGroup
}

// New creates a poller. A zero mediaInterval loads the media list only once.
func New(src Source, interval, mediaInterval time.Duration, log *zap.Logger) *Poller {
	return &Poller{
		src:           src,
		interval:      interval,
		mediaInterval: mediaInterval,
		log:           log,
		visitors:      []model.Visitor{},
		pending:       []model.Visitor{},
		media:         []string{},
	}
}

// OnUpdate registers a callback invoked after a read model changes. It must
// be set before Run.
func (p *Poller) OnUpdate(fn func(Model)) {
	p.onUpdate = fn
}

// Run loads every read model and keeps them fresh until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	p.log.Info("starting poller",
		zap.Duration("interval", p.interval),
		zap.Duration("media_interval", p.mediaInterval))

	p.Refresh(ctx, Visitors, Pending, Room, MediaFiles)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var mediaTick <-chan time.Time
	if p.mediaInterval > 0 {
		mediaTicker := time.NewTicker(p.mediaInterval)
		defer mediaTicker.Stop()
		mediaTick = mediaTicker.C
	}

	for {
		select {
		case <-ctx.Done():
			p.log.Info("poller shutting down")
			return
		case <-ticker.C:
			p.Refresh(ctx, Visitors, Pending, Room)
		case <-mediaTick:
			p.Refresh(ctx, MediaFiles)
		}
	}
}

// Refresh triggers the given read models without blocking. A model that is
// already being fetched gets one follow-up fetch at most.
func (p *Poller) Refresh(ctx context.Context, models ...Model) {
	if ctx.Err() != nil {
		return
	}
	for _, m := range models {
		m := m
		if !p.flights[m].begin() {
			continue
		}
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				p.fetch(ctx, m)
				if !p.flights[m].next() {
					return
				}
			}
		}()
	}
}

// Wait blocks until no fetch is in flight. It must not race with Refresh.
func (p *Poller) Wait() {
	p.wg.Wait()
}

// Visitors returns the cached visible visitors.
func (p *Poller) Visitors() []model.Visitor {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.visitors
}

// Pending returns the cached visitors waiting to check in.
func (p *Poller) Pending() []model.Visitor {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pending
}

// RoomStatus returns the cached room status, or nil before the first load.
func (p *Poller) RoomStatus() *model.RoomStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.room
}

// Media returns the cached slideshow file names.
func (p *Poller) Media() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.media
}

func (p *Poller) fetch(ctx context.Context, m Model) {
	if ctx.Err() != nil {
		return
	}

	var err error
	switch m {
	case Visitors:
		var v []model.Visitor
		if v, err = p.src.Visitors(ctx); err == nil {
			p.mu.Lock()
			p.visitors = orEmpty(v)
			p.mu.Unlock()
		}
	case Pending:
		var v []model.Visitor
		if v, err = p.src.PendingVisitors(ctx); err == nil {
			p.mu.Lock()
			p.pending = orEmpty(v)
			p.mu.Unlock()
		}
	case Room:
		var status model.RoomStatus
		if status, err = p.src.RoomStatus(ctx); err == nil {
			p.mu.Lock()
			p.room = &status
			p.mu.Unlock()
		}
	case MediaFiles:
		var files []string
		if files, err = p.src.MediaList(ctx); err == nil {
			if files == nil {
				files = []string{}
			}
			p.mu.Lock()
			p.media = files
			p.mu.Unlock()
		}
	}

	if err != nil {
		p.log.Warn("failed to refresh read model, keeping cached value", zap.Stringer("model", m), zap.Error(err))
		return
	}
	if p.onUpdate != nil {
		p.onUpdate(m)
	}
}

func orEmpty(v []model.Visitor) []model.Visitor {
	if v == nil {
		return []model.Visitor{}
	}
	return v
}

// flight allows one running fetch and one queued follow-up.
type flight struct {
	mu      sync.Mutex
	running bool
	queued  bool
}

// begin reports whether the caller should start a fetch loop.
func (f *flight) begin() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.running {
		f.queued = true
		return false
	}
	f.running = true
	return true
}

// next reports whether a queued fetch must run before the loop ends.
func (f *flight) next() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queued {
		f.queued = false
		return true
	}
	f.running = false
	return false
}
