// Package printing renders and prints visitor badges after a check-in.
package printing

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"visitor-kiosk/internal/badge"
	"visitor-kiosk/internal/model"
)

// Renderer turns a badge layout into an image.
type Renderer interface {
	Render(l badge.Layout) ([]byte, error)
}

// Sequencer prints exactly one badge per completed check-in, after a short
// delay. A visitor already waiting to print is ignored.
type Sequencer struct {
	renderer Renderer
	printer  Printer
	delay    time.Duration
	timeout  time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	pending map[int64]*time.Timer
	last    []byte
	wg      sync.WaitGroup
}

// NewSequencer creates a print sequencer.
func NewSequencer(renderer Renderer, printer Printer, delay time.Duration, log *zap.Logger) *Sequencer {
	return &Sequencer{
		renderer: renderer,
		printer:  printer,
		delay:    delay,
		timeout:  30 * time.Second,
		log:      log,
		pending:  make(map[int64]*time.Timer),
	}
}

// Trigger schedules the badge of v. It reports false when v is already
// scheduled.
func (s *Sequencer) Trigger(v model.Visitor) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[v.VisitorID]; ok {
		s.log.Debug("badge already scheduled, ignoring trigger", zap.Int64("visitor_id", v.VisitorID))
		return false
	}

	layout := badge.LayoutFor(v)
	s.wg.Add(1)
	s.pending[v.VisitorID] = time.AfterFunc(s.delay, func() {
		defer s.wg.Done()
		s.print(layout)
	})
	return true
}

// Pending reports whether a badge for the visitor is waiting to print.
func (s *Sequencer) Pending(visitorID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[visitorID]
	return ok
}

// Last returns the most recently rendered badge, or nil.
func (s *Sequencer) Last() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Stop cancels every scheduled badge and waits for a running print.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	for id, timer := range s.pending {
		if timer.Stop() {
			s.wg.Done()
		}
		delete(s.pending, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Sequencer) print(l badge.Layout) {
	defer func() {
		s.mu.Lock()
		delete(s.pending, l.VisitorID)
		s.mu.Unlock()
	}()

	img, err := s.renderer.Render(l)
	if err != nil {
		s.log.Error("failed to render badge", zap.Int64("visitor_id", l.VisitorID), zap.Error(err))
		return
	}

	s.mu.Lock()
	s.last = img
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.printer.Print(ctx, l.VisitorID, img); err != nil {
		s.log.Error("failed to print badge", zap.Int64("visitor_id", l.VisitorID), zap.Error(err))
		return
	}
	s.log.Info("badge printed", zap.Int64("visitor_id", l.VisitorID), zap.String("guest", l.GuestName))
}
