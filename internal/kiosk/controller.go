// Package kiosk drives the lobby display: the check-in workflow, its
// document gate and the rotations shown around it.
package kiosk

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"visitor-kiosk/config"
	"visitor-kiosk/internal/gateway"
	"visitor-kiosk/internal/i18n"
	"visitor-kiosk/internal/model"
	"visitor-kiosk/internal/poller"
	"visitor-kiosk/internal/rotation"
)

// Gateway is the part of the gateway client the workflow writes through.
type Gateway interface {
	Document(ctx context.Context) ([]byte, error)
	AcceptDocument(ctx context.Context, visitorID int64) (gateway.ActionResult, error)
	CheckIn(ctx context.Context, visitorID int64) (gateway.ActionResult, error)
}

// ReadModels exposes the polled data.
type ReadModels interface {
	Visitors() []model.Visitor
	Pending() []model.Visitor
	RoomStatus() *model.RoomStatus
	Media() []string
	Refresh(ctx context.Context, models ...poller.Model)
}

// BadgePrinter is triggered once per completed check-in.
type BadgePrinter interface {
	Trigger(v model.Visitor) bool
}

// Options tunes the controller's timers.
type Options struct {
	Gate          time.Duration
	WelcomePeriod time.Duration
	RoomPeriod    time.Duration
	VisitorPeriod time.Duration
	MediaPeriod   time.Duration
	Now           func() time.Time
}

// OptionsFrom derives controller options from the kiosk configuration.
func OptionsFrom(cfg config.KioskConfig) Options {
	return Options{
		Gate:          cfg.Gate,
		WelcomePeriod: config.Millis(cfg.Rotation.WelcomeMillis),
		RoomPeriod:    config.Millis(cfg.Rotation.RoomMillis),
		VisitorPeriod: config.Millis(cfg.Rotation.VisitorMillis),
		MediaPeriod:   config.Millis(cfg.Rotation.MediaMillis),
	}
}

// workflow is the state of the one visitor going through check-in. visitor
// is nil exactly when state is Idle.
type workflow struct {
	state       State
	visitor     *model.Visitor
	document    []byte
	docAccepted bool
	err         error
	gen         uint64
	gate        *time.Timer
}

// Controller owns the kiosk's workflow and display state.
type Controller struct {
	gw      Gateway
	models  ReadModels
	printer BadgePrinter
	rot     *rotation.Composer
	gate    time.Duration
	now     func() time.Time
	log     *zap.Logger

	ctx context.Context

	// mu guards wf. Rotation suspension changes under mu together with
	// wf.state so it cannot disagree with the modal being on screen.
	mu sync.Mutex
	wf workflow

	visitorCount atomic.Int64
	mediaCount   atomic.Int64

	subsMu sync.Mutex
	subs   map[chan struct{}]struct{}
}

// New creates a controller. Call Start before use.
func New(gw Gateway, models ReadModels, printer BadgePrinter, opts Options, log *zap.Logger) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	c := &Controller{
		gw:      gw,
		models:  models,
		printer: printer,
		gate:    opts.Gate,
		now:     opts.Now,
		log:     log,
		ctx:     context.Background(),
		subs:    make(map[chan struct{}]struct{}),
	}

	c.rot = rotation.NewComposer(func(string, int) { c.changed() })
	c.rot.Add(rotation.Track{Name: rotation.Welcome, Period: opts.WelcomePeriod, Size: fixedSize(len(i18n.Welcomes))})
	c.rot.Add(rotation.Track{Name: rotation.Room, Period: opts.RoomPeriod, Size: fixedSize(len(i18n.RoomLanguages))})
	c.rot.Add(rotation.Track{
		Name:        rotation.Visitor,
		Period:      opts.VisitorPeriod,
		Size:        func() int { return int(c.visitorCount.Load()) },
		MinSize:     2,
		Suspendable: true,
	})
	c.rot.Add(rotation.Track{
		Name:        rotation.Media,
		Period:      opts.MediaPeriod,
		Size:        func() int { return int(c.mediaCount.Load()) },
		Suspendable: true,
	})
	return c
}

func fixedSize(n int) func() int {
	return func() int { return n }
}

// Start binds the controller to ctx and starts the rotations.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()
	c.ModelsUpdated(poller.Visitors)
}

// Stop halts every timer the controller owns.
func (c *Controller) Stop() {
	c.rot.Stop()
	c.mu.Lock()
	c.stopGate()
	c.mu.Unlock()
}

// ModelsUpdated is called by the poller after a read model changes.
func (c *Controller) ModelsUpdated(m poller.Model) {
	c.visitorCount.Store(int64(len(c.models.Visitors())))
	c.mediaCount.Store(int64(len(c.models.Media())))
	c.rot.Sync()
	c.changed()
}

// State returns the current workflow state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wf.state
}

// AcceptEnabled reports whether the accept control may be activated.
func (c *Controller) AcceptEnabled() bool {
	return c.State() == Unlocked
}

// Select starts the workflow for a pending visitor. Selecting again, even the
// same visitor, restarts the document gate.
func (c *Controller) Select(visitorID int64) error {
	visitor, ok := c.findPending(visitorID)
	if !ok {
		return ErrUnknownVisitor
	}

	c.mu.Lock()
	if c.wf.state == Accepting {
		c.mu.Unlock()
		return ErrBusy
	}
	c.stopGate()
	gen := c.wf.gen + 1
	c.wf = workflow{state: Loading, visitor: &visitor, gen: gen}
	c.rot.Suspend()
	ctx := c.ctx
	c.mu.Unlock()

	c.log.Info("visitor selected", zap.Int64("visitor_id", visitorID), zap.String("guest", visitor.GuestName))
	c.changed()

	go c.loadDocument(ctx, gen)
	return nil
}

func (c *Controller) findPending(visitorID int64) (model.Visitor, bool) {
	for _, v := range c.models.Pending() {
		if v.VisitorID == visitorID && v.Pending() {
			return v, true
		}
	}
	return model.Visitor{}, false
}

func (c *Controller) loadDocument(ctx context.Context, gen uint64) {
	doc, err := c.gw.Document(ctx)

	c.mu.Lock()
	if c.wf.gen != gen || c.wf.state != Loading {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.wf.state = Unavailable
		c.wf.err = &StepError{Step: StepDocument, Err: err}
		c.mu.Unlock()
		c.log.Warn("document unavailable", zap.Error(err))
		c.changed()
		return
	}
	c.wf.document = doc
	c.wf.state = Gated
	c.wf.gate = time.AfterFunc(c.gate, func() { c.gateElapsed(gen) })
	c.mu.Unlock()
	c.changed()
}

func (c *Controller) gateElapsed(gen uint64) {
	c.mu.Lock()
	if c.wf.gen != gen || c.wf.state != Gated {
		c.mu.Unlock()
		return
	}
	c.wf.state = Unlocked
	c.wf.gate = nil
	c.mu.Unlock()
	c.changed()
}

// Accept stamps the document acceptance and then the check-in of the
// selected visitor. On success the badge is printed and the workflow returns
// to Idle. On failure the workflow stays Unlocked and a *StepError is
// returned; a retry does not repeat an acceptance that already succeeded.
func (c *Controller) Accept(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.wf.visitor == nil:
		c.mu.Unlock()
		return ErrNoSelection
	case c.wf.state == Accepting:
		c.mu.Unlock()
		return ErrBusy
	case c.wf.state != Unlocked:
		c.mu.Unlock()
		return ErrNotUnlocked
	}
	c.wf.state = Accepting
	c.wf.err = nil
	gen := c.wf.gen
	visitor := *c.wf.visitor
	skipDocument := c.wf.docAccepted
	c.mu.Unlock()
	c.changed()

	// A client disconnect must not cut the two stamps apart.
	ctx = context.WithoutCancel(ctx)

	if !skipDocument {
		if _, err := c.gw.AcceptDocument(ctx, visitor.VisitorID); err != nil {
			return c.fail(gen, &StepError{Step: StepAcceptDocument, Err: err})
		}
		c.mu.Lock()
		c.wf.docAccepted = true
		c.mu.Unlock()
	}

	if _, err := c.gw.CheckIn(ctx, visitor.VisitorID); err != nil {
		return c.fail(gen, &StepError{Step: StepCheckIn, Err: err})
	}

	c.log.Info("visitor checked in", zap.Int64("visitor_id", visitor.VisitorID), zap.String("guest", visitor.GuestName))

	// Completed is never observable outside this section.
	c.mu.Lock()
	c.wf.state = Completed
	c.printer.Trigger(visitor)
	c.wf = workflow{state: Idle, gen: gen + 1}
	c.rot.Resume()
	refreshCtx := c.ctx
	c.mu.Unlock()

	c.models.Refresh(refreshCtx, poller.Visitors, poller.Pending)
	c.changed()
	return nil
}

func (c *Controller) fail(gen uint64, err *StepError) error {
	c.mu.Lock()
	if c.wf.gen == gen {
		c.wf.state = Unlocked
		c.wf.err = err
	}
	c.mu.Unlock()
	c.log.Error("check-in step failed", zap.String("step", err.Step), zap.Error(err.Err))
	c.changed()
	return err
}

// Cancel discards the selection. It is refused while stamps are in flight.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	if c.wf.state == Accepting {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.wf.state == Idle {
		c.mu.Unlock()
		return nil
	}
	c.stopGate()
	c.wf = workflow{state: Idle, gen: c.wf.gen + 1}
	c.rot.Resume()
	c.mu.Unlock()

	c.changed()
	return nil
}

// Document returns the document loaded for the current selection.
func (c *Controller) Document() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.wf.state {
	case Gated, Unlocked, Accepting:
		return c.wf.document, nil
	case Unavailable:
		return nil, gateway.ErrDocumentMissing
	default:
		return nil, ErrNoSelection
	}
}

// Subscribe returns a channel signalled after every visible change. The
// returned func unsubscribes.
func (c *Controller) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	c.subsMu.Lock()
	c.subs[ch] = struct{}{}
	c.subsMu.Unlock()
	return ch, func() {
		c.subsMu.Lock()
		delete(c.subs, ch)
		c.subsMu.Unlock()
	}
}

func (c *Controller) changed() {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// stopGate must be called with c.mu held.
func (c *Controller) stopGate() {
	if c.wf.gate != nil {
		c.wf.gate.Stop()
		c.wf.gate = nil
	}
}
