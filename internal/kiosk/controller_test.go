package kiosk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/guregu/null.v4"

	"visitor-kiosk/internal/gateway"
	"visitor-kiosk/internal/model"
	"visitor-kiosk/internal/poller"
	"visitor-kiosk/internal/rotation"
)

type fakeGateway struct {
	mu         sync.Mutex
	calls      []string
	doc        []byte
	docErr     error
	docGate    chan struct{}
	acceptErrs []error
	checkErrs  []error
	checkGate  chan struct{}
}

func (f *fakeGateway) Document(ctx context.Context) ([]byte, error) {
	if f.docGate != nil {
		<-f.docGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doc, f.docErr
}

func (f *fakeGateway) AcceptDocument(ctx context.Context, id int64) (gateway.ActionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("accept-document/%d", id))
	return gateway.ActionResult{Success: true}, pop(&f.acceptErrs)
}

func (f *fakeGateway) CheckIn(ctx context.Context, id int64) (gateway.ActionResult, error) {
	if f.checkGate != nil {
		<-f.checkGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("checkin/%d", id))
	return gateway.ActionResult{Success: true}, pop(&f.checkErrs)
}

func (f *fakeGateway) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func pop(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

type fakeModels struct {
	mu        sync.Mutex
	visitors  []model.Visitor
	pending   []model.Visitor
	room      *model.RoomStatus
	media     []string
	refreshed []poller.Model
}

func (f *fakeModels) Visitors() []model.Visitor {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visitors
}

func (f *fakeModels) Pending() []model.Visitor {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

func (f *fakeModels) RoomStatus() *model.RoomStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.room
}

func (f *fakeModels) Media() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.media
}

func (f *fakeModels) Refresh(ctx context.Context, models ...poller.Model) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshed = append(f.refreshed, models...)
}

func (f *fakeModels) Refreshed() []poller.Model {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]poller.Model(nil), f.refreshed...)
}

type fakePrinter struct {
	mu      sync.Mutex
	printed []model.Visitor
}

func (f *fakePrinter) Trigger(v model.Visitor) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.printed = append(f.printed, v)
	return true
}

func (f *fakePrinter) Printed() []model.Visitor {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Visitor(nil), f.printed...)
}

var (
	rossi   = model.Visitor{VisitorID: 42, GuestName: "A. Rossi", CompanyName: "Acme", SponsorGuy: "M. Bianchi"}
	popescu = model.Visitor{VisitorID: 43, GuestName: "I. Popescu", CompanyName: "Globex"}
)

type fixture struct {
	c       *Controller
	gw      *fakeGateway
	models  *fakeModels
	printer *fakePrinter
}

func newFixture(t *testing.T, gate time.Duration) *fixture {
	t.Helper()
	return newLoggedFixture(t, gate, zap.NewNop())
}

func newLoggedFixture(t *testing.T, gate time.Duration, log *zap.Logger) *fixture {
	t.Helper()
	f := &fixture{
		gw:      &fakeGateway{doc: []byte("%PDF")},
		models:  &fakeModels{pending: []model.Visitor{rossi, popescu}, visitors: []model.Visitor{}, media: []string{}},
		printer: &fakePrinter{},
	}
	f.c = New(f.gw, f.models, f.printer, Options{
		Gate:          gate,
		WelcomePeriod: time.Hour,
		RoomPeriod:    time.Hour,
		VisitorPeriod: time.Hour,
		MediaPeriod:   time.Hour,
	}, log)
	f.c.Start(context.Background())
	t.Cleanup(f.c.Stop)
	return f
}

func (f *fixture) waitFor(t *testing.T, want State) {
	t.Helper()
	require.Eventually(t, func() bool { return f.c.State() == want }, 2*time.Second, 5*time.Millisecond,
		"state never became %s", want)
}

func TestCheckInScenario(t *testing.T) {
	f := newFixture(t, 40*time.Millisecond)

	require.NoError(t, f.c.Select(42))
	f.waitFor(t, Gated)
	assert.False(t, f.c.AcceptEnabled())
	assert.ErrorIs(t, f.c.Accept(context.Background()), ErrNotUnlocked)

	f.waitFor(t, Unlocked)
	assert.True(t, f.c.AcceptEnabled())

	require.NoError(t, f.c.Accept(context.Background()))

	assert.Equal(t, []string{"accept-document/42", "checkin/42"}, f.gw.Calls())
	assert.Equal(t, Idle, f.c.State())
	printed := f.printer.Printed()
	require.Len(t, printed, 1)
	assert.Equal(t, "A. Rossi", printed[0].GuestName)
	assert.Equal(t, "Acme", printed[0].CompanyName)
	assert.Equal(t, []poller.Model{poller.Visitors, poller.Pending}, f.models.Refreshed())

	_, err := f.c.Document()
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestSelect_UnknownOrCheckedInVisitor(t *testing.T) {
	f := newFixture(t, time.Hour)
	assert.ErrorIs(t, f.c.Select(99), ErrUnknownVisitor)

	checkedIn := model.Visitor{VisitorID: 7, CheckIn: null.TimeFrom(time.Now())}
	f.models.mu.Lock()
	f.models.pending = append(f.models.pending, checkedIn)
	f.models.mu.Unlock()
	assert.ErrorIs(t, f.c.Select(7), ErrUnknownVisitor)
	assert.Equal(t, Idle, f.c.State())
}

func TestSelect_RestartsGate(t *testing.T) {
	f := newFixture(t, 150*time.Millisecond)

	require.NoError(t, f.c.Select(42))
	f.waitFor(t, Gated)
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, f.c.Select(43))
	f.waitFor(t, Gated)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, Gated, f.c.State(), "the first gate must not unlock the new selection")

	f.waitFor(t, Unlocked)
	assert.Equal(t, int64(43), f.c.Snapshot().Modal.VisitorID)
}

func TestCancel_DiscardsLateDocument(t *testing.T) {
	f := newFixture(t, time.Millisecond)
	f.gw.docGate = make(chan struct{})

	require.NoError(t, f.c.Select(42))
	assert.Equal(t, Loading, f.c.State())
	require.NoError(t, f.c.Cancel())

	close(f.gw.docGate)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, Idle, f.c.State())
}

func TestDocumentMissing(t *testing.T) {
	f := newFixture(t, time.Millisecond)
	f.gw.docErr = gateway.ErrDocumentMissing

	require.NoError(t, f.c.Select(42))
	f.waitFor(t, Unavailable)

	assert.ErrorIs(t, f.c.Accept(context.Background()), ErrNotUnlocked)
	_, err := f.c.Document()
	assert.ErrorIs(t, err, gateway.ErrDocumentMissing)

	view := f.c.Snapshot()
	require.NotNil(t, view.Modal)
	assert.Equal(t, view.Modal.Captions.NoDocument, view.Modal.Status)
	assert.False(t, view.Modal.AcceptEnabled)

	require.NoError(t, f.c.Cancel())
	assert.Equal(t, Idle, f.c.State())
}

func TestAccept_CheckInFailureRetrySkipsDocumentStamp(t *testing.T) {
	f := newFixture(t, time.Millisecond)
	f.gw.checkErrs = []error{errors.New("gateway down")}

	require.NoError(t, f.c.Select(42))
	f.waitFor(t, Unlocked)

	err := f.c.Accept(context.Background())
	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, StepCheckIn, stepErr.Step)
	assert.Equal(t, Unlocked, f.c.State())
	assert.Contains(t, f.c.Snapshot().Error, "gateway down")
	assert.Empty(t, f.printer.Printed())

	require.NoError(t, f.c.Accept(context.Background()))
	assert.Equal(t, []string{"accept-document/42", "checkin/42", "checkin/42"}, f.gw.Calls())
	assert.Len(t, f.printer.Printed(), 1)
}

func TestAccept_DocumentStampFailureIsRetried(t *testing.T) {
	f := newFixture(t, time.Millisecond)
	f.gw.acceptErrs = []error{errors.New("timeout")}

	require.NoError(t, f.c.Select(42))
	f.waitFor(t, Unlocked)

	var stepErr *StepError
	require.True(t, errors.As(f.c.Accept(context.Background()), &stepErr))
	assert.Equal(t, StepAcceptDocument, stepErr.Step)

	require.NoError(t, f.c.Accept(context.Background()))
	assert.Equal(t, []string{"accept-document/42", "accept-document/42", "checkin/42"}, f.gw.Calls())
}

func TestAccept_GuardsWhileInFlight(t *testing.T) {
	f := newFixture(t, time.Millisecond)
	f.gw.checkGate = make(chan struct{})

	require.NoError(t, f.c.Select(42))
	f.waitFor(t, Unlocked)

	done := make(chan error, 1)
	go func() { done <- f.c.Accept(context.Background()) }()
	f.waitFor(t, Accepting)

	assert.ErrorIs(t, f.c.Accept(context.Background()), ErrBusy)
	assert.ErrorIs(t, f.c.Select(43), ErrBusy)
	assert.ErrorIs(t, f.c.Cancel(), ErrBusy)
	assert.False(t, f.c.AcceptEnabled())

	close(f.gw.checkGate)
	require.NoError(t, <-done)
	assert.Len(t, f.printer.Printed(), 1)
}

func TestAccept_WithoutSelection(t *testing.T) {
	f := newFixture(t, time.Millisecond)
	assert.ErrorIs(t, f.c.Accept(context.Background()), ErrNoSelection)
}

func TestModalSuspendsSlideshowRotations(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.models.mu.Lock()
	f.models.visitors = []model.Visitor{rossi, popescu}
	f.models.media = []string{"a.png"}
	f.models.mu.Unlock()
	f.c.ModelsUpdated(poller.Visitors)

	assert.True(t, f.c.rot.Running(rotation.Visitor))
	assert.True(t, f.c.rot.Running(rotation.Media))

	require.NoError(t, f.c.Select(42))
	assert.False(t, f.c.rot.Running(rotation.Visitor))
	assert.False(t, f.c.rot.Running(rotation.Media))
	assert.True(t, f.c.rot.Running(rotation.Welcome))

	require.NoError(t, f.c.Cancel())
	assert.True(t, f.c.rot.Running(rotation.Visitor))
	assert.True(t, f.c.rot.Running(rotation.Media))
}

func TestCancel_RacingSelectLeavesRotationsRunning(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	slow := zap.Hooks(func(e zapcore.Entry) error {
		if e.Message == "visitor selected" {
			time.Sleep(50 * time.Millisecond)
		}
		return nil
	})
	f := newLoggedFixture(t, time.Hour, zap.New(core, slow))
	f.gw.docGate = make(chan struct{})
	defer close(f.gw.docGate)
	f.models.mu.Lock()
	f.models.visitors = []model.Visitor{rossi, popescu}
	f.models.media = []string{"a.png"}
	f.models.mu.Unlock()
	f.c.ModelsUpdated(poller.Visitors)

	done := make(chan error, 1)
	go func() { done <- f.c.Select(42) }()
	f.waitFor(t, Loading)
	require.NoError(t, f.c.Cancel())
	require.NoError(t, <-done)

	assert.Equal(t, 1, logs.FilterMessage("visitor selected").Len())
	assert.Equal(t, Idle, f.c.State())
	assert.False(t, f.c.rot.Suspended())
	assert.True(t, f.c.rot.Running(rotation.Visitor))
	assert.True(t, f.c.rot.Running(rotation.Media))
}

func TestStop_LateModelUpdateKeepsRotationsStopped(t *testing.T) {
	f := newFixture(t, time.Hour)
	assert.True(t, f.c.rot.Running(rotation.Welcome))

	f.c.Stop()
	f.models.mu.Lock()
	f.models.visitors = []model.Visitor{rossi, popescu}
	f.models.mu.Unlock()
	f.c.ModelsUpdated(poller.Visitors)

	assert.False(t, f.c.rot.Running(rotation.Welcome))
	assert.False(t, f.c.rot.Running(rotation.Room))
	assert.False(t, f.c.rot.Running(rotation.Visitor))
}

func TestSubscribe_SignalsChanges(t *testing.T) {
	f := newFixture(t, time.Hour)
	ch, unsubscribe := f.c.Subscribe()
	defer unsubscribe()

	require.NoError(t, f.c.Select(42))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a change signal")
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unlocked", Unlocked.String())
	assert.Equal(t, "state(42)", State(42).String())
	assert.True(t, Unavailable.ModalShown())
	assert.False(t, Idle.ModalShown())
}

func TestState_TextRoundTrip(t *testing.T) {
	var s State
	require.NoError(t, s.UnmarshalText([]byte("accepting")))
	assert.Equal(t, Accepting, s)
	assert.Error(t, s.UnmarshalText([]byte("bogus")))
}
