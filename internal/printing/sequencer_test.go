package printing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"visitor-kiosk/config"
	"visitor-kiosk/internal/badge"
	"visitor-kiosk/internal/model"
)

type fakeRenderer struct {
	err error
}

func (f *fakeRenderer) Render(l badge.Layout) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("png:" + l.QRPayload()), nil
}

type fakePrinter struct {
	mu   sync.Mutex
	jobs []int64
	data [][]byte
}

func (f *fakePrinter) Print(ctx context.Context, visitorID int64, png []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, visitorID)
	f.data = append(f.data, png)
	return nil
}

func (f *fakePrinter) Jobs() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.jobs...)
}

var rossi = model.Visitor{VisitorID: 42, GuestName: "A. Rossi", CompanyName: "Acme"}

func TestSequencer_PrintsOnceAfterDelay(t *testing.T) {
	printer := &fakePrinter{}
	s := NewSequencer(&fakeRenderer{}, printer, 30*time.Millisecond, zap.NewNop())

	require.True(t, s.Trigger(rossi))
	assert.False(t, s.Trigger(rossi), "a second trigger for the same visitor is ignored")
	assert.True(t, s.Pending(42))
	assert.Empty(t, printer.Jobs(), "nothing prints before the delay")

	assert.Eventually(t, func() bool { return len(printer.Jobs()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return !s.Pending(42) }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int64{42}, printer.Jobs())
	assert.Equal(t, []byte("png:42"), s.Last())

	time.Sleep(50 * time.Millisecond)
	assert.Len(t, printer.Jobs(), 1)
}

func TestSequencer_RenderErrorPrintsNothing(t *testing.T) {
	printer := &fakePrinter{}
	s := NewSequencer(&fakeRenderer{err: errors.New("boom")}, printer, time.Millisecond, zap.NewNop())

	s.Trigger(rossi)
	assert.Eventually(t, func() bool { return !s.Pending(42) }, time.Second, 5*time.Millisecond)
	assert.Empty(t, printer.Jobs())
	assert.Nil(t, s.Last())
}

func TestSequencer_StopCancelsScheduled(t *testing.T) {
	printer := &fakePrinter{}
	s := NewSequencer(&fakeRenderer{}, printer, time.Hour, zap.NewNop())

	s.Trigger(rossi)
	s.Stop()
	assert.False(t, s.Pending(42))
	assert.Empty(t, printer.Jobs())
}

func TestSpoolPrinter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "spool")
	p, err := NewPrinter(config.PrinterConfig{Mode: "spool", SpoolDir: dir})
	require.NoError(t, err)

	require.NoError(t, p.Print(context.Background(), 42, []byte("png")))

	matches, err := filepath.Glob(filepath.Join(dir, "badge-42-*.png"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	content, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), content)
}

func TestCommandPrinter(t *testing.T) {
	if _, err := os.Stat("/bin/cp"); err != nil {
		t.Skip("cp not available")
	}
	dest := filepath.Join(t.TempDir(), "printed.png")
	p, err := NewPrinter(config.PrinterConfig{Mode: "command", Command: "/bin/sh", Args: []string{"-c", `cp "$0" ` + dest}})
	require.NoError(t, err)

	require.NoError(t, p.Print(context.Background(), 42, []byte("png")))
	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), content)
}

func TestNewPrinter_Errors(t *testing.T) {
	_, err := NewPrinter(config.PrinterConfig{Mode: "fax"})
	assert.Error(t, err)
	_, err = NewPrinter(config.PrinterConfig{Mode: "command"})
	assert.Error(t, err)
	_, err = NewPrinter(config.PrinterConfig{Mode: "spool"})
	assert.Error(t, err)
}
