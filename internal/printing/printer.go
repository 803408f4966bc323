package printing

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"visitor-kiosk/config"
)

// Printer hands a rendered badge to the output device.
type Printer interface {
	Print(ctx context.Context, visitorID int64, png []byte) error
}

// NewPrinter builds the printer selected by cfg.Mode.
func NewPrinter(cfg config.PrinterConfig) (Printer, error) {
	switch cfg.Mode {
	case "spool", "":
		if cfg.SpoolDir == "" {
			return nil, fmt.Errorf("spool printer needs a spool directory")
		}
		return &SpoolPrinter{Dir: cfg.SpoolDir}, nil
	case "command":
		if cfg.Command == "" {
			return nil, fmt.Errorf("command printer needs a command")
		}
		return &CommandPrinter{Command: cfg.Command, Args: cfg.Args, TempDir: cfg.SpoolDir}, nil
	default:
		return nil, fmt.Errorf("unknown printer mode %q", cfg.Mode)
	}
}

// SpoolPrinter writes each badge into a directory watched by a print spooler.
type SpoolPrinter struct {
	Dir string
}

func (p *SpoolPrinter) Print(ctx context.Context, visitorID int64, png []byte) error {
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create spool dir: %w", err)
	}
	name := fmt.Sprintf("badge-%d-%d.png", visitorID, time.Now().UnixMilli())
	tmp := filepath.Join(p.Dir, "."+name)
	if err := os.WriteFile(tmp, png, 0o644); err != nil {
		return fmt.Errorf("failed to write badge: %w", err)
	}
	// the spooler only sees complete files
	if err := os.Rename(tmp, filepath.Join(p.Dir, name)); err != nil {
		return fmt.Errorf("failed to spool badge: %w", err)
	}
	return nil
}

// CommandPrinter runs an external command such as `lp -d <queue>` with the
// badge file appended as the last argument.
type CommandPrinter struct {
	Command string
	Args    []string
	TempDir string
}

func (p *CommandPrinter) Print(ctx context.Context, visitorID int64, png []byte) error {
	if p.TempDir != "" {
		if err := os.MkdirAll(p.TempDir, 0o755); err != nil {
			return fmt.Errorf("failed to create temp dir: %w", err)
		}
	}
	f, err := os.CreateTemp(p.TempDir, fmt.Sprintf("badge-%d-*.png", visitorID))
	if err != nil {
		return fmt.Errorf("failed to create badge file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(png); err != nil {
		f.Close()
		return fmt.Errorf("failed to write badge file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write badge file: %w", err)
	}

	args := append(append([]string{}, p.Args...), f.Name())
	out, err := exec.CommandContext(ctx, p.Command, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("print command failed: %w: %s", err, out)
	}
	return nil
}
