// Package lifetime implements the builder lifetime operations: reading the
// expiration marker, computing the remaining time against the trust-anchor
// ceiling, and the prolong/release actions.
package lifetime

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	builderctl "github.com/buildfleet/builderctl"
	"github.com/buildfleet/builderctl/config"
)

// Status reads the builder's lifetime state. All values are computed on every
// call; the underlying files can change between invocations and nothing here
// caches.
type Status struct {
	Marker     Marker
	AnchorPath string
	PIDFile    string

	now    func() time.Time
	logger *slog.Logger
}

// NewStatus wires a Status from the deployment configuration.
func NewStatus(cfg config.Config, logger *slog.Logger) *Status {
	if logger == nil {
		logger = slog.Default()
	}
	return &Status{
		Marker:     Marker{Path: cfg.MarkerPath},
		AnchorPath: cfg.AnchorPath,
		PIDFile:    cfg.PIDFile,
		now:        time.Now,
		logger:     logger,
	}
}

// Expiration returns the stored expiration, or false when the marker is
// absent or unreadable.
func (s *Status) Expiration() (time.Time, bool) {
	exp, ok := s.Marker.Read()
	if !ok {
		s.logger.Debug("expiration marker absent or unparseable", "path", s.Marker.Path)
	}
	return exp, ok
}

// MaxLimit returns the latest expiration the user may set: the trust-anchor
// mtime plus the fixed maximum extension. A missing or unreadable anchor is a
// deployment fault and propagates.
func (s *Status) MaxLimit() (time.Time, error) {
	info, err := os.Stat(s.AnchorPath)
	if err != nil {
		return time.Time{}, fmt.Errorf("reading trust anchor %s: %w", s.AnchorPath, err)
	}
	return info.ModTime().Add(builderctl.MaxExtension), nil
}

// RemainingTime renders how long the builder has left. The displayed value is
// clamped at the ceiling when the stored expiration exceeds it; the marker
// itself is never rewritten here.
func (s *Status) RemainingTime() (string, error) {
	exp, ok := s.Expiration()
	if !ok {
		return "unknown", nil
	}

	now := s.now()
	delta := exp.Sub(now)
	if delta < 0 {
		return "expired", nil
	}

	limit, err := s.MaxLimit()
	if err != nil {
		return "", err
	}
	if exp.After(limit) {
		s.logger.Debug("stored expiration exceeds ceiling, clamping display",
			"expiration", exp, "ceiling", limit)
		delta = limit.Sub(now)
		if delta < 0 {
			delta = 0
		}
	}

	return builderctl.FormatRemaining(delta), nil
}

// BuildPID returns the PID of the running rpmbuild process, read best effort
// from the configured pidfile. Only purely decimal content counts; anything
// else reports absent.
func (s *Status) BuildPID() (string, bool) {
	data, err := os.ReadFile(s.PIDFile)
	if err != nil {
		s.logger.Debug("pidfile unreadable", "path", s.PIDFile, "err", err)
		return "", false
	}
	pid := strings.TrimSpace(string(data))
	if pid == "" {
		return "", false
	}
	for _, r := range pid {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return pid, true
}

// Show prints the remaining time and the build PID, one line each, in that
// order.
func (s *Status) Show(w io.Writer) error {
	remaining, err := s.RemainingTime()
	if err != nil {
		return err
	}
	pid, ok := s.BuildPID()
	if !ok {
		pid = "none"
	}
	fmt.Fprintf(w, "Remaining time: %s\n", remaining)
	fmt.Fprintf(w, "Build PID: %s\n", pid)
	return nil
}
