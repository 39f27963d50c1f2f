package lifetime

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// anchorTime is the trust-anchor mtime used by the fixtures; the ceiling is
// anchorTime + MaxExtension.
var anchorTime = time.Unix(1700000000, 0)

func newTestStatus(t *testing.T) *Status {
	t.Helper()
	dir := t.TempDir()

	anchor := filepath.Join(dir, "authorized_keys")
	require.NoError(t, os.WriteFile(anchor, []byte("ssh-ed25519 AAAA builder\n"), 0600))
	require.NoError(t, os.Chtimes(anchor, anchorTime, anchorTime))

	return &Status{
		Marker:     Marker{Path: filepath.Join(dir, "expiration")},
		AnchorPath: anchor,
		PIDFile:    filepath.Join(dir, "rpmbuild.pid"),
		now:        func() time.Time { return anchorTime },
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestExpirationAbsent(t *testing.T) {
	s := newTestStatus(t)
	_, ok := s.Expiration()
	require.False(t, ok)
}

func TestMaxLimit(t *testing.T) {
	s := newTestStatus(t)
	limit, err := s.MaxLimit()
	require.NoError(t, err)
	require.True(t, limit.Equal(anchorTime.Add(14*24*time.Hour)))
}

func TestMaxLimitMissingAnchor(t *testing.T) {
	s := newTestStatus(t)
	s.AnchorPath = filepath.Join(t.TempDir(), "missing")

	_, err := s.MaxLimit()
	require.Error(t, err)
}

func TestRemainingTimeUnknown(t *testing.T) {
	s := newTestStatus(t)
	got, err := s.RemainingTime()
	require.NoError(t, err)
	require.Equal(t, "unknown", got)
}

func TestRemainingTimeExpired(t *testing.T) {
	s := newTestStatus(t)
	require.NoError(t, s.Marker.Write(anchorTime.Add(-time.Hour)))

	got, err := s.RemainingTime()
	require.NoError(t, err)
	require.Equal(t, "expired", got)
}

func TestRemainingTimeFormatted(t *testing.T) {
	s := newTestStatus(t)
	require.NoError(t, s.Marker.Write(anchorTime.Add(26*time.Hour+5*time.Minute+9*time.Second)))

	got, err := s.RemainingTime()
	require.NoError(t, err)
	require.Equal(t, "1 days, 2 hours, 5 minutes, 9 seconds", got)
}

func TestRemainingTimeClampedAtCeiling(t *testing.T) {
	s := newTestStatus(t)
	// Marker pushed well past the ceiling, e.g. by a buggy writer.
	require.NoError(t, s.Marker.Write(anchorTime.Add(100*24*time.Hour)))

	got, err := s.RemainingTime()
	require.NoError(t, err)
	require.Equal(t, "14 days, 0 hours, 0 minutes, 0 seconds", got)

	// The clamp is display-only; the stored marker keeps its value.
	stored, ok := s.Marker.Read()
	require.True(t, ok)
	require.WithinDuration(t, anchorTime.Add(100*24*time.Hour), stored, time.Millisecond)
}

func TestBuildPID(t *testing.T) {
	s := newTestStatus(t)
	require.NoError(t, os.WriteFile(s.PIDFile, []byte("12345\n"), 0644))

	pid, ok := s.BuildPID()
	require.True(t, ok)
	require.Equal(t, "12345", pid)
}

func TestBuildPIDNonNumeric(t *testing.T) {
	s := newTestStatus(t)
	require.NoError(t, os.WriteFile(s.PIDFile, []byte("12345 rpmbuild"), 0644))

	_, ok := s.BuildPID()
	require.False(t, ok)
}

func TestBuildPIDAbsent(t *testing.T) {
	s := newTestStatus(t)
	_, ok := s.BuildPID()
	require.False(t, ok)
}

func TestShowOutput(t *testing.T) {
	s := newTestStatus(t)
	require.NoError(t, s.Marker.Write(anchorTime.Add(2*time.Hour)))
	require.NoError(t, os.WriteFile(s.PIDFile, []byte("4321"), 0644))

	var out bytes.Buffer
	require.NoError(t, s.Show(&out))
	require.Equal(t, "Remaining time: 0 days, 2 hours, 0 minutes, 0 seconds\nBuild PID: 4321\n", out.String())
}

func TestShowOutputUnknown(t *testing.T) {
	s := newTestStatus(t)

	var out bytes.Buffer
	require.NoError(t, s.Show(&out))
	require.Equal(t, "Remaining time: unknown\nBuild PID: none\n", out.String())
}
