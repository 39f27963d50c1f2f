package lifetime

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Marker is the expiration store: a single file holding one floating-point
// Unix timestamp as UTF-8 text. The external reaper parses the file directly,
// so the format is part of the deployment contract.
type Marker struct {
	Path string
}

// Read returns the stored expiration. Any I/O failure or unparseable content
// is reported as absent, never as an error; a missing or corrupt marker is a
// normal state.
func (m Marker) Read() (time.Time, bool) {
	data, err := os.ReadFile(m.Path)
	if err != nil {
		return time.Time{}, false
	}
	stamp, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil || math.IsNaN(stamp) || math.IsInf(stamp, 0) {
		return time.Time{}, false
	}
	sec, frac := math.Modf(stamp)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))), true
}

// Write overwrites the marker with t's Unix timestamp. The write goes through
// a temp file and rename so the reaper never observes a partial value.
func (m Marker) Write(t time.Time) error {
	dir := filepath.Dir(m.Path)
	tmp, err := os.CreateTemp(dir, ".expiration-*")
	if err != nil {
		return fmt.Errorf("creating temp marker file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := fmt.Fprintf(tmp, "%.6f", float64(t.UnixNano())/float64(time.Second)); err != nil {
		return fmt.Errorf("writing marker: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing marker: %w", err)
	}
	if err := os.Rename(tmpPath, m.Path); err != nil {
		return fmt.Errorf("replacing marker %s: %w", m.Path, err)
	}
	success = true
	return nil
}
