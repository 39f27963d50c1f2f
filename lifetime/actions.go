package lifetime

import (
	"errors"
	"fmt"
	"math"
	"time"

	builderctl "github.com/buildfleet/builderctl"
)

// ErrNoExpiration is reported when prolong is invoked while no expiration is
// stored. Prolonging is cumulative relative to the stored value, so there is
// nothing to add to.
var ErrNoExpiration = errors.New("no current expiration set")

// ExceedsLimitError reports a prolong request past the ceiling.
type ExceedsLimitError struct {
	Requested time.Time
	Ceiling   time.Time
}

func (e *ExceedsLimitError) Error() string {
	return fmt.Sprintf("requested expiration %s exceeds the allowed limit %s",
		e.Requested.Format(builderctl.StampFormat),
		e.Ceiling.Format(builderctl.StampFormat))
}

// Prolong extends the stored expiration by the given number of hours
// (negative values shorten it). The new value is the stored expiration plus
// the delta, never "now" plus the delta. On success the marker holds the new
// expiration and it is returned; past the ceiling nothing is written and an
// ExceedsLimitError carries both timestamps.
func (s *Status) Prolong(hours int) (time.Time, error) {
	current, ok := s.Expiration()
	if !ok {
		return time.Time{}, ErrNoExpiration
	}

	// Saturate instead of letting the int64 nanosecond count wrap: a wrapped
	// positive request would land centuries in the past and slide under the
	// ceiling check.
	delta := time.Duration(hours) * time.Hour
	if delta/time.Hour != time.Duration(hours) {
		if hours > 0 {
			delta = math.MaxInt64
		} else {
			delta = math.MinInt64
		}
	}
	requested := current.Add(delta)

	ceiling, err := s.MaxLimit()
	if err != nil {
		return time.Time{}, err
	}
	if requested.After(ceiling) {
		return time.Time{}, &ExceedsLimitError{Requested: requested, Ceiling: ceiling}
	}

	if err := s.Marker.Write(requested); err != nil {
		return time.Time{}, err
	}
	s.logger.Debug("expiration prolonged", "hours", hours, "expiration", requested)
	return requested, nil
}

// Release marks the builder expired immediately by storing a timestamp one
// minute in the past. Any reaper poll after this call sees the machine as
// expired. Returns the stamp written.
func (s *Status) Release() (time.Time, error) {
	stamp := s.now().Add(-time.Minute)
	if err := s.Marker.Write(stamp); err != nil {
		return time.Time{}, err
	}
	s.logger.Debug("builder released", "expiration", stamp)
	return stamp, nil
}
