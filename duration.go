package builderctl

import (
	"fmt"
	"time"
)

// DecomposeDuration splits d into whole days, hours, minutes and seconds.
// Sub-second precision is truncated. For any non-negative d the parts sum
// back to d at second granularity.
func DecomposeDuration(d time.Duration) (days, hours, mins, secs int) {
	total := int(d / time.Second)
	days = total / 86400
	hours = (total % 86400) / 3600
	mins = (total % 3600) / 60
	secs = total % 60
	return days, hours, mins, secs
}

// FormatRemaining renders a non-negative duration in the fixed
// "{d} days, {h} hours, {m} minutes, {s} seconds" form.
func FormatRemaining(d time.Duration) string {
	days, hours, mins, secs := DecomposeDuration(d)
	return fmt.Sprintf("%d days, %d hours, %d minutes, %d seconds", days, hours, mins, secs)
}
