// Package builderctl holds the shared constants and helpers for the builder
// lifetime CLI: the well-known state file locations, the hard lifetime
// ceiling, and duration formatting.
package builderctl

import "time"

// MaxExtension is the maximum allowed lifetime past the trust-anchor
// modification time. The fleet manager enforces the same ceiling on its side.
const MaxExtension = 14 * 24 * time.Hour

// StampFormat is the timestamp layout used in all user-facing messages.
const StampFormat = "2006-01-02 15:04"

const (
	// DefaultMarkerPath is the well-known expiration marker file. It holds a
	// single floating-point Unix timestamp; the external reaper polls it.
	DefaultMarkerPath = "/var/lib/builder/expiration"

	// DefaultAnchorPath is the authorized_keys file whose mtime anchors the
	// lifetime ceiling. SSH provisioning manages it; we only stat it.
	DefaultAnchorPath = "/root/.ssh/authorized_keys"

	// DefaultConfigPath is the builder deployment configuration.
	DefaultConfigPath = "/etc/copr-rpmbuild/main.ini"
)
