// Package config loads the builder deployment configuration from the
// copr-rpmbuild INI file.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"

	builderctl "github.com/buildfleet/builderctl"
)

// Config is the deployment configuration the CLI needs. It is constructed
// once in main and passed to whichever component needs it.
type Config struct {
	// PIDFile is the path of the file holding the running rpmbuild PID,
	// from main.pidfile. Reading it is best effort.
	PIDFile string

	// MarkerPath is the expiration marker file, from main.expiration_file.
	MarkerPath string

	// AnchorPath is the authorized_keys trust anchor, from
	// main.authorized_keys.
	AnchorPath string
}

// Load reads the INI file at path. Keys missing from the file fall back to
// the well-known defaults. A file missing at the default path is tolerated
// (a bare deployment still has the fixed paths); a file missing at an
// explicitly chosen path, or any unparseable file, is a deployment error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")

	v.SetDefault("main.pidfile", "/var/lib/copr-rpmbuild/pid")
	v.SetDefault("main.expiration_file", builderctl.DefaultMarkerPath)
	v.SetDefault("main.authorized_keys", builderctl.DefaultAnchorPath)

	if err := v.ReadInConfig(); err != nil {
		missing := errors.Is(err, fs.ErrNotExist)
		var nf viper.ConfigFileNotFoundError
		missing = missing || errors.As(err, &nf)
		if !missing || path != builderctl.DefaultConfigPath {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	return Config{
		PIDFile:    v.GetString("main.pidfile"),
		MarkerPath: v.GetString("main.expiration_file"),
		AnchorPath: v.GetString("main.authorized_keys"),
	}, nil
}
