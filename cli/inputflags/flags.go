// Package inputflags locates the input format settings of a command.
package inputflags

import (
	"errors"
	"flag"
	"os"

	"github.com/oicr-gsi/shesmu/input"
)

type Flags struct {
	Settings string
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&f.Settings, "settings", os.Getenv(input.SettingsEnv), "YAML input format settings (default $"+input.SettingsEnv+")")
}

// Open loads the settings.  Without settings there are no input formats
// and required reports whether that is an error.
func (f *Flags) Open(required bool) (*input.Set, error) {
	if f.Settings == "" {
		if required {
			return nil, errors.New("no input settings: use -settings or $" + input.SettingsEnv)
		}
		return input.NewSet(), nil
	}
	return input.LoadFile(f.Settings)
}
