package cli

import (
	"time"

	"github.com/shinji-kodama/calver/internal/model"
	"github.com/shinji-kodama/calver/internal/revision"
)

// Options is the explicit configuration of one invocation: the selected
// mode and the optional previous version. It is built once by the root
// command and handed to the dispatcher.
type Options struct {
	// Mode is the validated --mode value.
	Mode model.Mode

	// Version is the previous version argument. Only meaningful when
	// HasVersion is set.
	Version string

	// HasVersion reports whether a positional argument was given.
	HasVersion bool

	// Now returns the current time; it supplies the default revision.
	Now func() time.Time
}

// inputRevision returns the previous version argument, or YY.MM.1 for the
// current date when none was given.
func (o Options) inputRevision() revision.Revision {
	if o.HasVersion {
		return revision.Parse(o.Version)
	}
	return revision.FromDate(o.Now())
}

// modeValue implements pflag.Value for --mode. Validation happens in Set,
// so an unknown mode fails during flag parsing, before any mode logic runs.
type modeValue struct {
	mode *model.Mode
}

func newModeValue(m *model.Mode) *modeValue {
	return &modeValue{mode: m}
}

// String returns the current mode.
func (v *modeValue) String() string {
	if v.mode == nil {
		return ""
	}
	return v.mode.String()
}

// Set parses and stores a mode, rejecting unknown values.
func (v *modeValue) Set(s string) error {
	m, err := model.ParseMode(s)
	if err != nil {
		return err
	}
	*v.mode = m
	return nil
}

// Type names the flag value type in usage output.
func (v *modeValue) Type() string {
	return "mode"
}
