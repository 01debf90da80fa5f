package cli

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/shinji-kodama/calver/internal/config"
	"github.com/shinji-kodama/calver/internal/guide"
	"github.com/shinji-kodama/calver/internal/model"
	"github.com/shinji-kodama/calver/internal/revision"
)

// missingHotfixVersion is shown when hotfix mode is run without a version.
const missingHotfixVersion = "Need to specify the version to hotfix on the command line"

// dispatcher runs the selected mode and writes its guidance.
type dispatcher struct {
	out    io.Writer
	cfg    *config.Config
	logger *zap.Logger

	// usage writes the help text.
	usage func(io.Writer) error
}

// dispatch computes the guidance for opts.Mode and writes it to d.out.
func (d *dispatcher) dispatch(opts Options) error {
	d.logger.Debug("dispatching",
		zap.Stringer("mode", opts.Mode),
		zap.Stringer("output", d.cfg.Format()))

	switch opts.Mode {
	case model.ModeHelp:
		// Same text as --help; always succeeds with exit code 0.
		return d.usage(d.out)

	case model.ModeNextVersion:
		return d.render(guide.NextVersion(d.input(opts)))

	case model.ModeHotfix:
		// A hotfix always targets a specific past release, so there is no
		// date-derived default here. This is a user error, not a crash.
		if !opts.HasVersion {
			return model.NewCLIError(model.ExitMissingVersion, missingHotfixVersion)
		}
		return d.render(guide.Hotfix(d.input(opts)))

	case model.ModeMonthStart:
		// The integration branch is configurable (--main-branch or the
		// config file) and defaults to "master".
		return d.render(guide.MonthStart(d.input(opts), d.cfg.MainBranch))

	default:
		// modeValue rejects unknown modes during flag parsing.
		return fmt.Errorf("unsupported mode %q", opts.Mode)
	}
}

// input resolves the revision the guidance starts from.
func (d *dispatcher) input(opts Options) revision.Revision {
	v := opts.inputRevision()
	source := "argument"
	if !opts.HasVersion {
		source = "current date"
	}
	d.logger.Debug("resolved input revision",
		zap.Stringer("revision", v),
		zap.String("source", source),
		zap.Bool("hotfix", v.IsHotfix()))
	return v
}

// render writes the plan in the configured output format.
func (d *dispatcher) render(p guide.Plan) error {
	d.logger.Debug("derived target revision", zap.Stringer("target", p.Target))
	if err := guide.Render(d.out, p, d.cfg.Format()); err != nil {
		return fmt.Errorf("failed to write guidance: %w", err)
	}
	return nil
}
