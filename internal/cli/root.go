// Package cli implements the cobra-based command dispatcher for calver.
//
// The CLI is a single root command. The --mode flag selects what guidance
// is printed (help, nextVersion, hotfix, monthStart) and the last positional
// argument, if any, is the previous version the guidance is derived from.
// This file defines the root command, its flags, and the error/exit code
// handling shared by every mode.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/shinji-kodama/calver/internal/config"
	"github.com/shinji-kodama/calver/internal/guide"
	"github.com/shinji-kodama/calver/internal/model"
	"github.com/shinji-kodama/calver/internal/observability"
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the version of the binary (e.g., "26.10.1").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// session is the state of one root command invocation. Flag values are
// bound into it while parsing, and the resolved configuration is stored on
// it so Execute can format errors the same way as regular output.
type session struct {
	// mode is the validated --mode value.
	mode model.Mode

	// cfgFile is the --config path; empty means no config file is read.
	cfgFile string

	// cfg is the resolved configuration. It stays nil until loading
	// succeeds, which never happens for help or on flag errors.
	cfg *config.Config

	// v layers defaults, the config file and bound flags.
	v *viper.Viper

	// now supplies the default YY.MM.1 revision and the usage example.
	now func() time.Time
}

// errorFormat returns the output format resolved for this invocation, or
// text if the command failed before configuration was loaded.
func (s *session) errorFormat() guide.Format {
	if s.cfg == nil {
		return guide.FormatText
	}
	return s.cfg.Format()
}

// loadConfig resolves the configuration for a guidance-producing mode.
func (s *session) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(s.v, s.cfgFile)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitUsageError, "invalid configuration", err)
	}
	s.cfg = cfg
	return cfg, nil
}

// newRootCommand builds the root command with an injectable clock and
// returns it together with the session its flags are bound to.
func newRootCommand(now func() time.Time) (*cobra.Command, *session) {
	// Each command owns its own viper instance, so nothing leaks between
	// invocations (tests build many commands in one process).
	s := &session{v: viper.New(), now: now}

	rootCmd := &cobra.Command{
		// Use is the one-line usage pattern shown in help output. The
		// first word also becomes cmd.Name(), used as the program name.
		Use:   "calver --mode=<help|nextVersion|hotfix|monthStart> [previous version]",
		Short: "CalVer revision and branch guidance for Git",
		Long: `calver computes calendar-versioned (YY.MM.REV[.HOTFIX]) revision identifiers
and prints instructions for reconciling git branches around releases,
hotfixes and month rollovers. It never runs git itself.`,

		// Any number of positional arguments is accepted; only the last one
		// is used as the previous version.
		Args: cobra.ArbitraryArgs,

		// SilenceUsage prevents cobra from printing usage on every error.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// Execute formats errors itself (text or JSON based on --output).
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// RunE only runs once flag parsing has succeeded, so an invalid
		// --mode never reaches configuration loading or dispatch.
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(cmd, args)
		},
	}

	// --mode uses a custom pflag.Value so the mode is validated while
	// flags are parsed, not later in RunE.
	rootCmd.Flags().Var(newModeValue(&s.mode), "mode",
		"Mode: help, nextVersion, hotfix, monthStart")
	_ = rootCmd.MarkFlagRequired("mode")

	// PersistentFlags hold the settings that can also come from a config
	// file. The --config path itself is only a plain flag value; it is
	// the sole way a file is ever read.
	rootCmd.PersistentFlags().StringVarP(&s.cfgFile, "config", "c", "",
		"Config file (.json, .jsonc, .yaml or .yml); none is read unless given")
	rootCmd.PersistentFlags().String("main-branch", config.DefaultMainBranch,
		"Integration branch months are merged through")
	rootCmd.PersistentFlags().StringP("output", "o", string(guide.FormatText),
		"Output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output on stderr")

	// Binding the flags into viper makes an explicitly given flag win over
	// the config file. viper only uses a bound flag when it was changed,
	// so the config file still applies when the flag is left alone.
	_ = s.v.BindPFlag(config.KeyMainBranch, rootCmd.PersistentFlags().Lookup("main-branch"))
	_ = s.v.BindPFlag(config.KeyOutput, rootCmd.PersistentFlags().Lookup("output"))
	_ = s.v.BindPFlag(config.KeyVerbose, rootCmd.PersistentFlags().Lookup("verbose"))

	// --help prints the CalVer usage text rather than cobra's generated
	// help, so --help and --mode=help show the same thing. cobra handles
	// --help before checking required flags, so it works without --mode.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		_ = s.printUsage(cmd, cmd.OutOrStdout())
	})

	// Flag errors (including an invalid --mode) are usage errors. Without
	// this they would surface as plain errors with the general exit code.
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return model.WrapCLIError(model.ExitUsageError, "invalid arguments", err)
	})

	return rootCmd, s
}

// run is the RunE body of the root command.
func (s *session) run(cmd *cobra.Command, args []string) error {
	// Build the explicit per-invocation options from the parsed flags and
	// the last positional argument.
	opts := Options{Mode: s.mode, Now: s.now}
	if len(args) > 0 {
		opts.Version = args[len(args)-1]
		opts.HasVersion = true
	}

	// Help never depends on configuration: a broken --config file or an
	// invalid --output must not stop usage from printing with exit 0.
	cfg := config.Default()
	if opts.Mode != model.ModeHelp {
		loaded, err := s.loadConfig()
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// The logger writes to stderr only; stdout carries nothing but the
	// guidance so it can be piped into other tools.
	logger := observability.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	defer func() { _ = logger.Sync() }()
	if cfg.File != "" {
		logger.Debug("loaded config file", zap.String("path", cfg.File))
	}

	d := &dispatcher{
		out:    cmd.OutOrStdout(),
		cfg:    cfg,
		logger: logger,
		usage: func(w io.Writer) error {
			return s.printUsage(cmd, w)
		},
	}
	return d.dispatch(opts)
}

// printUsage writes the usage text for cmd, including its option list.
func (s *session) printUsage(cmd *cobra.Command, w io.Writer) error {
	return printUsage(w, cmd.Root().Name(), s.now(), cmd.Flags().FlagUsages())
}

// Execute builds the root command, runs it against os.Args and handles
// exit codes. This is the main entry point called from main.go.
func Execute() {
	rootCmd, s := newRootCommand(time.Now)
	if err := rootCmd.Execute(); err != nil {
		// The session knows whether --output resolved to json; before
		// configuration is loaded errors fall back to text.
		printError(rootCmd.ErrOrStderr(), s.errorFormat(), err)
		os.Exit(int(ExitCodeFor(err)))
	}
}

// ExitCodeFor maps an error returned by the root command to a process exit
// code. CLIError values carry their own code; anything else is a general
// error. A nil error maps to ExitSuccess.
func ExitCodeFor(err error) model.ExitCode {
	if err == nil {
		return model.ExitSuccess
	}
	// errors.As also finds a CLIError wrapped by fmt.Errorf("%w").
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return model.ExitGeneralError
}

// printError writes err to w, as JSON when the output format is json and
// as "Error: <message>" otherwise.
func printError(w io.Writer, format guide.Format, err error) {
	message := err.Error()
	var underlying error

	// A CLIError splits into a short message and the underlying cause,
	// which JSON output reports as a separate "detail" field.
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		message = cliErr.Message
		underlying = cliErr.Err
	}

	if format == guide.FormatJSON {
		errObj := map[string]map[string]string{
			"error": {"message": message},
		}
		if underlying != nil {
			errObj["error"]["detail"] = underlying.Error()
		}
		// Errors go to stderr even in JSON mode, because stdout is
		// reserved for successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	// Text format: "Error: <message>" on stderr.
	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}
