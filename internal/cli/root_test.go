package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/calver/internal/guide"
	"github.com/shinji-kodama/calver/internal/model"
)

// fixedNow pins the clock so the default YY.MM.1 revision is 26.10.1.
func fixedNow() time.Time {
	return time.Date(2026, time.October, 17, 9, 30, 0, 0, time.UTC)
}

// executeCommand runs a fresh root command with args and captures both
// output streams.
func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	cmd, _ := newRootCommand(fixedNow)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// TestNextVersionMode verifies guidance for release and hotfix inputs,
// and the date-derived default input.
func TestNextVersionMode(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "release input",
			args: []string{"--mode=nextVersion", "24.03.1"},
			want: "Before starting coding work on 24.03.2, tag 24.03.1 and merge it to 24.03, then branch off 24.03 to 24.03.2\n",
		},
		{
			name: "hotfix input",
			args: []string{"--mode=nextVersion", "24.03.2.1"},
			want: "Before starting coding work on 24.03.3, tag 24.03.2.1 and merge it to 24.03.2, and to 24.03 (and its descendants), then branch off 24.03.2 to 24.03.3\n" +
				"(But be mindful that 24.03.3 might already exist, and it could be something else, or it could even be a different month!)\n",
		},
		{
			name: "no input uses current month",
			args: []string{"--mode=nextVersion"},
			want: "Before starting coding work on 26.10.2, tag 26.10.1 and merge it to 26.10, then branch off 26.10 to 26.10.2\n",
		},
		{
			name: "last positional argument wins",
			args: []string{"--mode=nextVersion", "24.01.1", "24.03.1"},
			want: "Before starting coding work on 24.03.2, tag 24.03.1 and merge it to 24.03, then branch off 24.03 to 24.03.2\n",
		},
		{
			name: "argument before flag",
			args: []string{"24.03.1", "--mode", "nextVersion"},
			want: "Before starting coding work on 24.03.2, tag 24.03.1 and merge it to 24.03, then branch off 24.03 to 24.03.2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := executeCommand(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
			assert.Empty(t, stderr)
		})
	}
}

// TestHotfixMode verifies the hotfix branch guidance.
func TestHotfixMode(t *testing.T) {
	stdout, _, err := executeCommand(t, "--mode=hotfix", "24.03.2")
	require.NoError(t, err)
	assert.Equal(t, "Before starting work on 24.03.2.1, branch off 24.03.2 to 24.03.2.1\n", stdout)

	stdout, _, err = executeCommand(t, "--mode=hotfix", "24.03.2.1")
	require.NoError(t, err)
	assert.Equal(t, "Before starting work on 24.03.2.2, branch off 24.03.2 to 24.03.2.2\n", stdout)
}

// TestHotfixMode_MissingVersion checks that hotfix mode without a version
// is a user-facing error with exit code 1 rather than a crash.
func TestHotfixMode_MissingVersion(t *testing.T) {
	stdout, _, err := executeCommand(t, "--mode=hotfix")
	require.Error(t, err)
	assert.Empty(t, stdout)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitMissingVersion, cliErr.Code)
	assert.Equal(t, 1, int(ExitCodeFor(err)))
	assert.Equal(t, "Need to specify the version to hotfix on the command line", cliErr.Message)
}

// TestMonthStartMode verifies month rollover guidance with the default and
// a configured integration branch.
func TestMonthStartMode(t *testing.T) {
	stdout, _, err := executeCommand(t, "--mode=monthStart", "24.12.3")
	require.NoError(t, err)
	assert.Equal(t, "Merge outstanding branches for the month into 24.12, and 24.12 to master and from master to 25.01.1\n", stdout)

	stdout, _, err = executeCommand(t, "--mode=monthStart", "--main-branch", "main")
	require.NoError(t, err)
	assert.Equal(t, "Merge outstanding branches for the month into 26.10, and 26.10 to main and from main to 26.11.1\n", stdout)
}

// TestMonthStartMode_ConfigFile verifies that an explicit config file sets
// the integration branch and that a flag overrides it.
func TestMonthStartMode_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calver.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{
  // trunk-based repository
  "main_branch": "trunk",
}`), 0o644))

	stdout, _, err := executeCommand(t, "--mode=monthStart", "--config", path, "24.03.1")
	require.NoError(t, err)
	assert.Equal(t, "Merge outstanding branches for the month into 24.03, and 24.03 to trunk and from trunk to 24.04.1\n", stdout)

	stdout, _, err = executeCommand(t, "--mode=monthStart", "--config", path, "--main-branch", "develop", "24.03.1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "24.03 to develop and from develop to 24.04.1")
}

// TestInvalidConfigFile checks that an unreadable config file is a usage
// error and that no guidance is printed.
func TestInvalidConfigFile(t *testing.T) {
	stdout, _, err := executeCommand(t, "--mode=nextVersion", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.Equal(t, model.ExitUsageError, ExitCodeFor(err))
}

// TestInvalidMode checks that an unknown mode fails during flag parsing
// with a descriptive error and never reaches dispatch.
func TestInvalidMode(t *testing.T) {
	stdout, stderr, err := executeCommand(t, "--mode=bogus", "24.03.1")
	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)

	assert.Equal(t, model.ExitUsageError, ExitCodeFor(err))
	assert.Contains(t, err.Error(), `"bogus"`)
	for _, m := range model.Modes {
		assert.Contains(t, err.Error(), m.String())
	}
}

// TestMissingMode checks that --mode is required.
func TestMissingMode(t *testing.T) {
	stdout, _, err := executeCommand(t, "24.03.1")
	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, err.Error(), `"mode"`)
	assert.NotEqual(t, model.ExitSuccess, ExitCodeFor(err))
}

// TestHelp verifies that both --mode=help and --help print the usage text
// with today's YY.MM.1 example and succeed.
func TestHelp(t *testing.T) {
	for _, args := range [][]string{{"--mode=help"}, {"--help"}} {
		stdout, _, err := executeCommand(t, args...)
		require.NoError(t, err, args)
		assert.Contains(t, stdout, "CalVer for Git")
		assert.Contains(t, stdout, "Usage: calver --mode=<help|nextVersion|hotfix|monthStart> [previous version]")
		assert.Contains(t, stdout, "(eg 26.10.1)")
		assert.Contains(t, stdout, "--main-branch")
	}
}

// TestVersionFlag verifies the build info output.
func TestVersionFlag(t *testing.T) {
	stdout, _, err := executeCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dev (commit: none, built: unknown)")
}

// TestOutputJSON checks the machine-readable plan output.
func TestOutputJSON(t *testing.T) {
	stdout, _, err := executeCommand(t, "--mode=nextVersion", "-o", "json", "24.03.2.1")
	require.NoError(t, err)

	var plan struct {
		Mode   string       `json:"mode"`
		Input  string       `json:"input"`
		Target string       `json:"target"`
		Steps  []guide.Step `json:"steps"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &plan))
	assert.Equal(t, "nextVersion", plan.Mode)
	assert.Equal(t, "24.03.2.1", plan.Input)
	assert.Equal(t, "24.03.3", plan.Target)
	require.Len(t, plan.Steps, 4)
	assert.Equal(t, guide.Step{Action: guide.ActionMerge, Source: "24.03.2.1", Target: "24.03", Descendants: true}, plan.Steps[2])
}

// TestOutputYAML checks that YAML output is selected by the flag.
func TestOutputYAML(t *testing.T) {
	stdout, _, err := executeCommand(t, "--mode=hotfix", "--output=yaml", "24.03.2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "mode: hotfix\n")
	assert.Contains(t, stdout, "target: 24.03.2.1\n")
}

// TestInvalidOutput checks that an unknown output format is rejected.
func TestInvalidOutput(t *testing.T) {
	stdout, _, err := executeCommand(t, "--mode=hotfix", "--output=xml", "24.03.2")
	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.Equal(t, model.ExitUsageError, ExitCodeFor(err))
}

// TestVerbose checks diagnostics go to stderr and leave stdout untouched.
func TestVerbose(t *testing.T) {
	stdout, stderr, err := executeCommand(t, "--mode=nextVersion", "-v", "24.03.1")
	require.NoError(t, err)
	assert.Equal(t, "Before starting coding work on 24.03.2, tag 24.03.1 and merge it to 24.03, then branch off 24.03 to 24.03.2\n", stdout)
	assert.Contains(t, stderr, "DEBUG")
	assert.Contains(t, stderr, "resolved input revision")
	assert.Contains(t, stderr, "argument")
}

// TestExitCodeFor verifies exit code mapping for the error kinds the
// command can return.
func TestExitCodeFor(t *testing.T) {
	assert.Equal(t, model.ExitSuccess, ExitCodeFor(nil))
	assert.Equal(t, model.ExitGeneralError, ExitCodeFor(errors.New("boom")))
	assert.Equal(t, model.ExitUsageError, ExitCodeFor(model.NewCLIError(model.ExitUsageError, "bad flag")))
}

// TestPrintError verifies text and JSON error output.
func TestPrintError(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		printError(&buf, guide.FormatText, model.NewCLIError(model.ExitMissingVersion, missingHotfixVersion))
		assert.Equal(t, "Error: Need to specify the version to hotfix on the command line\n", buf.String())
	})

	t.Run("text with detail", func(t *testing.T) {
		var buf bytes.Buffer
		printError(&buf, guide.FormatText, model.WrapCLIError(model.ExitUsageError, "invalid configuration", errors.New("no such file")))
		assert.Equal(t, "Error: invalid configuration: no such file\n", buf.String())
	})

	t.Run("json with detail", func(t *testing.T) {
		var buf bytes.Buffer
		printError(&buf, guide.FormatJSON, model.WrapCLIError(model.ExitUsageError, "invalid configuration", errors.New("no such file")))
		assert.JSONEq(t, `{"error":{"message":"invalid configuration","detail":"no such file"}}`, buf.String())
	})

	t.Run("plain error", func(t *testing.T) {
		var buf bytes.Buffer
		printError(&buf, guide.FormatText, errors.New("boom"))
		assert.Equal(t, "Error: boom\n", buf.String())
	})
}

// TestErrorFormat verifies the resolved output format is remembered on the
// session for error reporting, falling back to text before configuration
// loads.
func TestErrorFormat(t *testing.T) {
	cmd, s := newRootCommand(fixedNow)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Equal(t, guide.FormatText, s.errorFormat())

	cmd.SetArgs([]string{"--mode=hotfix", "-o", "json"})
	require.Error(t, cmd.Execute())
	assert.Equal(t, guide.FormatJSON, s.errorFormat())
}

// TestErrorFormat_FlagError verifies that a flag error, which happens
// before configuration is loaded, is reported as text.
func TestErrorFormat_FlagError(t *testing.T) {
	cmd, s := newRootCommand(fixedNow)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--mode=bogus", "-o", "json"})

	require.Error(t, cmd.Execute())
	assert.Equal(t, guide.FormatText, s.errorFormat())
}

// TestEnvironmentIsIgnored checks that CALVER_* and bare key variables
// change neither text output nor help.
func TestEnvironmentIsIgnored(t *testing.T) {
	t.Setenv("CALVER_OUTPUT", "json")
	t.Setenv("CALVER_MAIN_BRANCH", "from-env")
	t.Setenv("CALVER_VERBOSE", "true")
	t.Setenv("OUTPUT", "json")

	stdout, stderr, err := executeCommand(t, "--mode=nextVersion", "24.03.1")
	require.NoError(t, err)
	assert.Equal(t, "Before starting coding work on 24.03.2, tag 24.03.1 and merge it to 24.03, then branch off 24.03 to 24.03.2\n", stdout)
	assert.Empty(t, stderr)

	stdout, _, err = executeCommand(t, "--mode=monthStart", "24.03.1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "24.03 to master and from master to 24.04.1")

	t.Setenv("CALVER_OUTPUT", "xml")
	stdout, _, err = executeCommand(t, "--mode=help")
	require.NoError(t, err)
	assert.Equal(t, model.ExitSuccess, ExitCodeFor(err))
	assert.Contains(t, stdout, "CalVer for Git")
}

// TestWorkingDirectoryConfigIsIgnored checks that config files sitting in
// the working directory are never read implicitly.
func TestWorkingDirectoryConfigIsIgnored(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".calver.yaml"), []byte("main_branch: [unclosed\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".calver.jsonc"), []byte(`{"output": "json"}`), 0o644))
	chdir(t, dir)

	stdout, _, err := executeCommand(t, "--mode=help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "CalVer for Git")

	stdout, _, err = executeCommand(t, "--mode=hotfix", "24.03.2")
	require.NoError(t, err)
	assert.Equal(t, "Before starting work on 24.03.2.1, branch off 24.03.2 to 24.03.2.1\n", stdout)
}

// TestHelp_IgnoresBrokenConfiguration checks that help prints and succeeds
// even when the explicit config file or the output flag is invalid.
func TestHelp_IgnoresBrokenConfiguration(t *testing.T) {
	broken := filepath.Join(t.TempDir(), "calver.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("main_branch: [unclosed\n"), 0o644))

	tests := [][]string{
		{"--mode=help", "--config", broken},
		{"--mode=help", "--config", filepath.Join(t.TempDir(), "missing.yaml")},
		{"--mode=help", "--output=xml"},
		{"--mode=help", "--main-branch", " "},
	}

	for _, args := range tests {
		stdout, _, err := executeCommand(t, args...)
		require.NoError(t, err, args)
		assert.Equal(t, model.ExitSuccess, ExitCodeFor(err))
		assert.Contains(t, stdout, "CalVer for Git", args)
	}

	// The same broken file still fails a guidance mode.
	_, _, err := executeCommand(t, "--mode=nextVersion", "--config", broken, "24.03.1")
	require.Error(t, err)
	assert.Equal(t, model.ExitUsageError, ExitCodeFor(err))
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
