// Package config loads the calver CLI configuration.
//
// Settings are layered with viper: built-in defaults, then the config file
// named by --config (if any), then command-line flags bound by the cli
// package. Nothing else is consulted. The process environment and files in
// the working directory never change the output, so the same arguments
// always produce the same guidance.
//
// Config files may be YAML or JSON. JSON files are read as JSONC (comments
// and trailing commas allowed) using github.com/tidwall/jsonc, matching the
// convention of editor config files.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/calver/internal/guide"
)

// Configuration keys. Flags are bound to these names by the cli package.
const (
	KeyMainBranch = "main_branch"
	KeyOutput     = "output"
	KeyVerbose    = "verbose"
)

// DefaultMainBranch is the integration branch used when none is configured.
const DefaultMainBranch = "master"

// Config holds the resolved settings for one invocation.
type Config struct {
	// MainBranch is the integration branch months are merged through.
	MainBranch string `mapstructure:"main_branch"`

	// Output is the guidance format: text, json or yaml.
	Output string `mapstructure:"output"`

	// Verbose enables diagnostic logging on stderr.
	Verbose bool `mapstructure:"verbose"`

	// File is the config file that was read, or empty if none was.
	File string `mapstructure:"-"`
}

// Default returns the built-in configuration. It is what Load resolves to
// when no file is given and no flag is set.
func Default() *Config {
	return &Config{
		MainBranch: DefaultMainBranch,
		Output:     string(guide.FormatText),
	}
}

// SetDefaults registers the built-in default for every key.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyMainBranch, d.MainBranch)
	v.SetDefault(KeyOutput, d.Output)
	v.SetDefault(KeyVerbose, d.Verbose)
}

// Load resolves the configuration from v. A config file is read only when
// path is non-empty; a path that cannot be read or parsed is an error.
//
// Environment variables are deliberately not bound (no AutomaticEnv), so
// only defaults, the explicit file and flags bound on v take effect.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	if path != "" {
		if err := readFile(v, path); err != nil {
			return nil, err
		}
	}

	// Unmarshal resolves every key through viper's precedence order:
	// changed flag > config file > default.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.File = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the resolved settings are usable.
func (c *Config) Validate() error {
	// An empty branch name would produce guidance like "merge 24.03 to ".
	if strings.TrimSpace(c.MainBranch) == "" {
		return fmt.Errorf("main branch must not be empty")
	}
	if _, err := guide.ParseFormat(c.Output); err != nil {
		return err
	}
	return nil
}

// Format returns the parsed output format. Validate must have succeeded.
func (c *Config) Format() guide.Format {
	f, _ := guide.ParseFormat(c.Output)
	return f
}

// readFile loads path into v, choosing the decoder from the extension.
func readFile(v *viper.Viper, path string) error {
	// os.ReadFile rather than viper.ReadInConfig: JSONC must be cleaned up
	// before viper sees it, so we hand viper the bytes ourselves.
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// viper's JSON decoder rejects comments and trailing commas,
		// so strip them first.
		data = jsonc.ToJSON(data)
		v.SetConfigType("json")
	case ".yaml", ".yml":
		v.SetConfigType("yaml")
	default:
		return fmt.Errorf("unsupported config file type %q (valid: .json, .jsonc, .yaml, .yml)", filepath.Ext(path))
	}

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}
