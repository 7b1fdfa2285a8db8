package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the effective project configuration. Zero values mean "not set";
// Defaults fills them.
type Config struct {
	Build       BuildConfig       `toml:"build"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Trace       TraceConfig       `toml:"trace"`

	// Dir is the directory holding the file the config was read from.
	Dir string `toml:"-"`
}

type BuildConfig struct {
	OutputDir string `toml:"output_dir"`
	Cache     bool   `toml:"cache"`
	CacheDir  string `toml:"cache_dir"`
}

type DiagnosticsConfig struct {
	Max    int    `toml:"max"`
	Color  string `toml:"color"`  // auto|on|off
	Format string `toml:"format"` // pretty|short|json
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

var (
	// ErrInvalidColor reports an unknown [diagnostics].color value.
	ErrInvalidColor = errors.New("invalid [diagnostics].color")
	// ErrInvalidFormat reports an unknown [diagnostics].format value.
	ErrInvalidFormat = errors.New("invalid [diagnostics].format")
)

// Defaults returns the configuration used without a waccc.toml.
func Defaults() Config {
	return Config{
		Build:       BuildConfig{Cache: true, CacheDir: ".waccc-cache"},
		Diagnostics: DiagnosticsConfig{Max: 100, Color: "auto", Format: "pretty"},
		Trace:       TraceConfig{Level: "off", Output: "-"},
	}
}

// LoadConfig decodes path over Defaults. Keys absent from the file keep
// their default.
func LoadConfig(path string) (Config, error) {
	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("build", "cache") && !meta.IsDefined("build", "cache_dir") && !cfg.Build.Cache {
		cfg.Build.CacheDir = ""
	}
	cfg.Dir = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the nearest waccc.toml above startDir, or Defaults when
// there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Defaults(), nil
	}
	return LoadConfig(path)
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	var errs []error
	switch c.Diagnostics.Color {
	case "auto", "on", "off":
	default:
		errs = append(errs, fmt.Errorf("%w: %q (expected auto|on|off)", ErrInvalidColor, c.Diagnostics.Color))
	}
	switch c.Diagnostics.Format {
	case "pretty", "short", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: %q (expected pretty|short|json)", ErrInvalidFormat, c.Diagnostics.Format))
	}
	if c.Diagnostics.Max < 0 {
		errs = append(errs, fmt.Errorf("[diagnostics].max must not be negative, got %d", c.Diagnostics.Max))
	}
	return errors.Join(errs...)
}

// ResolveDir makes a configured directory absolute relative to the config
// file's directory.
func (c Config) ResolveDir(dir string) string {
	if dir == "" || filepath.IsAbs(dir) || c.Dir == "" {
		return dir
	}
	return filepath.Join(c.Dir, dir)
}
