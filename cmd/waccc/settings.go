package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"waccc/internal/diagfmt"
	"waccc/internal/driver"
	"waccc/internal/project"
)

// settings is the project config with command-line overrides applied.
type settings struct {
	cfg     project.Config
	color   bool
	timings bool
	cache   *driver.Cache
}

// loadSettings discovers waccc.toml above dir and applies flags the user set
// explicitly. Flags that keep their default never override the file.
func loadSettings(cmd *cobra.Command, dir string) (*settings, error) {
	cfg, err := project.Discover(dir)
	if err != nil {
		return nil, err
	}
	pf := cmd.Root().PersistentFlags()
	override := func(name string, dst *string) error {
		if !pf.Changed(name) {
			return nil
		}
		v, err := pf.GetString(name)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
		return nil
	}
	for name, dst := range map[string]*string{
		"color":              &cfg.Diagnostics.Color,
		"diagnostics-format": &cfg.Diagnostics.Format,
		"trace":              &cfg.Trace.Output,
		"trace-level":        &cfg.Trace.Level,
		"trace-format":       &cfg.Trace.Format,
	} {
		if err := override(name, dst); err != nil {
			return nil, err
		}
	}
	if pf.Changed("max-diagnostics") {
		if cfg.Diagnostics.Max, err = pf.GetInt("max-diagnostics"); err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	// --trace без уровня включает фазы
	if pf.Changed("trace") && !pf.Changed("trace-level") && (cfg.Trace.Level == "" || cfg.Trace.Level == "off") {
		cfg.Trace.Level = "phase"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &settings{cfg: cfg}
	if s.timings, err = pf.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	switch cfg.Diagnostics.Color {
	case "on":
		s.color = true
	case "auto":
		s.color = isTerminal(cmd.ErrOrStderr())
	}

	noCache, err := pf.GetBool("no-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if cfg.Build.Cache && !noCache {
		s.cache = openCache(cmd, cfg)
	}
	return s, nil
}

// openCache degrades to no cache when the directory is unusable.
func openCache(cmd *cobra.Command, cfg project.Config) *driver.Cache {
	dir, err := cacheDir(cfg)
	if err == nil {
		var c *driver.Cache
		if c, err = driver.OpenCache(dir); err == nil {
			return c
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "waccc: cache disabled: %v\n", err)
	return nil
}

// cacheDir is relative to waccc.toml when there is one, else the user cache.
func cacheDir(cfg project.Config) (string, error) {
	if cfg.Dir == "" {
		return driver.DefaultCacheDir("waccc")
	}
	return cfg.ResolveDir(cfg.Build.CacheDir), nil
}

// report prints the diagnostics of res in the configured format.
func (s *settings) report(w io.Writer, res *driver.Result) error {
	if res.Bag.Len() == 0 {
		return nil
	}
	switch s.cfg.Diagnostics.Format {
	case "short":
		diagfmt.Short(w, res.Bag, res.FileSet, true)
	case "json":
		return diagfmt.JSON(w, res.Bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			Max:              s.cfg.Diagnostics.Max,
		})
	default:
		diagfmt.Pretty(w, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     s.color,
			Context:   1,
			ShowNotes: true,
			Max:       s.cfg.Diagnostics.Max,
		})
	}
	return nil
}

func (s *settings) reportTimings(w io.Writer, res *driver.Result) error {
	if !s.timings || res.Cached {
		return nil
	}
	return res.Timings.WriteSummary(w)
}

// dirOf is the directory waccc.toml discovery starts from.
func dirOf(path string) string { return filepath.Dir(path) }

// outputPath picks where `build` writes: -o wins, then [build].output_dir,
// then the current directory. The file is named after the source.
func outputPath(input, flag string, cfg project.Config) string {
	if flag != "" {
		return flag
	}
	base := filepath.Base(input)
	name := base[:len(base)-len(filepath.Ext(base))] + ".s"
	if dir := cfg.ResolveDir(cfg.Build.OutputDir); dir != "" {
		return filepath.Join(dir, name)
	}
	return name
}
