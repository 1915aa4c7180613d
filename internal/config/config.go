// Package config loads plint.toml, the per-project settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"

	"plint/internal/source"
)

// FileName is the settings file searched from the working directory up.
const FileName = "plint.toml"

// Config mirrors plint.toml.
type Config struct {
	Analysis Analysis `toml:"analysis"`
	Output   Output   `toml:"output"`
	Files    Files    `toml:"files"`
	Cache    Cache    `toml:"cache"`

	// Path is the file the settings came from, empty for defaults.
	Path string `toml:"-"`
}

// Analysis tunes the checker itself.
type Analysis struct {
	Encoding         string   `toml:"encoding"`
	Modules          []string `toml:"modules"`
	ModulePath       string   `toml:"module_path"`
	Unchecked        []string `toml:"unchecked"`
	AutoloadBase     string   `toml:"autoload_base"`
	Sandbox          bool     `toml:"sandbox"`
	MaxDepth         int      `toml:"max_depth"`
	WarningsAsErrors bool     `toml:"warnings_as_errors"`
}

// Output controls how findings are printed.
type Output struct {
	Format         string `toml:"format"`
	TabWidth       int    `toml:"tab_width"`
	PathMode       string `toml:"path_mode"`
	Color          string `toml:"color"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

// Cache controls the on-disk result cache. An empty Dir means the user
// cache directory.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Files selects what a directory check visits.
type Files struct {
	Exclude []string `toml:"exclude"`
}

var (
	formats   = []string{"pretty", "short", "json", "sarif", "msgpack"}
	pathModes = []string{"auto", "absolute", "relative", "basename"}
	colors    = []string{"auto", "on", "off"}
)

// Default returns the settings used when no plint.toml exists.
func Default() Config {
	return Config{
		Analysis: Analysis{
			Encoding:  "utf-8",
			Modules:   []string{"core", "standard", "spl"},
			Unchecked: []string{"Error", "LogicException"},
			MaxDepth:  32,
		},
		Output: Output{
			Format:         "pretty",
			TabWidth:       8,
			PathMode:       "auto",
			Color:          "auto",
			MaxDiagnostics: 500,
		},
		Cache: Cache{Enabled: true},
	}
}

// Find walks up from startDir looking for plint.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest plint.toml above startDir, or the defaults
// when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load decodes path over the defaults. Keys missing from the file keep
// their default value; relative directories are taken from the file's
// location.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	base := filepath.Dir(path)
	cfg.Analysis.ModulePath = relativeTo(base, cfg.Analysis.ModulePath)
	cfg.Analysis.AutoloadBase = relativeTo(base, cfg.Analysis.AutoloadBase)
	cfg.Cache.Dir = relativeTo(base, cfg.Cache.Dir)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func relativeTo(base, dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, filepath.FromSlash(dir))
}

// Validate checks enumerations and ranges. Flags are validated through
// the same path after they are applied.
func (c *Config) Validate() error {
	if !slices.Contains(formats, c.Output.Format) {
		return fmt.Errorf("[output].format must be one of %s, got %q", strings.Join(formats, "|"), c.Output.Format)
	}
	if !slices.Contains(pathModes, c.Output.PathMode) {
		return fmt.Errorf("[output].path_mode must be one of %s, got %q", strings.Join(pathModes, "|"), c.Output.PathMode)
	}
	if !slices.Contains(colors, c.Output.Color) {
		return fmt.Errorf("[output].color must be one of %s, got %q", strings.Join(colors, "|"), c.Output.Color)
	}
	if c.Output.TabWidth < 1 {
		return fmt.Errorf("[output].tab_width must be positive, got %d", c.Output.TabWidth)
	}
	if c.Output.MaxDiagnostics < 0 {
		return fmt.Errorf("[output].max_diagnostics must not be negative, got %d", c.Output.MaxDiagnostics)
	}
	if c.Analysis.MaxDepth < 1 {
		return fmt.Errorf("[analysis].max_depth must be positive, got %d", c.Analysis.MaxDepth)
	}
	if err := source.CheckEncoding(c.Analysis.Encoding); err != nil {
		return fmt.Errorf("[analysis].encoding: %w", err)
	}
	if _, err := c.Excluder(); err != nil {
		return err
	}
	return nil
}

// Excluder compiles the [files].exclude patterns.
func (c *Config) Excluder() (*Excluder, error) {
	ex := &Excluder{}
	for _, pattern := range c.Files.Exclude {
		g, err := glob.Compile(filepath.ToSlash(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("[files].exclude: bad pattern %q: %w", pattern, err)
		}
		ex.globs = append(ex.globs, g)
	}
	return ex, nil
}

// Excluder matches slash-separated paths relative to the checked root.
type Excluder struct {
	globs []glob.Glob
}

// Match reports whether rel is excluded.
func (e *Excluder) Match(rel string) bool {
	if e == nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, g := range e.globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}
