package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"plint/internal/config"
)

// loadSettings reads plint.toml (from --config or the nearest one above
// the working directory) and applies the flags the user set on top of it.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	root := cmd.Root().PersistentFlags()
	path, err := root.GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return config.Config{}, fmt.Errorf("failed to get working directory: %w", wdErr)
		}
		cfg, err = config.Discover(wd)
	}
	if err != nil {
		return config.Config{}, err
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// applyFlags overrides cfg with every flag set on the command line. Flags
// the command does not define are skipped.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	var firstErr error
	note := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	str := func(name string, dst *string) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			v, err := cmd.Flags().GetString(name)
			note(err)
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(name string, dst *int) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			v, err := cmd.Flags().GetInt(name)
			note(err)
			*dst = v
		}
	}
	flag := func(name string, dst *bool) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			v, err := cmd.Flags().GetBool(name)
			note(err)
			*dst = v
		}
	}
	list := func(name string, dst *[]string) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			v, err := cmd.Flags().GetStringSlice(name)
			note(err)
			*dst = v
		}
	}

	str("color", &cfg.Output.Color)
	num("max-diagnostics", &cfg.Output.MaxDiagnostics)
	str("format", &cfg.Output.Format)
	str("path-mode", &cfg.Output.PathMode)
	num("tab-width", &cfg.Output.TabWidth)

	str("encoding", &cfg.Analysis.Encoding)
	list("modules", &cfg.Analysis.Modules)
	str("module-path", &cfg.Analysis.ModulePath)
	list("unchecked", &cfg.Analysis.Unchecked)
	str("autoload-base", &cfg.Analysis.AutoloadBase)
	flag("sandbox", &cfg.Analysis.Sandbox)
	num("max-depth", &cfg.Analysis.MaxDepth)
	flag("warnings-as-errors", &cfg.Analysis.WarningsAsErrors)

	if f := cmd.Flags().Lookup("exclude"); f != nil && f.Changed {
		v, err := cmd.Flags().GetStringSlice("exclude")
		note(err)
		cfg.Files.Exclude = append(cfg.Files.Exclude, v...)
	}
	str("cache-dir", &cfg.Cache.Dir)
	if f := cmd.Flags().Lookup("no-cache"); f != nil && f.Changed {
		v, err := cmd.Flags().GetBool("no-cache")
		note(err)
		cfg.Cache.Enabled = !v
	}
	return firstErr
}
