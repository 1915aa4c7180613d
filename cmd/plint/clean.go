package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"plint/internal/driver"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the plint result cache",
		Long:  "Remove the stored check results. The cache directory comes from --cache-dir, plint.toml or the user cache directory.",
		Args:  cobra.NoArgs,
		RunE:  runClean,
	}
	cmd.Flags().String("cache-dir", "", "result cache directory")
	return cmd
}

func runClean(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		if dir, err = driver.DefaultCacheDir(); err != nil {
			return err
		}
	}
	out := cmd.OutOrStdout()
	results := filepath.Join(dir, "results")
	info, err := os.Stat(results)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			_, _ = fmt.Fprintln(out, "cache is empty")
			return nil
		}
		return fmt.Errorf("failed to stat %q: %w", results, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", results)
	}
	cache, err := driver.OpenCache(dir)
	if err != nil {
		return err
	}
	if err := cache.Clear(); err != nil {
		return fmt.Errorf("failed to remove %q: %w", results, err)
	}
	_, _ = fmt.Fprintf(out, "removed %s\n", results)
	return nil
}
