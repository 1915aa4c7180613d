package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"plint/internal/config"
	"plint/internal/diag"
	"plint/internal/diagfmt"
	"plint/internal/driver"
	"plint/internal/observ"
	"plint/internal/trace"
	"plint/internal/version"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <file.php|directory>...",
		Short: "Check PHP entry files",
		Long: `Check analyses every given file, and every .php file below the given
directories, as a separate program: each entry is parsed together with
the files it requires and the modules it uses.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}
	f := cmd.Flags()
	f.String("format", "", "output format (pretty|short|json|sarif|msgpack)")
	f.String("path-mode", "", "how paths are shown (auto|absolute|relative|basename)")
	f.Int("tab-width", 0, "tab width for source excerpts")
	f.Int("jobs", 0, "max parallel entry files (0=auto)")
	f.Bool("warnings-as-errors", false, "treat warnings as errors")
	f.Bool("sandbox", false, "report file system and process functions")
	f.String("encoding", "", "source encoding (utf-8|iso-8859-1|windows-1252)")
	f.StringSlice("modules", nil, "modules every entry uses implicitly")
	f.String("module-path", "", "directory searched for module prototypes before the built-in ones")
	f.StringSlice("unchecked", nil, "exception classes that need no throws declaration")
	f.String("autoload-base", "", "directory where classes are looked up as <Namespace>/<Class>.php")
	f.Int("max-depth", 0, "maximum require nesting")
	f.StringSlice("exclude", nil, "glob of paths to skip in directories (repeatable)")
	f.Bool("packages", false, "print the package list of every entry file")
	f.Bool("with-notes", true, "include diagnostic notes in output")
	f.String("ui", "auto", "progress UI (auto|on|off)")
	f.Bool("no-cache", false, "do not read or write the result cache")
	f.String("cache-dir", "", "result cache directory")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	defer dumpTraceOnPanic(ctx)

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	showPackages, err := cmd.Flags().GetBool("packages")
	if err != nil {
		return fmt.Errorf("failed to get packages flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	ex, err := cfg.Excluder()
	if err != nil {
		return err
	}
	files, err := driver.CollectFiles(args, ex)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files found in %v", driver.Extensions[0], args)
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeRun, "check", 0).
		WithExtra("files", fmt.Sprint(len(files)))
	ctx = trace.WithSpan(ctx, span)

	opts := driver.Options{
		Analysis:       cfg.Analysis,
		MaxDiagnostics: cfg.Output.MaxDiagnostics,
		Jobs:           jobs,
		Timings:        showTimings,
		Cache:          openCache(cmd.ErrOrStderr(), cfg.Cache),
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}

	var results []*driver.Result
	if wantsProgress(mode, len(files), quiet) {
		results, err = runCheckWithUI(ctx, "checking", files, opts)
	} else {
		results, err = driver.Check(ctx, files, opts)
	}
	if err != nil {
		span.End("cancelled")
		return err
	}

	totals := driver.Totals(results)
	span.End(fmt.Sprintf("errors=%d warnings=%d notices=%d", totals.Errors, totals.Warnings, totals.Notices))

	if err := writeResults(cmd.OutOrStdout(), cfg, results, outputOptions{
		quiet:     quiet,
		packages:  showPackages,
		withNotes: withNotes,
		args:      os.Args,
	}); err != nil {
		return err
	}
	if showTimings {
		printTimings(cmd.ErrOrStderr(), results)
	}

	for _, r := range results {
		if r.Failed(cfg.Analysis.WarningsAsErrors) {
			return errChecksFailed
		}
	}
	return nil
}

// openCache returns the result cache, or nil when it is disabled or cannot
// be opened.
func openCache(errOut io.Writer, c config.Cache) *driver.Cache {
	if !c.Enabled {
		return nil
	}
	cache, err := driver.OpenCache(c.Dir)
	if err != nil {
		fmt.Fprintf(errOut, "plint: cache disabled: %v\n", err)
		return nil
	}
	return cache
}

type outputOptions struct {
	quiet     bool
	packages  bool
	withNotes bool
	args      []string
}

// writeResults prints results in the configured format. Quiet output
// leaves out notices and the totals line.
func writeResults(out io.Writer, cfg config.Config, results []*driver.Result, o outputOptions) error {
	pathMode, err := diagfmt.ParsePathMode(cfg.Output.PathMode)
	if err != nil {
		return err
	}
	baseDir, err := os.Getwd()
	if err != nil {
		baseDir = ""
	}
	totals := driver.Totals(results)
	if o.quiet {
		for _, r := range results {
			r.Bag.Filter(func(d diag.Diagnostic) bool { return d.Severity != diag.SevNotice })
		}
	}

	entries := make([]diagfmt.Entry, 0, len(results))
	for _, r := range results {
		e := diagfmt.Entry{Path: r.Path, Bag: r.Bag}
		if o.packages {
			e.Summary = &r.Summary
		}
		entries = append(entries, e)
	}
	jsonOpts := diagfmt.JSONOpts{PathMode: pathMode, BaseDir: baseDir, IncludeNotes: o.withNotes}

	switch cfg.Output.Format {
	case "json":
		return diagfmt.JSON(out, entries, jsonOpts)
	case "msgpack":
		return diagfmt.Msgpack(out, entries, jsonOpts)
	case "sarif":
		return diagfmt.Sarif(out, entries, diagfmt.SarifRunMeta{
			ToolName:       "plint",
			ToolVersion:    version.Version,
			InvocationArgs: o.args,
			BaseDir:        baseDir,
		})
	case "short":
		for _, r := range results {
			diagfmt.Short(out, r.Bag, pathMode, baseDir)
		}
		return nil
	}

	prettyOpts := diagfmt.PrettyOpts{
		Color:     useColor(cfg.Output.Color, os.Stdout),
		PathMode:  pathMode,
		BaseDir:   baseDir,
		TabWidth:  cfg.Output.TabWidth,
		ShowNotes: o.withNotes,
	}
	for _, r := range results {
		diagfmt.Pretty(out, r.Bag, prettyOpts)
		if o.packages {
			diagfmt.Packages(out, r.Summary, prettyOpts)
		}
	}
	if !o.quiet {
		diagfmt.Totals(out, len(results), totals, prettyOpts)
	}
	return nil
}

// printTimings writes the phase table of a single entry, or the sum over
// all entries. Cached entries have no timings.
func printTimings(out io.Writer, results []*driver.Result) {
	reports := make([]*observ.Report, 0, len(results))
	cached := 0
	for _, r := range results {
		if r.Cached {
			cached++
			continue
		}
		reports = append(reports, r.Timing)
	}
	heading, report := "timings", observ.Aggregate(reports)
	if len(results) == 1 && len(reports) == 1 && reports[0] != nil {
		heading, report = "timings of "+results[0].Path, *reports[0]
	}
	if err := report.Write(out, heading); err != nil {
		return
	}
	if cached > 0 {
		fmt.Fprintf(out, "  %d cached entries not timed\n", cached)
	}
}
