// Package driver runs checks: it expands the command line into entry
// files, analyses each of them in its own context and collects the
// findings. Entry files are independent and are checked concurrently.
package driver

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"plint/internal/config"
	"plint/internal/diag"
	"plint/internal/modules"
	"plint/internal/observ"
	"plint/internal/parser"
	"plint/internal/report"
	"plint/internal/source"
	"plint/internal/symbols"
	"plint/internal/trace"
)

// Options configure Check and CheckFile.
type Options struct {
	Analysis       config.Analysis
	MaxDiagnostics int // per entry file, 0 = unlimited
	Jobs           int // 0 = GOMAXPROCS
	Timings        bool
	Cache          *Cache // nil disables result caching
	Progress       ProgressObserver
}

// Result is the outcome of checking one entry file.
type Result struct {
	Path    string
	Bag     *diag.Bag
	Summary report.Summary
	Timing  *observ.Report
	Cached  bool
}

// Failed applies the pass/fail verdict to the result.
func (r *Result) Failed(strict bool) bool {
	return r != nil && r.Bag != nil && r.Bag.Counts().Failed(strict)
}

// Totals sums the counts of all results.
func Totals(results []*Result) diag.Counts {
	var total diag.Counts
	for _, r := range results {
		if r == nil || r.Bag == nil {
			continue
		}
		c := r.Bag.Counts()
		total.Errors += c.Errors
		total.Warnings += c.Warnings
		total.Notices += c.Notices
	}
	return total
}

// Check analyses every file of files on its own. Results keep the order
// of files; an entry is nil when the run was cancelled before reaching it.
func Check(ctx context.Context, files []string, opts Options) ([]*Result, error) {
	results := make([]*Result, len(files))
	if len(files) == 0 {
		return results, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	notify := func(ev ProgressEvent) {
		if opts.Progress != nil {
			ev.Total = len(files)
			opts.Progress(ev)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			notify(ProgressEvent{Path: path, Status: ProgressStart, Index: i})
			started := time.Now()
			res := CheckFile(gctx, path, opts)
			// индекс i уникален для горутины, мьютекс не нужен
			results[i] = res
			notify(ProgressEvent{
				Path:    path,
				Status:  ProgressDone,
				Index:   i,
				Cached:  res.Cached,
				Failed:  res.Failed(opts.Analysis.WarningsAsErrors),
				Elapsed: time.Since(started),
			})
			return nil
		})
	}
	return results, g.Wait()
}

// CheckFile analyses one entry file with everything it requires.
func CheckFile(ctx context.Context, path string, opts Options) *Result {
	a := opts.Analysis
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeEntry, "check", trace.CurrentSpan(ctx)).WithExtra("path", path)
	src := modules.New(a.ModulePath)

	if res, ok := opts.Cache.Lookup(path, opts, src); ok {
		span.End("cached")
		return res
	}

	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	sctx := symbols.NewContext(diag.NewDedupReporter(diag.BagReporter{Bag: bag}), symbols.Options{
		Unchecked:           a.Unchecked,
		ResolveMissingClass: Autoloader(a.AutoloadBase),
	})
	p := parser.New(sctx, parser.Options{
		Encoding: a.Encoding,
		Modules:  src.Lookup,
		Sandbox:  a.Sandbox,
		MaxDepth: a.MaxDepth,
		Tracer:   tracer,
		SpanID:   span.ID(),
	})

	idx := timer.Begin("modules")
	for _, name := range a.Modules {
		p.LoadModule(name, true, source.Location{File: path})
	}
	timer.End(idx, fmt.Sprintf("modules=%d", len(a.Modules)))

	idx = timer.Begin("parse")
	entry := p.ParseFile(path, 0)
	timer.End(idx, fmt.Sprintf("files=%d", sctx.Packages.Len()))

	idx = timer.Begin("report")
	summary := report.Run(sctx, entry)
	timer.End(idx, fmt.Sprintf("packages=%d", len(summary.Packages)))

	if a.WarningsAsErrors {
		bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
			return d
		})
	}
	bag.Sort()

	res := &Result{Path: path, Bag: bag, Summary: summary}
	if timer != nil {
		r := timer.Report()
		res.Timing = &r
	}
	if err := opts.Cache.Store(path, opts, src, sctx.Packages.All(), res); err != nil {
		trace.Point(tracer, trace.ScopeDetail, "cache", "store failed: "+err.Error(), span.ID())
	}
	c := bag.Counts()
	span.End(fmt.Sprintf("errors=%d warnings=%d notices=%d", c.Errors, c.Warnings, c.Notices))
	return res
}
