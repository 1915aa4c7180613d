package driver

import "time"

// ProgressStatus tells whether an entry file started or finished.
type ProgressStatus int

const (
	ProgressStart ProgressStatus = iota
	ProgressDone
)

// ProgressEvent describes one entry file of a Check run.
type ProgressEvent struct {
	Path    string
	Status  ProgressStatus
	Index   int // position in the sorted entry list
	Total   int
	Cached  bool
	Failed  bool // the file has errors (or warnings, when they count)
	Elapsed time.Duration
}

// ProgressObserver receives events from concurrent workers; it must be
// safe for concurrent use.
type ProgressObserver func(ProgressEvent)
