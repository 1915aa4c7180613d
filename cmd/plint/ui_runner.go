package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"plint/internal/driver"
	"plint/internal/ui"
)

type checkOutcome struct {
	results []*driver.Result
	err     error
}

// runCheckWithUI runs driver.Check while a progress view follows it. The
// view quits when the check closes the event channel.
func runCheckWithUI(ctx context.Context, title string, files []string, opts driver.Options) ([]*driver.Result, error) {
	events := make(chan driver.ProgressEvent, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		o := opts
		o.Progress = func(ev driver.ProgressEvent) { events <- ev }
		res, err := driver.Check(ctx, files, o)
		outcomeCh <- checkOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithInput(nil))
	_, uiErr := program.Run()
	if uiErr != nil {
		// keep draining so workers never block on a full channel
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
