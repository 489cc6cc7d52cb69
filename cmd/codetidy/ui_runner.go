package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"codetidy/internal/pipeline"
	"codetidy/internal/tidy"
	"codetidy/internal/ui"
)

type checkOutcome struct {
	result *tidy.Result
	err    error
}

// runCheckWithUI runs the check in the background and renders its stage
// events until the pipeline finishes.
func runCheckWithUI(ctx context.Context, out io.Writer, title string, opts tidy.Options) (*tidy.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		opts.Progress = pipeline.ChannelSink{Ch: events}
		res, err := tidy.Check(ctx, opts)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// модель могла выйти раньше (ctrl+c); пайплайн не должен встать на полном канале
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil && ctx.Err() == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
