package main

import (
	"context"
	"fmt"
	"strings"

	"safethunk/internal/driver"
	"safethunk/internal/pipeline"
	"safethunk/internal/ui"
)

type runOutcome struct {
	result *driver.Result
	err    error
}

func readUIMode(value string) (string, error) {
	switch mode := strings.TrimSpace(strings.ToLower(value)); mode {
	case "", "auto":
		return "auto", nil
	case "on", "off":
		return mode, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// runWithUI runs the driver in the background and shows its progress until
// every file is through.
func runWithUI(ctx context.Context, title string, files []string, opts driver.Options) (*driver.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		runOpts := opts
		runOpts.Progress = pipeline.Tee{opts.Progress, pipeline.ChannelSink{Ch: events}}
		res, err := driver.Run(ctx, files, runOpts)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	uiErr := ui.Run(ctx, title, files, events)
	if uiErr != nil {
		// вид закрылся раньше: дочитываем события, чтобы driver не встал
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
