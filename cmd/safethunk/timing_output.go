package main

import (
	"fmt"
	"io"
	"time"

	"safethunk/internal/pipeline"
)

func printStageTimings(out io.Writer, timings pipeline.Timings) {
	if out == nil {
		return
	}
	for _, st := range []pipeline.Stage{pipeline.StageLoad, pipeline.StageParse, pipeline.StageSynthesize, pipeline.StageWrite} {
		if !timings.Has(st) {
			continue
		}
		fmt.Fprintf(out, "%s %.1f ms\n", st, toMillis(timings.Duration(st)))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
