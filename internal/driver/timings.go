package driver

import (
	"encoding/json"
	"fmt"

	"safethunk/internal/diag"
	"safethunk/internal/observ"
	"safethunk/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Decls   int                  `json:"decls"`
	Cached  int                  `json:"cached"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// TimingDiagnostic turns the timer report into an info diagnostic whose
// note carries the JSON payload, so --format json consumers get it too.
func TimingDiagnostic(res *Result, timer *observ.Timer) (diag.Diagnostic, bool) {
	if timer == nil {
		return diag.Diagnostic{}, false
	}
	report := timer.Report()
	_, generated, cached := res.Counts()
	payload := timingPayload{
		Kind:    "pipeline",
		Decls:   generated,
		Cached:  cached,
		TotalMS: report.WallMS,
		Phases:  report.Phases,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return diag.Diagnostic{}, false
	}
	msg := fmt.Sprintf("timings: total %.2f ms, %d decls (%d cached)", payload.TotalMS, generated, cached)
	d := diag.New(diag.SevInfo, diag.ObsTimings, source.NoSpan, msg).
		WithNote(source.NoSpan, string(data))
	return d, true
}

// AppendTimings returns bag with the timing diagnostic added, growing past
// the bag limit if needed.
func AppendTimings(bag *diag.Bag, res *Result, timer *observ.Timer) *diag.Bag {
	d, ok := TimingDiagnostic(res, timer)
	if !ok || bag.Add(d) {
		return bag
	}
	grown := diag.NewBag(bag.Len() + 1)
	grown.Merge(bag)
	grown.Add(d)
	return grown
}
