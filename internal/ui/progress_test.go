package ui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"safethunk/internal/pipeline"
)

func TestApplyEventTracksFiles(t *testing.T) {
	m := NewProgressModel("gen", []string{"a.sfi", "b.sfi"}, nil).(*progressModel)

	m.applyEvent(pipeline.Event{File: "a.sfi", Stage: pipeline.StageSynthesize, Status: pipeline.StatusWorking})
	m.applyEvent(pipeline.Event{File: "b.sfi", Stage: pipeline.StageWrite, Status: pipeline.StatusDone, Decls: 3, Cached: 1})
	m.applyEvent(pipeline.Event{File: "unknown.sfi", Stage: pipeline.StageWrite, Status: pipeline.StatusDone})
	m.applyEvent(pipeline.Event{Stage: pipeline.StageParse, Status: pipeline.StatusWorking})

	if got := m.items[0].status; got != "generating" {
		t.Errorf("a.sfi status = %q, want generating", got)
	}
	if got := m.items[1]; got.status != "done" || got.decls != 3 || got.cached != 1 {
		t.Errorf("b.sfi = %+v", got)
	}
	if m.stageLabel != "parsing" {
		t.Errorf("stage label = %q, want parsing", m.stageLabel)
	}
	if p := m.percent(); p != 0.75 {
		t.Errorf("percent = %v, want 0.75", p)
	}
	view := m.View()
	if !strings.Contains(view, "3 decl, 1 cached") {
		t.Errorf("view misses counts:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.sfi", 20, "short.sfi"},
		{"abcdef", 2, "ab"},
		{"файл.sfi", 0, "файл.sfi"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
	long := "a/very/long/path/api.sfi"
	got := truncate(long, 10)
	if !strings.HasSuffix(got, "...") || runewidth.StringWidth(got) > 10 {
		t.Errorf("truncate(%q, 10) = %q", long, got)
	}
}

func TestEnabledModes(t *testing.T) {
	if !Enabled("on", 1) || Enabled("off", 10) {
		t.Error("explicit modes ignored")
	}
	if Enabled("auto", 1) {
		t.Error("auto must stay off for a single file")
	}
}
