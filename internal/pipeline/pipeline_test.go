package pipeline

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDisplayPaths(t *testing.T) {
	base := t.TempDir()
	files := []string{
		filepath.Join(base, "b", "api.sfi"),
		filepath.Join(base, "a.sfi"),
		filepath.Join(base, "a.sfi"),
		"",
	}
	want := []string{"a.sfi", "b/api.sfi"}
	if diff := cmp.Diff(want, DisplayPaths(files, base)); diff != "" {
		t.Errorf("DisplayPaths mismatch (-want +got):\n%s", diff)
	}
	outside := filepath.Join(filepath.Dir(base), "other.sfi")
	if got := DisplayPath(outside, base); got != filepath.ToSlash(outside) {
		t.Errorf("file outside base = %q, want it unchanged", got)
	}
}

func TestRecorderTimings(t *testing.T) {
	var r Recorder
	sink := Tee{&r, FuncSink(nil)}
	EmitQueued(sink, []string{"a", "b"})
	sink.OnEvent(Event{File: "a", Stage: StageSynthesize, Status: StatusDone, Elapsed: 2 * time.Millisecond})
	sink.OnEvent(Event{File: "b", Stage: StageSynthesize, Status: StatusError, Elapsed: 3 * time.Millisecond})
	sink.OnEvent(Event{File: "b", Stage: StageWrite, Status: StatusWorking, Elapsed: time.Hour})

	if n := len(r.Events()); n != 5 {
		t.Fatalf("recorded %d events, want 5", n)
	}
	tm := r.Timings()
	if got := tm.Duration(StageSynthesize); got != 5*time.Millisecond {
		t.Errorf("synthesize = %v, want 5ms", got)
	}
	if tm.Has(StageWrite) {
		t.Error("working events must not count")
	}
	if got := tm.Sum(StageLoad, StageSynthesize); got != 5*time.Millisecond {
		t.Errorf("sum = %v", got)
	}
}
