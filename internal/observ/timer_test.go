package observ

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("load")
	tm.End(idx, "3 files")
	err := tm.Track("synthesize", func() (string, error) { return "", errors.New("boom") })
	if err == nil {
		t.Fatal("Track lost the error")
	}
	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("got %d phases, want 2", len(r.Phases))
	}
	if r.Phases[0].Note != "3 files" || r.Phases[1].Note != "failed" {
		t.Errorf("notes = %q, %q", r.Phases[0].Note, r.Phases[1].Note)
	}
	if !strings.Contains(tm.Summary(), "wall") {
		t.Errorf("summary misses the wall line:\n%s", tm.Summary())
	}
}

func TestTimerWallTimeOfOverlappingPhases(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx := tm.Begin("file")
			time.Sleep(5 * time.Millisecond)
			tm.End(idx, "")
		}()
	}
	wg.Wait()
	r := tm.Report()
	var sum float64
	for _, p := range r.Phases {
		sum += p.DurationMS
	}
	if r.WallMS <= 0 || r.WallMS > sum {
		t.Errorf("wall %.2fms, sum of phases %.2fms", r.WallMS, sum)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	if len(tm.Report().Phases) != 0 {
		t.Error("nil timer reported phases")
	}
}
