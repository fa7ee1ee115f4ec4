package pipeline

import (
	"sync"
	"time"
)

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// FuncSink adapts a function.
type FuncSink func(Event)

func (f FuncSink) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

// Emit sends evt when sink is set.
func Emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// EmitQueued marks every file queued.
func EmitQueued(sink ProgressSink, files []string) {
	for _, f := range files {
		Emit(sink, Event{File: f, Stage: StageLoad, Status: StatusQueued})
	}
}

// Recorder keeps every event and the per-stage timings; used by --timings
// and by tests.
type Recorder struct {
	mu      sync.Mutex
	events  []Event
	timings Timings
}

func (r *Recorder) OnEvent(evt Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	if evt.Status == StatusDone || evt.Status == StatusError {
		r.timings.Add(evt.Stage, evt.Elapsed)
	}
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Timings() Timings {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := Timings{stages: make(map[Stage]time.Duration, len(r.timings.stages))}
	for k, v := range r.timings.stages {
		out.stages[k] = v
	}
	return out
}

// Tee hands each event to every sink.
type Tee []ProgressSink

func (t Tee) OnEvent(evt Event) {
	for _, s := range t {
		Emit(s, evt)
	}
}
