package reporter

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/alexisbeaulieu97/journeyman/internal/domain/journey"
	"github.com/alexisbeaulieu97/journeyman/internal/events"
	"github.com/alexisbeaulieu97/journeyman/internal/vcs"
)

// Record is one line of json reporter output.
type Record struct {
	Event       events.Kind     `json:"event"`
	Time        time.Time       `json:"time"`
	NumJourneys *int            `json:"num_journeys,omitempty"`
	Revision    *vcs.Revision   `json:"revision,omitempty"`
	Journey     string          `json:"journey,omitempty"`
	Step        string          `json:"step,omitempty"`
	Index       int             `json:"index,omitempty"`
	ElapsedMS   *int64          `json:"elapsed_ms,omitempty"`
	Status      journey.Status  `json:"status,omitempty"`
	Error       string          `json:"error,omitempty"`
	Screenshot  string          `json:"screenshot,omitempty"`
	Params      *journey.Params `json:"params,omitempty"`
}

// JSONReporter writes one Record per event as newline-delimited JSON.
type JSONReporter struct {
	mu       sync.Mutex
	enc      *json.Encoder
	revision *vcs.Revision
	now      func() time.Time
}

// NewJSON creates a json reporter. revision may be nil.
func NewJSON(out io.Writer, revision *vcs.Revision) *JSONReporter {
	return &JSONReporter{enc: json.NewEncoder(out), revision: revision, now: time.Now}
}

// Attach implements events.Subscriber.
func (j *JSONReporter) Attach(bus *events.Bus) events.Subscription {
	return bus.OnAll(func(_ context.Context, event events.Event) error {
		return j.write(j.record(event))
	})
}

func (j *JSONReporter) record(event events.Event) Record {
	rec := Record{Event: event.Kind(), Time: j.now().UTC()}
	switch e := event.(type) {
	case events.Start:
		n := e.NumJourneys
		rec.NumJourneys = &n
		rec.Revision = j.revision
	case events.JourneyStart:
		rec.Journey = e.Journey.Name
		rec.Params = &e.Params
	case events.StepStart:
		rec.Journey = e.Journey.Name
		rec.Step, rec.Index = e.Step.Name, e.Step.Index
	case events.StepEnd:
		rec.Journey = e.Journey.Name
		rec.Step, rec.Index = e.Step.Name, e.Step.Index
		rec.ElapsedMS = millis(e.Elapsed)
		rec.Status = journey.StatusOf(e.Err)
		rec.Error = errString(e.Err)
		rec.Screenshot = e.Screenshot
	case events.JourneyEnd:
		rec.Journey = e.Journey.Name
		rec.ElapsedMS = millis(e.Elapsed)
		rec.Status = journey.StatusOf(e.Err)
		rec.Error = errString(e.Err)
	}
	return rec
}

func (j *JSONReporter) write(rec Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.enc.Encode(rec)
}

func millis(d time.Duration) *int64 {
	ms := events.ElapsedMillis(d)
	return &ms
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
