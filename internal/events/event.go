// Package events defines the closed set of lifecycle events emitted by the
// runner and the synchronous bus that delivers them to reporters.
package events

import (
	"time"

	"github.com/alexisbeaulieu97/journeyman/internal/domain/journey"
)

// Kind names one of the six lifecycle events.
type Kind string

const (
	KindStart        Kind = "start"
	KindJourneyStart Kind = "journey:start"
	KindJourneyEnd   Kind = "journey:end"
	KindStepStart    Kind = "step:start"
	KindStepEnd      Kind = "step:end"
	KindEnd          Kind = "end"
)

// Kinds lists every event kind in emission order.
var Kinds = []Kind{KindStart, KindJourneyStart, KindStepStart, KindStepEnd, KindJourneyEnd, KindEnd}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Event is implemented only by the payload types in this package.
type Event interface {
	Kind() Kind
	sealed()
}

// JourneyInfo identifies a journey inside an event.
type JourneyInfo struct {
	Name string
}

// StepInfo identifies a step inside an event. Index is 1-based.
type StepInfo struct {
	Name  string
	Index int
}

// Start opens a run.
type Start struct {
	NumJourneys int
}

// JourneyStart fires once the journey's browser session has been acquired (or
// has failed to be).
type JourneyStart struct {
	Journey JourneyInfo
	Params  journey.Params
}

// JourneyEnd closes a journey. Err is the first failure, if any.
type JourneyEnd struct {
	Journey JourneyInfo
	Params  journey.Params
	Elapsed time.Duration
	Err     error
}

// StepStart fires immediately before a step's action is invoked.
type StepStart struct {
	Journey JourneyInfo
	Step    StepInfo
}

// StepEnd closes a step. Screenshot is base64 encoded and empty when no
// capture happened.
type StepEnd struct {
	Journey    JourneyInfo
	Step       StepInfo
	Elapsed    time.Duration
	Err        error
	Screenshot string
}

// End closes a run.
type End struct{}

func (Start) Kind() Kind        { return KindStart }
func (JourneyStart) Kind() Kind { return KindJourneyStart }
func (JourneyEnd) Kind() Kind   { return KindJourneyEnd }
func (StepStart) Kind() Kind    { return KindStepStart }
func (StepEnd) Kind() Kind      { return KindStepEnd }
func (End) Kind() Kind          { return KindEnd }

func (Start) sealed()        {}
func (JourneyStart) sealed() {}
func (JourneyEnd) sealed()   {}
func (StepStart) sealed()    {}
func (StepEnd) sealed()      {}
func (End) sealed()          {}

// ElapsedMillis converts an elapsed duration to whole milliseconds.
func ElapsedMillis(d time.Duration) int64 {
	return d.Milliseconds()
}
