package journey

import (
	"sort"
	"time"
)

// Status represents the terminal outcome of a journey or step.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// StatusOf maps an error to a Status.
func StatusOf(err error) Status {
	if err != nil {
		return StatusFailed
	}
	return StatusSucceeded
}

// StepOutcome captures the outcome of one executed step.
type StepOutcome struct {
	Name       string
	Index      int
	Status     Status
	Err        error
	Elapsed    time.Duration
	Screenshot string
}

// JourneyResult captures the outcome of one journey.
type JourneyResult struct {
	Name    string
	Status  Status
	Err     error
	Elapsed time.Duration
	Steps   []StepOutcome
}

// IsFailure returns true when the journey failed.
func (r JourneyResult) IsFailure() bool {
	return r.Status == StatusFailed
}

// FailedStep returns the first failed step, if any.
func (r JourneyResult) FailedStep() (StepOutcome, bool) {
	for _, step := range r.Steps {
		if step.Status == StatusFailed {
			return step, true
		}
	}
	return StepOutcome{}, false
}

// Results maps journey names to their outcomes.
type Results map[string]JourneyResult

// Failed reports whether any journey failed.
func (r Results) Failed() bool {
	for _, res := range r {
		if res.IsFailure() {
			return true
		}
	}
	return false
}

// Names returns the journey names in sorted order.
func (r Results) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summary counts succeeded and failed journeys.
func (r Results) Summary() (succeeded, failed int) {
	for _, res := range r {
		if res.IsFailure() {
			failed++
		} else {
			succeeded++
		}
	}
	return succeeded, failed
}
