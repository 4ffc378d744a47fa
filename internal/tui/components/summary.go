package components

import "fmt"

// SummaryData is the tally shown under the journey list.
type SummaryData struct {
	Total     int
	Succeeded int
	Failed    int
	Finished  bool
	Cancelled bool
}

// Outcome describes how the run ended, or "" while it is still going.
func (d SummaryData) Outcome() string {
	switch {
	case d.Cancelled:
		return "Run cancelled"
	case !d.Finished:
		return ""
	case d.Total == 0:
		return "No journeys to run"
	case d.Failed > 0:
		return "Run finished with failures"
	case d.Succeeded < d.Total:
		return "Run finished with skipped journeys"
	}
	return "All journeys succeeded"
}

// Summary renders the tally line and the outcome, one per line.
func Summary(d SummaryData) string {
	var out string
	if d.Total > 0 {
		out = fmt.Sprintf("Journeys: %d succeeded, %d failed, %d total", d.Succeeded, d.Failed, d.Total)
	}
	if outcome := d.Outcome(); outcome != "" {
		if out != "" {
			out += "\n"
		}
		out += outcome
	}
	return out
}
