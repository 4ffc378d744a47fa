package components

import "time"

// Row statuses. Finished rows use journey.Status values.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// StepRow is one step line under a journey.
type StepRow struct {
	Name    string
	Index   int
	Status  string
	Elapsed time.Duration
	Message string
}

// JourneyRow is a journey and the steps it has reached so far.
type JourneyRow struct {
	Name    string
	Status  string
	Elapsed time.Duration
	Message string
	Steps   []StepRow
}

// JourneyList keeps rows in the order journeys started.
type JourneyList struct {
	rows []JourneyRow
}

// Start appends a running row for name.
func (l *JourneyList) Start(name string) {
	l.rows = append(l.rows, JourneyRow{Name: name, Status: StatusRunning})
}

// StartStep appends a running step to the latest row.
func (l *JourneyList) StartStep(name string, index int) {
	row := l.last()
	if row == nil {
		return
	}
	row.Steps = append(row.Steps, StepRow{Name: name, Index: index, Status: StatusRunning})
}

// FinishStep settles the latest step with the given index.
func (l *JourneyList) FinishStep(index int, status string, elapsed time.Duration, message string) {
	row := l.last()
	if row == nil {
		return
	}
	for i := len(row.Steps) - 1; i >= 0; i-- {
		if row.Steps[i].Index == index {
			row.Steps[i].Status = status
			row.Steps[i].Elapsed = elapsed
			row.Steps[i].Message = message
			return
		}
	}
}

// Finish settles the latest row.
func (l *JourneyList) Finish(status string, elapsed time.Duration, message string) {
	row := l.last()
	if row == nil {
		return
	}
	row.Status = status
	row.Elapsed = elapsed
	row.Message = message
}

// Rows returns a copy of the rows.
func (l JourneyList) Rows() []JourneyRow {
	clone := make([]JourneyRow, len(l.rows))
	for i, row := range l.rows {
		row.Steps = append([]StepRow(nil), row.Steps...)
		clone[i] = row
	}
	return clone
}

func (l *JourneyList) last() *JourneyRow {
	if len(l.rows) == 0 {
		return nil
	}
	return &l.rows[len(l.rows)-1]
}
