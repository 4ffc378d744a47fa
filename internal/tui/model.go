// Package tui renders a live journey run with Bubbletea.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/journeyman/internal/tui/components"
)

// Model contains the Bubbletea state for a journey run. It is fed the bus
// events themselves as messages.
type Model struct {
	title     string
	journeys  components.JourneyList
	total     int
	succeeded int
	failed    int
	current   string
	finished  bool
	cancelled bool
	cancel    context.CancelFunc
}

// NewModel constructs a model for a run titled title. cancel, when set, is
// called if the user interrupts the program.
func NewModel(title string, cancel context.CancelFunc) Model {
	return Model{title: title, cancel: cancel}
}

// Init starts the Bubbletea program.
func (m Model) Init() tea.Cmd {
	return nil
}

// TotalJourneys returns the journey count announced at start.
func (m Model) TotalJourneys() int {
	return m.total
}

// CompletedJourneys returns how many journeys have ended.
func (m Model) CompletedJourneys() int {
	return m.succeeded + m.failed
}

// IsFinished reports whether the run has ended or was interrupted.
func (m Model) IsFinished() bool {
	return m.finished
}

// IsCancelled reports whether the user interrupted the run.
func (m Model) IsCancelled() bool {
	return m.cancelled
}

// Rows returns the journey rows rendered so far.
func (m Model) Rows() []components.JourneyRow {
	return m.journeys.Rows()
}
