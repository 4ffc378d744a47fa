package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/journeyman/internal/domain/journey"
	"github.com/alexisbeaulieu97/journeyman/internal/events"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case events.Start:
		m.total = msg.NumJourneys
		return m, nil
	case events.JourneyStart:
		m.current = msg.Journey.Name
		m.journeys.Start(msg.Journey.Name)
		return m, nil
	case events.StepStart:
		m.journeys.StartStep(msg.Step.Name, msg.Step.Index)
		return m, nil
	case events.StepEnd:
		m.journeys.FinishStep(msg.Step.Index, string(journey.StatusOf(msg.Err)), msg.Elapsed, errMessage(msg.Err))
		return m, nil
	case events.JourneyEnd:
		status := journey.StatusOf(msg.Err)
		if status == journey.StatusFailed {
			m.failed++
		} else {
			m.succeeded++
		}
		m.current = ""
		m.journeys.Finish(string(status), msg.Elapsed, errMessage(msg.Err))
		return m, nil
	case events.End:
		m.finished = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			m.finished = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case tea.QuitMsg:
		m.finished = true
		return m, nil
	}

	return m, nil
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
