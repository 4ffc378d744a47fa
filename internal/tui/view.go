package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/journeyman/internal/tui/components"
)

// View renders the current state of the model.
func (m Model) View() string {
	var sections []string

	sections = append(sections, headerStyle.Render(fmt.Sprintf("journeyman • %s", m.heading())))

	progress := components.NewProgress(m.total).WithCounts(m.succeeded, m.failed).View()
	sections = append(sections, labelStyle.Render("Progress"), progress)

	if rows := m.journeys.Rows(); len(rows) > 0 {
		sections = append(sections, labelStyle.Render("Journeys"), renderRows(rows))
	}

	summary := components.Summary(components.SummaryData{
		Total:     m.total,
		Succeeded: m.succeeded,
		Failed:    m.failed,
		Finished:  m.finished,
		Cancelled: m.cancelled,
	})
	if summary != "" {
		sections = append(sections, labelStyle.Render("Summary"), footerStyle.Render(summary))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func renderRows(rows []components.JourneyRow) string {
	var lines []string
	for _, row := range rows {
		lines = append(lines, formatLine(" ", row.Status, row.Name, row.Elapsed, ""))
		for _, step := range row.Steps {
			lines = append(lines, formatLine("   ", step.Status, fmt.Sprintf("%d. %s", step.Index, step.Name), step.Elapsed, step.Message))
		}
	}
	return strings.Join(lines, "\n")
}

func formatLine(indent, status, label string, elapsed time.Duration, message string) string {
	line := fmt.Sprintf("%s%s %s", indent, StatusIcon(status), label)
	if elapsed > 0 {
		line = fmt.Sprintf("%s (%s)", line, elapsed.Truncate(time.Millisecond))
	}
	if message = strings.TrimSpace(message); message != "" {
		first, _, _ := strings.Cut(message, "\n")
		line = fmt.Sprintf("%s %s", line, messageStyle.Render(first))
	}
	return line
}

func (m Model) heading() string {
	if m.current != "" {
		return fmt.Sprintf("%s › %s", m.titleOrDefault(), m.current)
	}
	return m.titleOrDefault()
}

func (m Model) titleOrDefault() string {
	if strings.TrimSpace(m.title) != "" {
		return m.title
	}
	return "run"
}
