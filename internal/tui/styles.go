package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/journeyman/internal/tui/components"
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("205")).
	BorderStyle(lipgloss.NormalBorder()).
	BorderBottom(true).
	BorderForeground(lipgloss.Color("238"))

var (
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1)
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	footerStyle  = lipgloss.NewStyle().MarginTop(1)
)

type glyph struct {
	symbol string
	style  lipgloss.Style
}

// glyphs maps a row status to its marker. Unknown statuses render as pending.
var glyphs = map[string]glyph{
	components.StatusPending:   {"·", lipgloss.NewStyle().Foreground(lipgloss.Color("240"))},
	components.StatusRunning:   {"▸", lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)},
	components.StatusSucceeded: {"✓", lipgloss.NewStyle().Foreground(lipgloss.Color("42"))},
	components.StatusFailed:    {"✗", lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)},
}

// StatusIcon returns the colored marker for a journey or step status.
func StatusIcon(status string) string {
	g, ok := glyphs[status]
	if !ok {
		g = glyphs[components.StatusPending]
	}
	return g.style.Render(g.symbol)
}
