package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

const barWidth = 36

var (
	countStyle  = lipgloss.NewStyle().Bold(true)
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Progress is a bar over the journeys of one run. Failed journeys count as
// finished.
type Progress struct {
	bar       progress.Model
	total     int
	succeeded int
	failed    int
}

// NewProgress creates a bar for total journeys.
func NewProgress(total int) Progress {
	bar := progress.New(progress.WithScaledGradient("#5A56E0", "#EE6FF8"), progress.WithoutPercentage())
	bar.Width = barWidth
	return Progress{bar: bar, total: total}
}

// WithCounts returns a copy reporting the given outcomes.
func (p Progress) WithCounts(succeeded, failed int) Progress {
	p.succeeded, p.failed = succeeded, failed
	return p
}

// Ratio is the finished share of the run. A run with no journeys reports 0
// and overshoot is clamped to 1.
func (p Progress) Ratio() float64 {
	if p.total <= 0 {
		return 0
	}
	done := p.succeeded + p.failed
	if done >= p.total {
		return 1
	}
	return float64(done) / float64(p.total)
}

// View renders the bar followed by "done/total" and any failures.
func (p Progress) View() string {
	label := countStyle.Render(fmt.Sprintf("%d/%d", p.succeeded+p.failed, p.total))
	if p.failed > 0 {
		label += " " + failedStyle.Render(fmt.Sprintf("(%d failed)", p.failed))
	}
	return p.bar.ViewAs(p.Ratio()) + "  " + label
}
