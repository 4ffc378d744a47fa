package reporter

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/journeyman/internal/events"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	journeyStyle = lipgloss.NewStyle().Bold(true)
	passStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Console streams one line per step and journey and prints a summary at the
// end of the run.
type Console struct {
	out   io.Writer
	title string
	color bool

	succeeded int
	failed    int
	failures  []string
}

// NewConsole creates the default reporter.
func NewConsole(out io.Writer, title string, color bool) *Console {
	return &Console{out: out, title: title, color: color}
}

// Attach implements events.Subscriber.
func (c *Console) Attach(bus *events.Bus) events.Subscription {
	return events.Group{
		events.Subscribe(bus, c.onStart),
		events.Subscribe(bus, c.onJourneyStart),
		events.Subscribe(bus, c.onStepEnd),
		events.Subscribe(bus, c.onJourneyEnd),
		events.Subscribe(bus, c.onEnd),
	}
}

func (c *Console) onStart(_ context.Context, e events.Start) error {
	c.succeeded, c.failed, c.failures = 0, 0, nil
	title := "journeyman"
	if c.title != "" {
		title += " • " + c.title
	}
	return c.printf("%s\n%s\n", c.style(headerStyle, title), c.style(dimStyle, fmt.Sprintf("running %d journey(s)", e.NumJourneys)))
}

func (c *Console) onJourneyStart(_ context.Context, e events.JourneyStart) error {
	return c.printf("\n%s\n", c.style(journeyStyle, e.Journey.Name))
}

func (c *Console) onStepEnd(_ context.Context, e events.StepEnd) error {
	mark := c.style(passStyle, "✓")
	if e.Err != nil {
		mark = c.style(failStyle, "✗")
	}
	line := fmt.Sprintf("  %s %d. %s %s", mark, e.Step.Index, e.Step.Name, c.style(dimStyle, elapsedLabel(e.Elapsed)))
	if e.Err != nil {
		line += "\n" + indent(e.Err.Error(), "      ")
	}
	return c.printf("%s\n", line)
}

func (c *Console) onJourneyEnd(_ context.Context, e events.JourneyEnd) error {
	if e.Err == nil {
		c.succeeded++
		return c.printf("  %s %s\n", c.style(passStyle, "passed"), c.style(dimStyle, elapsedLabel(e.Elapsed)))
	}
	c.failed++
	c.failures = append(c.failures, e.Journey.Name)
	return c.printf("  %s %s\n", c.style(failStyle, "failed"), c.style(dimStyle, elapsedLabel(e.Elapsed)))
}

func (c *Console) onEnd(context.Context, events.End) error {
	summary := fmt.Sprintf("%d passed, %d failed", c.succeeded, c.failed)
	if c.failed > 0 {
		summary = c.style(failStyle, summary) + "\n" + c.style(dimStyle, "failed: "+strings.Join(c.failures, ", "))
	} else {
		summary = c.style(passStyle, summary)
	}
	return c.printf("\n%s\n", summary)
}

func (c *Console) style(s lipgloss.Style, text string) string {
	if !c.color {
		return text
	}
	return s.Render(text)
}

func (c *Console) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(c.out, format, args...)
	return err
}

func indent(text, prefix string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func elapsedLabel(d time.Duration) string {
	return fmt.Sprintf("%dms", events.ElapsedMillis(d))
}
