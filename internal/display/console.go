// Package display renders workout narration to the terminal.
//
// [Console] implements domain.ProgressSink with lipgloss styles; colours
// are picked per output writer, so piping to a file yields plain text.
package display

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/ottofit/internal/domain"
	"github.com/hammamikhairi/ottofit/internal/timer"
)

// Compile-time interface check.
var _ domain.ProgressSink = (*Console)(nil)

// BannerStyle is the muted slate used for the startup banner.
var BannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))

// consoleStyles is the soft palette used for narration.
type consoleStyles struct {
	header    lipgloss.Style // workout begin/end
	section   lipgloss.Style // section and repetition headers
	exercise  lipgloss.Style
	rest      lipgloss.Style
	hint      lipgloss.Style // next-up, midpoint, resume point
	warning   lipgloss.Style // rest ending soon
	completed lipgloss.Style
}

func newConsoleStyles(r *lipgloss.Renderer) consoleStyles {
	return consoleStyles{
		header:    r.NewStyle().Foreground(lipgloss.Color("#94a3b8")).Bold(true),
		section:   r.NewStyle().Foreground(lipgloss.Color("#bbf7d0")).Bold(true),
		exercise:  r.NewStyle().Foreground(lipgloss.Color("#d4d4d8")),
		rest:      r.NewStyle().Foreground(lipgloss.Color("#bae6fd")),
		hint:      r.NewStyle().Foreground(lipgloss.Color("#71717a")).Italic(true),
		warning:   r.NewStyle().Foreground(lipgloss.Color("#fde68a")),
		completed: r.NewStyle().Foreground(lipgloss.Color("#bbf7d0")).Bold(true),
	}
}

// Console prints human-readable progress. The output is not meant to be
// machine parsed.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	styles consoleStyles
}

// NewConsole creates a console sink writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{
		out:    out,
		styles: newConsoleStyles(lipgloss.NewRenderer(out)),
	}
}

func (c *Console) blank() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out)
}

func (c *Console) println(style lipgloss.Style, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, style.Render(fmt.Sprintf(format, args...)))
}

// WorkoutStarted prints the start banner line with the length estimate.
func (c *Console) WorkoutStarted(w *domain.Workout) {
	c.println(c.styles.header, "Beginning %s", w)
}

// ResumingFrom prints the resolved resume point.
func (c *Console) ResumingFrom(w *domain.Workout, pos domain.StartPosition) {
	s := &w.Sections[pos.Set]
	msg := fmt.Sprintf("Starting from set %s", s.DisplayName())
	if pos.SetRep != 0 {
		msg += fmt.Sprintf(" (%d / %d)", pos.SetRep+1, s.Reps)
	}
	msg += fmt.Sprintf(" %d. exercise", pos.Exercise+1)
	c.println(c.styles.hint, "%s", msg)
}

// SectionStarted prints a section header.
func (c *Console) SectionStarted(s *domain.WorkoutSet) {
	c.blank()
	c.println(c.styles.section, "Section %s", s)
}

// RepetitionStarted prints the repetition counter (rep is 0-based).
func (c *Console) RepetitionStarted(s *domain.WorkoutSet, rep int) {
	c.blank()
	c.println(c.styles.section, "Repeating section (%d / %d)", rep+1, s.Reps)
}

// ElementStarted prints the exercise or rest about to run.
func (c *Console) ElementStarted(e domain.Element) {
	if e.Kind == domain.ElementRest {
		c.println(c.styles.rest, "  %s", e)
		return
	}
	c.println(c.styles.exercise, "  %s", e)
}

// NextUp previews the exercise following a rest.
func (c *Console) NextUp(name string) {
	c.println(c.styles.hint, "    next: %s", name)
}

// Midpoint marks the middle of a timed exercise.
func (c *Console) Midpoint() {
	c.println(c.styles.hint, "    Reached midpoint")
}

// SetRest prints the rest taken between repetitions of a section.
func (c *Console) SetRest(d time.Duration) {
	c.println(c.styles.rest, "[REST]: %s", d)
}

// RestWarning announces the end of a rest.
func (c *Console) RestWarning(left time.Duration) {
	c.println(c.styles.warning, "    %s left", timer.FormatRemaining(left))
}

// WorkoutCompleted prints the completion line.
func (c *Console) WorkoutCompleted(*domain.Workout) {
	c.blank()
	c.println(c.styles.completed, "Reached the end. Good job!")
}
