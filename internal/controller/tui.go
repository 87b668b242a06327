package controller

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "gridpatch.dev/pkg/gridpatch/internal/model"
)

const (
	maxProgressWidth = 60

	// minProgressTotal is the smallest run that gets a live progress bar;
	// below it the run finishes faster than a frame can render.
	minProgressTotal = 2
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
)

// TUI implements UI using Bubble Tea for interactive progress display.
type TUI struct {
	output  io.Writer
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the progress program in the background. Tiny runs skip it
// and behave like the plain UI.
func (t *TUI) Start(ctx context.Context, total int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if total < minProgressTotal {
		return nil
	}

	t.program = tea.NewProgram(newExpandModel(total), tea.WithOutput(t.output))
	t.done = make(chan struct{})

	go func() {
		defer close(t.done)

		_, _ = t.program.Run()
	}()

	return nil
}

// FileWritten advances the progress bar.
func (t *TUI) FileWritten(ctx context.Context, name string, written, total int) {
	if err := ctx.Err(); err != nil {
		return
	}

	if t.program == nil {
		return
	}

	t.program.Send(fileWrittenMsg{name: name, written: written, total: total})
}

// DisplayPlan renders the plan table with a styled heading.
func (t *TUI) DisplayPlan(ctx context.Context, axes []m.GridAxis, combinations uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(t.output, "%s\n%s",
		titleStyle.Render("Grid plan"),
		renderPlanTable(axes, combinations),
	)

	return err
}

// DisplayWritten prints a styled summary plus the brace list of filenames.
func (t *TUI) DisplayWritten(ctx context.Context, names []string) {
	if err := ctx.Err(); err != nil {
		return
	}

	_, _ = fmt.Fprintf(t.output, "%s\n{%s}\n",
		accentStyle.Render(fmt.Sprintf("%d config(s) written", len(names))),
		strings.Join(names, ","),
	)
}

// Close tells the progress program the run is over.
func (t *TUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}

	if t.program == nil {
		return
	}

	t.program.Send(finishedMsg{})
}

// Wait blocks until the progress program has exited.
func (t *TUI) Wait(_ context.Context) {
	if t.done == nil {
		return
	}

	<-t.done
}

type fileWrittenMsg struct {
	name    string
	written int
	total   int
}

type finishedMsg struct{}

// expandModel is the Bubble Tea model for the write progress bar.
type expandModel struct {
	bar      progress.Model
	total    int
	written  int
	latest   string
	quitting bool
}

func newExpandModel(total int) expandModel {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = maxProgressWidth

	return expandModel{bar: bar, total: total}
}

func (em expandModel) Init() tea.Cmd {
	return nil
}

func (em expandModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := msg.Width - 4
		if width > maxProgressWidth {
			width = maxProgressWidth
		}

		if width > 0 {
			em.bar.Width = width
		}

		return em, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			em.quitting = true
			return em, tea.Quit
		}

		return em, nil

	case fileWrittenMsg:
		em.written = msg.written
		em.total = msg.total
		em.latest = msg.name

		return em, nil

	case finishedMsg:
		em.quitting = true
		return em, tea.Quit
	}

	return em, nil
}

func (em expandModel) View() string {
	if em.quitting {
		return ""
	}

	percent := 0.0
	if em.total > 0 {
		percent = float64(em.written) / float64(em.total)
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Writing configs"))
	b.WriteString("\n")
	b.WriteString(em.bar.ViewAs(percent))
	b.WriteString(fmt.Sprintf(" %d/%d", em.written, em.total))

	if em.latest != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(em.latest))
	}

	b.WriteString("\n")

	return b.String()
}
