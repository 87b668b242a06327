// Package controller provides output adapters for displaying grid expansion progress and results.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "gridpatch.dev/pkg/gridpatch/internal/model"
)

// UI defines the interface for reporting a run to the user.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	// Start announces a run that will write total output files.
	Start(ctx context.Context, total int) error

	// FileWritten reports one written output. written is the running count,
	// not an index: written == total means the run is complete.
	FileWritten(ctx context.Context, name string, written, total int)

	// DisplayPlan shows the grid axes and the resulting combination count.
	DisplayPlan(ctx context.Context, axes []m.GridAxis, combinations uint64) error

	// DisplayWritten shows the final list of written filenames.
	DisplayWritten(ctx context.Context, names []string)

	// Close signals that no more progress events will arrive.
	Close(ctx context.Context)

	// Wait blocks until the UI has finished rendering.
	Wait(ctx context.Context)
}

// NewUI picks the TUI when stdout is a terminal and the plain text UI
// otherwise, so piped output stays machine-readable.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
