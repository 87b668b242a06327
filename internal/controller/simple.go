package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	m "gridpatch.dev/pkg/gridpatch/internal/model"
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ int) error {
	return ctx.Err()
}

// FileWritten is a no-op: the full list is printed at the end, keeping piped
// output identical run to run.
func (s *SimpleUI) FileWritten(ctx context.Context, _ string, _, _ int) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayPlan prints a table of axes, candidate counts and previews plus the
// total combination count.
func (s *SimpleUI) DisplayPlan(ctx context.Context, axes []m.GridAxis, combinations uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", renderPlanTable(axes, combinations))

	return nil
}

// DisplayWritten prints the written filenames as a brace list, one shell
// glob-like line: {a.yaml,b.yaml}.
func (s *SimpleUI) DisplayWritten(ctx context.Context, names []string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("{%s}\n", strings.Join(names, ","))
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func renderPlanTable(axes []m.GridAxis, combinations uint64) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Axis", "Candidates", "Values"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})

	for _, axis := range axes {
		table.Append([]string{
			axis.Path.Dotted(),
			fmt.Sprintf("%d", len(axis.Candidates)),
			previewCandidates(axis.Candidates),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Axes %d", len(axes)),
		"",
		fmt.Sprintf("%d configs", combinations),
	})

	table.Render()

	return tableBuffer.String()
}

// previewCandidates renders a short, flow-style preview of candidate values.
func previewCandidates(candidates []*yaml.Node) string {
	parts := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		parts = append(parts, previewNode(candidate))
	}

	return strings.Join(parts, ", ")
}

func previewNode(n *yaml.Node) string {
	n = m.Resolve(n)

	if n.Kind == yaml.SequenceNode {
		elems := make([]string, 0, len(n.Content))
		for _, elem := range n.Content {
			elems = append(elems, previewNode(elem))
		}

		return "[" + strings.Join(elems, ", ") + "]"
	}

	return n.Value
}
