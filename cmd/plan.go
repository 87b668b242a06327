package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gridpatch.dev/pkg/gridpatch/internal/domain"
	m "gridpatch.dev/pkg/gridpatch/internal/model"
)

// planCmd represents the plan command.
var planCmd = newPlanCmd()

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <base> <patch>",
		Short: "Show grid axes and combination count without writing files",
		Long:  planLongDescription,
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.Plan(context.Background(), domain.PlanArgs{
				Base:    m.FilePath(args[0]),
				Patch:   m.FilePath(args[1]),
				GridTag: viper.GetString(gridTagConfigKey),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(planCmd)
}
