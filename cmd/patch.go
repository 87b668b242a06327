package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gridpatch.dev/pkg/gridpatch/internal/domain"
	m "gridpatch.dev/pkg/gridpatch/internal/model"
)

// patchCmd represents the patch command.
var patchCmd = newPatchCmd()

func newPatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch <base> <patch>",
		Short: "Apply a patch to a base config and expand its grid axes",
		Long:  patchLongDescription,
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			output, err := requireOutputDir()
			if err != nil {
				return err
			}

			_, err = workflow.Patch(context.Background(), domain.PatchArgs{
				Base:       m.FilePath(args[0]),
				Patch:      m.FilePath(args[1]),
				Output:     m.FilePath(output),
				GridTag:    viper.GetString(gridTagConfigKey),
				ShortNames: viper.GetBool(shortNamesConfigKey),
				Indexed:    viper.GetBool(indexedConfigKey),
				Threads:    viper.GetInt(runParallelConfigKey),
			})

			return err
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(patchCmd)
}
