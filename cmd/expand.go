package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gridpatch.dev/pkg/gridpatch/internal/domain"
	m "gridpatch.dev/pkg/gridpatch/internal/model"
)

// expandCmd represents the expand command.
var expandCmd = newExpandCmd()

func newExpandCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expand <base>",
		Short: "Expand grid axes declared inline in a single config",
		Long:  expandLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			output, err := requireOutputDir()
			if err != nil {
				return err
			}

			_, err = workflow.Expand(context.Background(), domain.ExpandArgs{
				Base:       m.FilePath(args[0]),
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
	rootCmd.AddCommand(expandCmd)
}
