// Package cmd provides the root command and CLI setup for gridpatch.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gridpatch.dev/pkg/gridpatch/internal/adapter"
	"gridpatch.dev/pkg/gridpatch/internal/controller"
	"gridpatch.dev/pkg/gridpatch/internal/domain"
)

var codec adapter.Codec
var store adapter.OutputStore
var ui controller.UI
var workflow domain.Workflow

// outputDirFlag is a root-level flag shared by commands that write configs.
var outputDirFlag string

// gridTagFlag selects the key suffix that marks grid axes.
var gridTagFlag string

// shortNamesFlag keeps only the final path component in filename segments.
var shortNamesFlag bool

// indexedFlag adds a config_000 style prefix to output filenames.
var indexedFlag bool

// runParallelFlag limits concurrent output writers.
var runParallelFlag int

// verboseFlag switches the log file to debug level.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	codec = adapter.NewYAMLCodec()
	store = adapter.NewLocalOutputStore()
	workflow = domain.NewWorkflow(codec, store, ui)
}

const gridMarkerHelp = `Grid axes are keys carrying the grid marker (default ":grid"):

  model:
    learning_rate:grid: [0.001, 0.01, 0.1]

One output file is written per combination of all grid axes, named after
the base file and the chosen values.`

const rootLongDescription = `gridpatch applies a patch document to a base YAML config and expands
grid-marked keys into the Cartesian product of their candidate values,
writing one config file per combination with a deterministic name.

` + gridMarkerHelp

const patchLongDescription = `Merge the patch document into the base document, then write one output
config per grid combination to the output directory.

` + gridMarkerHelp

const expandLongDescription = `Expand grid-marked keys found directly inside a single config document,
without a separate patch file.

` + gridMarkerHelp

const planLongDescription = `Show the grid axes a base/patch pair produces and how many configs an
expansion would write, without writing anything.

` + gridMarkerHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gridpatch",
		Short: "YAML config patching with grid-search expansion",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger("", viper.GetBool(logVerboseKey) || verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&outputDirFlag, outputFlagName, "o",
			defaultOutputDir,
			"output directory for expanded config files",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringVar(&gridTagFlag, gridTagFlagName, defaultGridTag, "key suffix marking grid axes")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(gridTagFlagName), gridTagConfigKey)

	cmd.PersistentFlags().BoolVar(&shortNamesFlag, shortNamesFlagName, defaultShortNames, "use only the final key name in filename segments")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(shortNamesFlagName), shortNamesConfigKey)

	cmd.PersistentFlags().BoolVar(&indexedFlag, indexedFlagName, defaultIndexed, "prefix output filenames with config_000 style indexes")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(indexedFlagName), indexedConfigKey)

	cmd.PersistentFlags().IntVarP(&runParallelFlag, runParallelFlagName, "p", defaultRunParallel, "number of parallel workers for writing configs")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "log at debug level")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// requireOutputDir resolves the output directory, erroring when neither the
// flag nor the config file provides one.
func requireOutputDir() (string, error) {
	output := viper.GetString(outputFlagName)
	if output == "" {
		return "", fmt.Errorf("output directory required: pass -o/--%s or set %q in %s", outputFlagName, outputFlagName, configFileName)
	}

	return output, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
