package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "ideaminds",
		Short: "Fill prompt templates and generate ideas",
		Long: `ideaminds manages prompt templates whose {placeholders} become form fields,
collects values for them, and sends the composed prompt to a generation
backend. It also keeps a notepad, talks to personas and manages test suites.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $IDEAMINDS_CONFIG or ./ideaminds.yaml)")
	root.PersistentFlags().StringVar(&a.presetsPath, "presets", "", "YAML document with field hint and metadata overrides")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newTemplatesCmd(a),
		newGenerateCmd(a),
		newExecuteCmd(a),
		newNotesCmd(a),
		newPersonaCmd(a),
		newSuiteCmd(a),
	)
	return root
}
