package main

import (
	"github.com/spf13/cobra"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "journeyman",
		Short: "Run scripted browser journeys and report every step",
		Long: `journeyman drives a browser through the journeys declared in YAML suite
files. Each journey gets a fresh browser; a failing step ends its journey
while the remaining journeys still run.`,
		Example: `  journeyman run checkout.yaml
  journeyman run --reporter json --match '^login' suites/*.yaml
  journeyman list checkout.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log debug output to stderr")

	cmd.AddCommand(
		newRunCmd(flags),
		newListCmd(),
		newVersionCmd(),
	)

	return cmd
}
