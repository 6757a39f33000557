// Command feems is a command-line interface for the FEEMS marine machinery
// fuel, emissions and energy simulator.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sintef/feems/internal/logging"
)

var verbose bool

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "feems",
		Short:         "Simulate marine machinery fuel consumption, emissions and energy flow.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newValidateCmd(), newRunCmd(), newReportCmd())
	return root
}

func newLogger() *logrus.Logger {
	return logging.New(verbose)
}
