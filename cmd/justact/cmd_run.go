package main

import (
	"os"

	"github.com/spf13/cobra"

	"justact/internal/demo"
)

var runTicks int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play the paper example in the tick simulator",
	Long: `Runs the running example from the JustAct paper: the consortium
publishes the data-access agreement, the administrator authorises amy, amy
enacts her access with a proper justification, and anton tries to forge an
authorisation. The auditor reports a verdict for every enactment.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := demo.Run(os.Stdout, runTicks)
		return err
	},
}

func init() {
	runCmd.Flags().IntVar(&runTicks, "ticks", 8, "maximum number of simulation ticks")
}
