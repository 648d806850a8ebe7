// Package main implements the justact CLI: a front-end over the JustAct
// audit-and-derivation core.
//
// Commands:
//   - eval   - evaluate a Datalog file to its well-founded model
//   - audit  - audit the actions of a YAML scenario
//   - run    - play the paper example in the tick simulator
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"justact/internal/logging"
)

var debugMode bool

var rootCmd = &cobra.Command{
	Use:   "justact",
	Short: "Justified actions for autonomous agents",
	Long: `justact evaluates negation-capable Datalog policies under the
well-founded semantics and audits agent actions against them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(debugMode)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(runCmd)
}

func main() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "justact: %v\n", err)
		os.Exit(1)
	}
}
