package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"justact/internal/config"
	"justact/internal/console"
	"justact/pkg/justact"
)

var auditCmd = &cobra.Command{
	Use:   "audit <scenario.yaml>",
	Short: "Audit the actions of a scenario file",
	Long: `Loads a YAML scenario (stated messages, agreements in force, actions)
and audits every action, reporting pass or the first failing property.
Exits non-zero when any audit fails.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario, err := config.Load(args[0])
		if err != nil {
			return err
		}
		stmts, agrs, actions, err := scenario.Build()
		if err != nil {
			return err
		}

		cons := console.New(os.Stdout)
		cons.Register("auditor")
		failures := 0
		for _, act := range actions {
			if verdict := justact.Audit(act, stmts, agrs); verdict != nil {
				cons.LogAuditFail("auditor", act.Enacts.ID, verdict)
				failures++
			} else {
				cons.LogAuditPass("auditor", act.Enacts.ID)
			}
		}
		if failures > 0 {
			return fmt.Errorf("%d of %d audits failed", failures, len(actions))
		}
		return nil
	},
}
