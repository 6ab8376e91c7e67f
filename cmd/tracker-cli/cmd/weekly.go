package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(weeklyCmd)
}

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Manually run the weekly save & reset for every club.",
	RunE: func(cmd *cobra.Command, args []string) error {
		results := svc.RunWeeklyReport(cmd.Context())

		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				fmt.Printf("%s: FAILED: %v\n", r.Club.Name, r.Err)
				continue
			}
			fmt.Printf("%s: saved %d members\n", r.Club.Name, r.Members)
		}
		if failed > 0 {
			return fmt.Errorf("%d club(s) failed", failed)
		}
		return nil
	},
}
