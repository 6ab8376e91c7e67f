package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status [club]",
	Short: "Show club totals, daily output and a 30-day projection.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clubRef := ""
		if len(args) > 0 {
			clubRef = args[0]
		}

		st, err := svc.ClubStatus(cmd.Context(), clubRef)
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n", st.DisplayName, st.Club.Name)
		fmt.Printf("  members:          %d\n", st.Members)
		fmt.Printf("  total fans:       %d\n", st.TotalFans)
		fmt.Printf("  daily output:     +%d/day\n", st.TotalDaily)
		fmt.Printf("  monthly estimate: ~%d\n", st.MonthlyEstimate)
		return nil
	},
}
