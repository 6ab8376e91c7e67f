package cmd

import (
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(leaderboardCmd)
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard [club]",
	Short: "Show the live fan leaderboard for a club.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clubRef := ""
		if len(args) > 0 {
			clubRef = args[0]
		}

		lb, err := svc.Leaderboard(cmd.Context(), clubRef)
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetTitle(lb.DisplayName)
		t.AppendHeader(table.Row{"Rank", "Name", "Fans", "Identity"})
		for _, e := range lb.Entries {
			identity := ""
			if e.Linked {
				identity = strconv.FormatInt(e.Identity, 10)
			}
			t.AppendRow(table.Row{e.Rank, e.Name, e.Fans, identity})
		}
		t.Render()
		return nil
	},
}
