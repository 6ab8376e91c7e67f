package cmd

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginsCmd)
}

var loginsCmd = &cobra.Command{
	Use:   "logins [club]",
	Short: "List each member's last login and activity bucket.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clubRef := ""
		if len(args) > 0 {
			clubRef = args[0]
		}

		report, err := svc.MemberStatus(cmd.Context(), clubRef)
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetTitle(report.DisplayName)
		t.AppendHeader(table.Row{"Rank", "Name", "Last Login", "Activity"})
		for _, e := range report.Entries {
			t.AppendRow(table.Row{e.Rank, e.Name, e.Login, e.Activity.String()})
		}
		t.Render()
		return nil
	},
}
