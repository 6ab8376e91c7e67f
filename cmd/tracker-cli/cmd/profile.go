package cmd

import (
	"errors"
	"fmt"

	"github.com/Yoisaki-Shann/AlmondTachyon/services/bindings"
	"github.com/Yoisaki-Shann/AlmondTachyon/services/roster"
	"github.com/Yoisaki-Shann/AlmondTachyon/services/tracker"

	"github.com/spf13/cobra"
)

var profileIdentity int64

func init() {
	profileCmd.Flags().Int64Var(
		&profileIdentity, "id", 0, "look up by external identity instead of name")
	rootCmd.AddCommand(profileCmd)
}

var profileCmd = &cobra.Command{
	Use:   "profile [name]",
	Short: "Show rank, fans and weekly gain for one player, searching all clubs.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var query bindings.Query
		switch {
		case profileIdentity != 0:
			query = bindings.ByIdentity(profileIdentity)
		case len(args) == 1:
			query = bindings.ByName(args[0])
		default:
			return errors.New("give a player name or --id")
		}

		p, err := svc.Profile(cmd.Context(), query)
		if errors.Is(err, tracker.ErrPlayerNotFound) && len(args) == 1 {
			hint := suggestName(cmd, args[0])
			if hint != "" {
				return fmt.Errorf("%w (did you mean %q?)", err, hint)
			}
			return err
		}
		if err != nil {
			return err
		}

		fmt.Printf("%s — rank #%d in %s (%s)\n", p.Member.Name, p.Member.Rank, p.DisplayName, p.Club.Name)
		fmt.Printf("  fans:        %d\n", p.Member.Fans)
		fmt.Printf("  weekly gain: +%d\n", p.WeeklyGain)
		if p.Linked {
			fmt.Printf("  identity:    %d\n", p.Identity)
		} else {
			fmt.Printf("  identity:    not linked\n")
		}
		return nil
	},
}

// best-effort near-miss hint against the default club's current roster
func suggestName(cmd *cobra.Command, name string) string {
	lb, err := svc.Leaderboard(cmd.Context(), "")
	if err != nil {
		return ""
	}
	var members []roster.Member
	for _, e := range lb.Entries {
		members = append(members, roster.Member{Name: e.Name})
	}
	hint, score := bindings.Suggest(name, members)
	if score < 0.8 {
		return ""
	}
	return hint
}
