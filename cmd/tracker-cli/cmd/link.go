package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(unlinkCmd)
}

var linkCmd = &cobra.Command{
	Use:   "link <club> <identity> <in-game name>",
	Short: "Bind an in-game name to an external user identity.",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		identity, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("identity must be numeric: %w", err)
		}
		// in-game names may contain spaces
		name := strings.TrimSpace(strings.Join(args[2:], " "))

		club, err := svc.Link(args[0], name, identity)
		if err != nil {
			return err
		}
		fmt.Printf("linked %q to %d in %s\n", name, identity, club.Name)
		return nil
	},
}

var unlinkCmd = &cobra.Command{
	Use:   "unlink <club> <in-game name>",
	Short: "Remove an in-game name's identity binding.",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(strings.Join(args[1:], " "))

		club, err := svc.Unlink(args[0], name)
		if err != nil {
			return err
		}
		fmt.Printf("unlinked %q in %s\n", name, club.Name)
		return nil
	},
}
