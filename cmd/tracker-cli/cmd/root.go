package cmd

import (
	"fmt"
	"os"

	"github.com/Yoisaki-Shann/AlmondTachyon/lib/configutil"
	"github.com/Yoisaki-Shann/AlmondTachyon/lib/telemetry"
	"github.com/Yoisaki-Shann/AlmondTachyon/services/tracker"

	"github.com/spf13/cobra"
)

var configPath string

// built by the root PersistentPreRun, shared by every subcommand. The CLI
// operates on the same data directory and browser sessions as the daemon.
var svc *tracker.Service

var rootCmd = &cobra.Command{
	Use:   "tracker-cli",
	Short: "Manage and query the club roster tracker.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config, err := configutil.ReadConfig[tracker.Config](configPath)
		if err != nil {
			return fmt.Errorf("read config %s: %w", configPath, err)
		}
		telemetry.InitSlog(config.Debug)

		svc, err = config.NewService()
		if err != nil {
			return fmt.Errorf("build tracker service: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&configPath, "config", "config.json5", "path to the tracker config file")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
