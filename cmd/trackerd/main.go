package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/Yoisaki-Shann/AlmondTachyon/lib/configutil"
	"github.com/Yoisaki-Shann/AlmondTachyon/lib/osutil"
	"github.com/Yoisaki-Shann/AlmondTachyon/lib/telemetry"
	"github.com/Yoisaki-Shann/AlmondTachyon/services/tracker"
)

func main() {
	ctx := osutil.SignalContext()

	config, err := configutil.ReadConfig[tracker.Config]("config.json5")
	if err != nil {
		osutil.Fatal("failed to read config", err)
	}
	telemetry.InitSlog(config.Debug)

	t, err := telemetry.SetupFromEnv(ctx, "trackerd")
	if err != nil && !os.IsNotExist(err) {
		osutil.Fatal("failed to setup telemetry", err)
	}
	if err == nil {
		defer t.Shutdown(context.Background())
		telemetry.InstrumentPerfStats(ctx)
	} else {
		slog.Warn("no telemetry.json5 found, telemetry disabled")
	}

	svc, err := config.NewService()
	if err != nil {
		osutil.Fatal("failed to build tracker service", err)
	}

	svc.StartDaemons(ctx)
	slog.Info("tracker daemons running",
		"clubs", len(config.Clubs),
		"report", config.Report.Weekday)

	<-ctx.Done()
}
