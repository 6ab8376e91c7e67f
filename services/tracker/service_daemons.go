package tracker

import (
	"context"
	"log/slog"
	"time"

	"github.com/Yoisaki-Shann/AlmondTachyon/lib/timezone"
)

// StartDaemons launches the refresh and weekly report loops. They are
// independently scheduled goroutines: a slow page refresh never delays a
// report tick and vice versa. Both stop when ctx is canceled.
func (s *Service) StartDaemons(ctx context.Context) {
	go s.refreshDaemon(ctx)
	go s.reportDaemon(ctx)
}

// refreshDaemon periodically nudges every club's browser page so the
// roster the read path sees stays fresh. A club that fails is logged and
// skipped; the next tick is the retry.
func (s *Service) refreshDaemon(ctx context.Context) {
	ticker := time.NewTicker(s.refreshEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, club := range s.registry.All() {
				err := s.scraper.Nudge(ctx, club)
				if err != nil {
					slog.WarnContext(ctx, "refresh club page",
						"club", club.Name, "err", err)
					continue
				}
				slog.DebugContext(ctx, "refreshed club page", "club", club.Name)
			}
		}
	}
}

func (s *Service) reportDaemon(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.reportDue() {
				continue
			}
			slog.InfoContext(ctx, "weekly report trigger reached")
			s.RunWeeklyReport(ctx)
		}
	}
}

// reportDue is true when the wall clock sits on the configured trigger
// minute and no report has run since that trigger. The persisted guard is
// what keeps a restart inside the trigger minute from running the cycle
// twice, and a manual trigger earlier in the period from being repeated.
func (s *Service) reportDue() bool {
	now := s.now()
	if now.Weekday() != s.schedule.Weekday ||
		now.Hour() != s.schedule.Hour ||
		now.Minute() != s.schedule.Minute {
		return false
	}

	last, err := s.state.lastReport()
	if err != nil {
		slog.Warn("read report state, assuming not yet fired", "err", err)
		return true
	}
	trigger := timezone.LastTrigger(now, s.schedule.Weekday, s.schedule.Hour, s.schedule.Minute)
	return last.Before(trigger)
}
