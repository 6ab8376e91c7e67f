// Package tracker orchestrates the whole pipeline: scrape a club's roster
// from its live browser session, normalize and rank it, cross-reference
// bindings, compute weekly gains, and keep the weekly ledger. It also owns
// the two periodic daemons (page refresh, weekly report).
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Yoisaki-Shann/AlmondTachyon/lib/devtools"
	"github.com/Yoisaki-Shann/AlmondTachyon/lib/scrapers/clubpage"
	"github.com/Yoisaki-Shann/AlmondTachyon/lib/timezone"
	"github.com/Yoisaki-Shann/AlmondTachyon/services/bindings"
	"github.com/Yoisaki-Shann/AlmondTachyon/services/clubs"
	"github.com/Yoisaki-Shann/AlmondTachyon/services/gains"
	"github.com/Yoisaki-Shann/AlmondTachyon/services/roster"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/tracker")

var ErrPlayerNotFound = errors.New("player not found in any active club")

// Scraper reads or nudges one club's live page. Reads return the scraped
// display name and raw rows; they never mutate the remote page.
type Scraper interface {
	Read(ctx context.Context, club clubs.Club) (string, []clubpage.RawMember, error)
	Nudge(ctx context.Context, club clubs.Club) error
}

// DevtoolsScraper attaches to each club's Chrome debugging endpoint for
// every call. Sessions are short-lived: attach, act, detach.
type DevtoolsScraper struct {
	Timeout time.Duration
}

func (s DevtoolsScraper) Read(ctx context.Context, club clubs.Club) (string, []clubpage.RawMember, error) {
	sess, err := devtools.NewClient(club.Devtools, s.Timeout).Attach(ctx)
	if err != nil {
		return "", nil, err
	}
	defer sess.Close()
	return clubpage.Scrape(ctx, sess)
}

func (s DevtoolsScraper) Nudge(ctx context.Context, club clubs.Club) error {
	sess, err := devtools.NewClient(club.Devtools, s.Timeout).Attach(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()
	return sess.Nudge()
}

// Schedule is the weekly report trigger in wall-clock terms.
type Schedule struct {
	Weekday time.Weekday
	Hour    int
	Minute  int
}

type Params struct {
	Registry *clubs.Registry
	Scraper  Scraper
	// directory all per-club state files live under; created if absent
	DataDir      string
	Schedule     Schedule
	RefreshEvery time.Duration
	// injectable clock, defaults to timezone.Now
	Now func() time.Time
}

type Service struct {
	registry     *clubs.Registry
	scraper      Scraper
	schedule     Schedule
	refreshEvery time.Duration
	bindings     map[int]*bindings.Store
	gains        map[int]*gains.Store
	state        *stateStore
	now          func() time.Time
}

func NewService(params Params) (*Service, error) {
	if err := os.MkdirAll(params.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if params.RefreshEvery <= 0 {
		params.RefreshEvery = time.Hour
	}
	if params.Now == nil {
		params.Now = timezone.Now
	}

	s := &Service{
		registry:     params.Registry,
		scraper:      params.Scraper,
		schedule:     params.Schedule,
		refreshEvery: params.RefreshEvery,
		bindings:     make(map[int]*bindings.Store),
		gains:        make(map[int]*gains.Store),
		state:        newStateStore(filepath.Join(params.DataDir, "tracker_state.json")),
		now:          params.Now,
	}
	for _, club := range params.Registry.All() {
		prefix := club.Prefix()
		s.bindings[club.ID] = bindings.NewStore(
			filepath.Join(params.DataDir, prefix+"_bindings.json"))
		s.gains[club.ID] = gains.NewStore(
			filepath.Join(params.DataDir, prefix+"_weekly_start.json"),
			filepath.Join(params.DataDir, prefix+"_weekly_history.csv"))
	}
	return s, nil
}

// readClub scrapes and ranks one club's roster. The scraped display name
// falls back to the configured club name when the page title gave nothing
// usable.
func (s *Service) readClub(ctx context.Context, club clubs.Club) (string, []roster.Member, error) {
	displayName, raw, err := s.scraper.Read(ctx, club)
	if err != nil {
		return displayName, nil, err
	}
	if displayName == "" || displayName == "Club" {
		displayName = club.Name
	}
	return displayName, roster.Normalize(raw), nil
}

type LeaderboardEntry struct {
	Rank     int
	Name     string
	Fans     int64
	Identity int64
	Linked   bool
}

type Leaderboard struct {
	Club        clubs.Club
	DisplayName string
	Entries     []LeaderboardEntry
}

func (s *Service) Leaderboard(ctx context.Context, clubRef string) (Leaderboard, error) {
	ctx, span := tracer.Start(ctx, "Leaderboard")
	defer span.End()

	club := s.registry.Resolve(clubRef)
	span.SetAttributes(attribute.Int("club", club.ID))

	displayName, members, err := s.readClub(ctx, club)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Leaderboard{}, err
	}

	bound, err := s.bindings[club.ID].Load()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Leaderboard{}, err
	}

	entries := make([]LeaderboardEntry, len(members))
	for i, m := range members {
		identity, linked := bindings.IdentityFor(bound, m.Name)
		entries[i] = LeaderboardEntry{
			Rank:     m.Rank,
			Name:     m.Name,
			Fans:     m.Fans,
			Identity: identity,
			Linked:   linked,
		}
	}
	return Leaderboard{Club: club, DisplayName: displayName, Entries: entries}, nil
}

type Profile struct {
	Club        clubs.Club
	DisplayName string
	Member      roster.Member
	WeeklyGain  int64
	Identity    int64
	Linked      bool
}

// Profile finds a player by identity or free-text name, scanning clubs in
// registration order and returning the first hit. A club that fails to
// read is logged and skipped so one dead browser session cannot hide a
// player present in another club.
func (s *Service) Profile(ctx context.Context, q bindings.Query) (Profile, error) {
	ctx, span := tracer.Start(ctx, "Profile")
	defer span.End()
	span.SetAttributes(attribute.String("query", q.String()))

	for _, club := range s.registry.All() {
		p, found, err := s.profileInClub(ctx, club, q)
		if err != nil {
			slog.WarnContext(ctx, "profile lookup failed in club",
				"club", club.Name, "err", err)
			continue
		}
		if found {
			return p, nil
		}
	}
	return Profile{}, ErrPlayerNotFound
}

func (s *Service) profileInClub(ctx context.Context, club clubs.Club, q bindings.Query) (Profile, bool, error) {
	bound, err := s.bindings[club.ID].Load()
	if err != nil {
		return Profile{}, false, err
	}

	terms := bindings.SearchTerms(bound, q)
	if len(terms) == 0 {
		// identity query with no bindings in this club
		return Profile{}, false, nil
	}

	displayName, members, err := s.readClub(ctx, club)
	if err != nil {
		return Profile{}, false, err
	}

	member, ok := bindings.MatchRoster(terms, members)
	if !ok {
		return Profile{}, false, nil
	}

	// resolve the display identity against the real scraped name, which
	// may differ in case from whatever the caller typed
	identity, linked := bindings.IdentityFor(bound, member.Name)

	baseline, err := s.gains[club.ID].LoadSnapshot()
	if err != nil {
		return Profile{}, false, err
	}

	return Profile{
		Club:        club,
		DisplayName: displayName,
		Member:      member,
		WeeklyGain:  gains.Gain(baseline, member.Name, member.Fans),
		Identity:    identity,
		Linked:      linked,
	}, true, nil
}

type Status struct {
	Club            clubs.Club
	DisplayName     string
	Members         int
	TotalFans       int64
	TotalDaily      int64
	MonthlyEstimate int64
}

func (s *Service) ClubStatus(ctx context.Context, clubRef string) (Status, error) {
	ctx, span := tracer.Start(ctx, "ClubStatus")
	defer span.End()

	club := s.registry.Resolve(clubRef)
	displayName, members, err := s.readClub(ctx, club)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Status{}, err
	}

	status := Status{
		Club:        club,
		DisplayName: displayName,
		Members:     len(members),
	}
	for _, m := range members {
		status.TotalFans += m.Fans
		status.TotalDaily += m.Daily
	}
	status.MonthlyEstimate = status.TotalDaily * 30
	return status, nil
}

type LoginEntry struct {
	Rank     int
	Name     string
	Login    string
	Activity roster.Activity
}

type LoginReport struct {
	Club        clubs.Club
	DisplayName string
	Entries     []LoginEntry
}

func (s *Service) MemberStatus(ctx context.Context, clubRef string) (LoginReport, error) {
	ctx, span := tracer.Start(ctx, "MemberStatus")
	defer span.End()

	club := s.registry.Resolve(clubRef)
	displayName, members, err := s.readClub(ctx, club)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return LoginReport{}, err
	}

	entries := make([]LoginEntry, len(members))
	for i, m := range members {
		entries[i] = LoginEntry{
			Rank:     m.Rank,
			Name:     m.Name,
			Login:    m.Login,
			Activity: roster.BucketLogin(m.Login),
		}
	}
	return LoginReport{Club: club, DisplayName: displayName, Entries: entries}, nil
}

func (s *Service) Link(clubRef, name string, identity int64) (clubs.Club, error) {
	club := s.registry.Resolve(clubRef)
	return club, s.bindings[club.ID].Link(name, identity)
}

func (s *Service) Unlink(clubRef, name string) (clubs.Club, error) {
	club := s.registry.Resolve(clubRef)
	return club, s.bindings[club.ID].Unlink(name)
}

type ReportResult struct {
	Club    clubs.Club
	Members int
	Err     error
}

// RunWeeklyReport runs the weekly cycle for every club: scrape, append
// this week's ledger rows against the current baseline, then replace the
// baseline with the just-read totals. One club's failure never blocks the
// others. The fired-this-period guard is updated as long as at least one
// club completed.
func (s *Service) RunWeeklyReport(ctx context.Context) []ReportResult {
	ctx, span := tracer.Start(ctx, "RunWeeklyReport")
	defer span.End()

	now := s.now()
	results := make([]ReportResult, 0, len(s.registry.All()))
	completed := 0

	for _, club := range s.registry.All() {
		members, err := s.reportClub(ctx, club, now)
		if err != nil {
			span.RecordError(err)
			slog.ErrorContext(ctx, "weekly report failed for club",
				"club", club.Name, "err", err)
		} else {
			completed++
		}
		results = append(results, ReportResult{Club: club, Members: members, Err: err})
	}

	if completed > 0 {
		if err := s.state.markReported(now); err != nil {
			slog.ErrorContext(ctx, "persist report timestamp", "err", err)
		}
	}
	return results
}

func (s *Service) reportClub(ctx context.Context, club clubs.Club, now time.Time) (int, error) {
	_, members, err := s.readClub(ctx, club)
	if err != nil {
		return 0, err
	}
	if err := s.gains[club.ID].RecordWeek(now, members); err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "weekly report saved",
		"club", club.Name, "members", len(members))
	return len(members), nil
}
