// Package clubpage extracts the club member roster from the game's club
// screen as rendered in a live browser session. It parses exactly one page
// shape; rows that do not match it are dropped individually instead of
// failing the whole read.
package clubpage

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Yoisaki-Shann/AlmondTachyon/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/scrapers/clubpage")

// ErrEmptyRoster means the page was reachable but contained zero roster
// rows. This is ambiguous: the page may simply be mid-refresh, so callers
// should treat it as retryable rather than fatal.
var ErrEmptyRoster = errors.New("no roster rows found, page may be refreshing")

const (
	rowSelector  = ".club-member-row-container"
	nameSelector = ".club-profile-name"
	statSelector = ".club-profile-cell-reg-span"
	fallbackName = "Club"
)

// RawMember is one roster row exactly as rendered, before any numeric
// normalization.
type RawMember struct {
	Name    string
	Total   string
	Daily   string
	Recency string
}

// Page is the minimal surface of a devtools session needed by the scraper.
type Page interface {
	Title() (string, error)
	HTML() (string, error)
}

// Scrape reads the club display name and all parseable roster rows from an
// already-open club page. The display name falls back to a generic
// placeholder when the title is missing or malformed.
func Scrape(ctx context.Context, page Page) (string, []RawMember, error) {
	ctx, span := tracer.Start(ctx, "Scrape")
	defer span.End()

	displayName := fallbackName
	title, err := page.Title()
	if err == nil {
		if before, _, found := strings.Cut(title, "|"); found {
			if trimmed := strings.TrimSpace(before); trimmed != "" {
				displayName = trimmed
			}
		}
	}

	html, err := page.HTML()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read page html")
		return "", nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse page html")
		return "", nil, err
	}

	var members []RawMember
	dropped := 0
	doc.Find(rowSelector).Each(func(i int, row *goquery.Selection) {
		member, ok := scrapeRow(row)
		if !ok {
			dropped++
			return
		}
		members = append(members, member)
	})
	if dropped > 0 {
		slog.WarnContext(ctx, "dropped unparseable roster rows", "count", dropped)
	}

	span.SetAttributes(
		attribute.Int("rows", len(members)),
		attribute.Int("dropped", dropped),
	)

	if len(members) == 0 {
		return displayName, nil, ErrEmptyRoster
	}
	return displayName, members, nil
}

func scrapeRow(row *goquery.Selection) (RawMember, bool) {
	name := htmlutil.SelectionText(row.Find(nameSelector))
	if name == "" {
		return RawMember{}, false
	}

	stats := row.Find(statSelector)
	if stats.Length() < 3 {
		return RawMember{}, false
	}

	return RawMember{
		Name:    name,
		Total:   htmlutil.SelectionText(stats.Eq(0)),
		Daily:   htmlutil.SelectionText(stats.Eq(1)),
		Recency: htmlutil.SelectionText(stats.Eq(2)),
	}, true
}
