// Package roster turns raw scraped club rows into typed, ranked member
// records. Everything here is pure: no I/O, no clock, no logging.
package roster

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Yoisaki-Shann/AlmondTachyon/lib/scrapers/clubpage"
)

type Member struct {
	Name string
	// lifetime fan total, the ranking key
	Fans int64
	// self-reported daily fan output; 0 when the page renders a dash or
	// other unparseable text
	Daily int64
	// free-text last-login string as rendered, e.g. "2 hours ago"
	Login string
	// 1-based position after sorting
	Rank int
}

// Normalize parses raw rows and returns members ranked by fan total,
// descending. Rows whose fan total cannot be parsed are dropped; a bad
// daily value only zeroes that field. The sort is stable: members with
// equal totals keep their extraction order.
func Normalize(raw []clubpage.RawMember) []Member {
	members := make([]Member, 0, len(raw))
	for _, r := range raw {
		fans, err := parseCount(r.Total)
		if err != nil {
			continue
		}
		daily, err := parseCount(r.Daily)
		if err != nil {
			daily = 0
		}
		members = append(members, Member{
			Name:  r.Name,
			Fans:  fans,
			Daily: daily,
			Login: r.Recency,
		})
	}

	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Fans > members[j].Fans
	})
	for i := range members {
		members[i].Rank = i + 1
	}
	return members
}

func parseCount(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	return strconv.ParseInt(s, 10, 64)
}

type Activity int

const (
	ActivityOnline Activity = iota
	ActivityRecent
	ActivityInactive
)

func (a Activity) String() string {
	switch a {
	case ActivityOnline:
		return "online"
	case ActivityRecent:
		return "recent"
	default:
		return "inactive"
	}
}

// BucketLogin classifies a free-text last-login string by substring match,
// the same way the club screen renders it: minutes or hours mean the player
// is effectively online, exactly one day means recent, anything else is
// inactive.
func BucketLogin(login string) Activity {
	login = strings.ToLower(login)
	switch {
	case strings.Contains(login, "minute") || strings.Contains(login, "hour"):
		return ActivityOnline
	case strings.Contains(login, "1 day"):
		return ActivityRecent
	default:
		return ActivityInactive
	}
}
