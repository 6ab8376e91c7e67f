package bindings

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Yoisaki-Shann/AlmondTachyon/services/roster"

	"github.com/antzucaro/matchr"
)

// Query is what a caller hands us to find a player: either an external
// identity or a free-text name. The two are resolved differently, so the
// variant is explicit rather than duck-typed.
type Query struct {
	identity   int64
	name       string
	byIdentity bool
}

func ByIdentity(id int64) Query {
	return Query{identity: id, byIdentity: true}
}

func ByName(name string) Query {
	return Query{name: name}
}

func (q Query) String() string {
	if q.byIdentity {
		return "identity:" + strconv.FormatInt(q.identity, 10)
	}
	return "name:" + q.name
}

// NamesFor collects every in-game name bound to the given identity. An
// empty result means "not linked in this club", which is a valid outcome
// rather than an error.
func NamesFor(b map[string]int64, identity int64) []string {
	var names []string
	for name, id := range b {
		if id == identity {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// SearchTerms expands a query into the name candidates to look for on the
// roster. A name query always includes the literal string; if that string
// is itself a bound name, every sibling alias sharing its identity is
// added so a lookup by one alias can land on another. An identity query
// yields only bound names, and nothing when the identity is unlinked.
func SearchTerms(b map[string]int64, q Query) []string {
	if q.byIdentity {
		return NamesFor(b, q.identity)
	}

	terms := []string{q.name}
	identity, bound := b[q.name]
	if !bound {
		return terms
	}
	var siblings []string
	for name, id := range b {
		if id == identity && name != q.name {
			siblings = append(siblings, name)
		}
	}
	sort.Strings(siblings)
	return append(terms, siblings...)
}

// MatchRoster finds the first ranked member whose name contains any search
// term, case-insensitively. Members are scanned in rank order, so the best
// ranked match wins.
func MatchRoster(terms []string, members []roster.Member) (roster.Member, bool) {
	for _, m := range members {
		lowered := strings.ToLower(m.Name)
		for _, term := range terms {
			if strings.Contains(lowered, strings.ToLower(term)) {
				return m, true
			}
		}
	}
	return roster.Member{}, false
}

// IdentityFor resolves the identity bound to a name actually seen on the
// roster. This is deliberately separate from SearchTerms: the scraped name
// may differ in case from whatever the caller typed, so the display lookup
// is keyed on the real name, exact match first and then case-insensitive.
func IdentityFor(b map[string]int64, realName string) (int64, bool) {
	if id, ok := b[realName]; ok {
		return id, true
	}
	lowered := strings.ToLower(realName)
	for name, id := range b {
		if strings.ToLower(name) == lowered {
			return id, true
		}
	}
	return 0, false
}

// Suggest returns the roster name closest to the query by Jaro-Winkler
// similarity, for hinting after a failed lookup. Zero similarity means
// there was nothing to suggest.
func Suggest(name string, members []roster.Member) (string, float64) {
	var best string
	var bestScore float64
	for _, m := range members {
		score := matchr.JaroWinkler(strings.ToLower(name), strings.ToLower(m.Name), false)
		if score > bestScore {
			bestScore = score
			best = m.Name
		}
	}
	return best, bestScore
}
