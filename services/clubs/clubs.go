// Package clubs holds the static table of tracked clubs: canonical ids,
// free-text aliases, and the devtools endpoint each club's browser session
// lives behind. The table is built once at startup and never mutated.
package clubs

import (
	"fmt"
	"strings"
)

// DefaultID is returned for any token that does not resolve. Unknown club
// references fall back to the main club instead of failing; commands that
// omit the club argument rely on this.
const DefaultID = 1

type Club struct {
	ID int
	// human-facing name, also used as the data file prefix
	Name     string
	Aliases  []string
	Devtools string
}

// file prefix for this club's persisted state
func (c Club) Prefix() string {
	return strings.ToLower(c.Name)
}

type Registry struct {
	clubs   []Club
	byID    map[int]Club
	byAlias map[string]int
}

func NewRegistry(clubList []Club) (*Registry, error) {
	r := &Registry{
		byID:    make(map[int]Club),
		byAlias: make(map[string]int),
	}
	for _, c := range clubList {
		if c.ID <= 0 {
			return nil, fmt.Errorf("club %q: id must be positive", c.Name)
		}
		if _, taken := r.byID[c.ID]; taken {
			return nil, fmt.Errorf("club %q: duplicate id %d", c.Name, c.ID)
		}
		if c.Devtools == "" {
			return nil, fmt.Errorf("club %q: missing devtools endpoint", c.Name)
		}
		r.byID[c.ID] = c
		r.clubs = append(r.clubs, c)

		for _, alias := range c.Aliases {
			r.byAlias[strings.ToLower(alias)] = c.ID
		}
		r.byAlias[fmt.Sprint(c.ID)] = c.ID
		r.byAlias[strings.ToLower(c.Name)] = c.ID
	}
	if _, ok := r.byID[DefaultID]; !ok {
		return nil, fmt.Errorf("no club with default id %d configured", DefaultID)
	}
	return r, nil
}

// Resolve maps a free-text club reference to its club. Unrecognized or
// empty tokens resolve to the default club, never an error.
func (r *Registry) Resolve(token string) Club {
	id, ok := r.byAlias[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		id = DefaultID
	}
	return r.byID[id]
}

func (r *Registry) ByID(id int) (Club, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// All returns every club in registration order.
func (r *Registry) All() []Club {
	out := make([]Club, len(r.clubs))
	copy(out, r.clubs)
	return out
}
