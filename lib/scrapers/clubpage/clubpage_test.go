package clubpage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakePage struct {
	title    string
	titleErr error
	html     string
	htmlErr  error
}

func (p fakePage) Title() (string, error) { return p.title, p.titleErr }
func (p fakePage) HTML() (string, error)  { return p.html, p.htmlErr }

func row(name string, stats ...string) string {
	out := `<div class="club-member-row-container">`
	if name != "" {
		out += `<span class="club-profile-name">` + name + `</span>`
	}
	for _, s := range stats {
		out += `<span class="club-profile-cell-reg-span">` + s + `</span>`
	}
	return out + `</div>`
}

func TestScrape(t *testing.T) {
	page := fakePage{
		title: "LunaSoul | Club Screen",
		html: `<html><body>` +
			row("Kuro", "150,000,000", "1,200,000", "2 hours ago") +
			row("Lina", "90,000,000", "800,000", "1 day ago") +
			`</body></html>`,
	}

	name, members, err := Scrape(context.Background(), page)
	require.NoError(t, err)
	require.Equal(t, "LunaSoul", name)
	require.Equal(t, []RawMember{
		{Name: "Kuro", Total: "150,000,000", Daily: "1,200,000", Recency: "2 hours ago"},
		{Name: "Lina", Total: "90,000,000", Daily: "800,000", Recency: "1 day ago"},
	}, members)
}

func TestScrapeDropsBrokenRows(t *testing.T) {
	page := fakePage{
		title: "LunaSoul | Club Screen",
		html: `<html><body>` +
			row("Kuro", "150,000,000", "1,200,000", "2 hours ago") +
			// missing name
			row("", "90,000,000", "800,000", "1 day ago") +
			// too few stat cells
			row("Taiki", "10,000") +
			row("Lina", "90,000,000", "800,000", "1 day ago") +
			`</body></html>`,
	}

	_, members, err := Scrape(context.Background(), page)
	require.NoError(t, err)
	require.Len(t, members, 2)
	require.Equal(t, "Kuro", members[0].Name)
	require.Equal(t, "Lina", members[1].Name)
}

func TestScrapeEmptyRoster(t *testing.T) {
	page := fakePage{
		title: "LunaSoul | Club Screen",
		html:  `<html><body><div class="unrelated"></div></body></html>`,
	}

	name, members, err := Scrape(context.Background(), page)
	require.ErrorIs(t, err, ErrEmptyRoster)
	require.Equal(t, "LunaSoul", name)
	require.Nil(t, members)
}

func TestScrapeTitleFallback(t *testing.T) {
	cases := []fakePage{
		// no separator in the title
		{title: "some other page", html: row("Kuro", "1", "2", "3")},
		// title read fails entirely
		{titleErr: errors.New("no such frame"), html: row("Kuro", "1", "2", "3")},
		// separator but empty prefix
		{title: " | Club Screen", html: row("Kuro", "1", "2", "3")},
	}

	for _, page := range cases {
		name, members, err := Scrape(context.Background(), page)
		require.NoError(t, err)
		require.Equal(t, "Club", name)
		require.Len(t, members, 1)
	}
}
