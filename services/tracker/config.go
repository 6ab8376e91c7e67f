package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/Yoisaki-Shann/AlmondTachyon/services/clubs"
)

type ClubConfig struct {
	Id       int      `json:"id"`
	Name     string   `json:"name"`
	Aliases  []string `json:"aliases"`
	Devtools string   `json:"devtools"`
}

type ReportConfig struct {
	Weekday string `json:"weekday"`
	Hour    int    `json:"hour"`
	Minute  int    `json:"minute"`
}

type Config struct {
	Debug   bool         `json:"debug"`
	DataDir string       `json:"data_dir"`
	Clubs   []ClubConfig `json:"clubs"`
	Report  ReportConfig `json:"report"`
	// seconds; bounds every individual devtools operation
	ScrapeTimeout int `json:"scrape_timeout"`
	// minutes between page refresh nudges
	RefreshEvery int `json:"refresh_every"`
}

func (c Config) registry() (*clubs.Registry, error) {
	clubList := make([]clubs.Club, len(c.Clubs))
	for i, cc := range c.Clubs {
		clubList[i] = clubs.Club{
			ID:       cc.Id,
			Name:     cc.Name,
			Aliases:  cc.Aliases,
			Devtools: cc.Devtools,
		}
	}
	return clubs.NewRegistry(clubList)
}

func (c Config) schedule() (Schedule, error) {
	weekday, err := parseWeekday(c.Report.Weekday)
	if err != nil {
		return Schedule{}, err
	}
	if c.Report.Hour < 0 || c.Report.Hour > 23 || c.Report.Minute < 0 || c.Report.Minute > 59 {
		return Schedule{}, fmt.Errorf("report trigger %02d:%02d out of range",
			c.Report.Hour, c.Report.Minute)
	}
	return Schedule{
		Weekday: weekday,
		Hour:    c.Report.Hour,
		Minute:  c.Report.Minute,
	}, nil
}

// NewService builds the fully wired service from a parsed config file.
func (c Config) NewService() (*Service, error) {
	registry, err := c.registry()
	if err != nil {
		return nil, err
	}
	schedule, err := c.schedule()
	if err != nil {
		return nil, err
	}

	scrapeTimeout := time.Duration(c.ScrapeTimeout) * time.Second
	if scrapeTimeout <= 0 {
		scrapeTimeout = 15 * time.Second
	}
	dataDir := c.DataDir
	if dataDir == "" {
		dataDir = "data"
	}

	return NewService(Params{
		Registry:     registry,
		Scraper:      DevtoolsScraper{Timeout: scrapeTimeout},
		DataDir:      dataDir,
		Schedule:     schedule,
		RefreshEvery: time.Duration(c.RefreshEvery) * time.Minute,
	})
}

func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
