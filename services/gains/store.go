package gains

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/Yoisaki-Shann/AlmondTachyon/services/roster"
)

var historyHeader = []string{"Date", "Name", "Total Fans", "Weekly Gain", "Daily Avg"}

// Store owns one club's weekly baseline snapshot and history ledger. The
// mutex serializes the whole weekly cycle per club, so a manual trigger
// racing the scheduled one cannot interleave file writes.
type Store struct {
	snapshotPath string
	historyPath  string
	mu           sync.Mutex
}

func NewStore(snapshotPath, historyPath string) *Store {
	return &Store{
		snapshotPath: snapshotPath,
		historyPath:  historyPath,
	}
}

// LoadSnapshot returns the weekly baseline, name to fan total. A missing
// file is first-run and yields an empty baseline.
func (s *Store) LoadSnapshot() (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadSnapshot()
}

func (s *Store) loadSnapshot() (map[string]int64, error) {
	raw, err := os.ReadFile(s.snapshotPath)
	if os.IsNotExist(err) {
		return map[string]int64{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := map[string]int64{}
	err = json.Unmarshal(raw, &out)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.snapshotPath, err)
	}
	return out, nil
}

func (s *Store) saveSnapshot(snapshot map[string]int64) error {
	raw, err := json.MarshalIndent(snapshot, "", "    ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.snapshotPath), ".tmp-*")
	if err != nil {
		return err
	}
	_, err = tmp.Write(raw)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.snapshotPath)
}

func (s *Store) appendHistory(date time.Time, members []roster.Member, baseline map[string]int64) error {
	_, statErr := os.Stat(s.historyPath)
	isNew := os.IsNotExist(statErr)
	if statErr != nil && !isNew {
		return statErr
	}

	f, err := os.OpenFile(s.historyPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(historyHeader); err != nil {
			return err
		}
	}

	dateStr := date.Format("2006-01-02")
	for _, m := range members {
		gain := Gain(baseline, m.Name, m.Fans)
		err := w.Write([]string{
			dateStr,
			m.Name,
			strconv.FormatInt(m.Fans, 10),
			strconv.FormatInt(gain, 10),
			strconv.FormatInt(gain/7, 10),
		})
		if err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// RecordWeek runs one weekly cycle: append a history row per member using
// the current baseline, then replace the baseline with the just-read
// totals. Appending is not idempotent; running this twice in the same
// period writes duplicate ledger rows.
func (s *Store) RecordWeek(date time.Time, members []roster.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	baseline, err := s.loadSnapshot()
	if err != nil {
		return err
	}
	if err := s.appendHistory(date, members, baseline); err != nil {
		return err
	}

	next := make(map[string]int64, len(members))
	for _, m := range members {
		next[m.Name] = m.Fans
	}
	return s.saveSnapshot(next)
}
