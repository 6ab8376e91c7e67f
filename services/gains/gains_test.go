package gains

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Yoisaki-Shann/AlmondTachyon/services/roster"

	"github.com/stretchr/testify/require"
)

func TestGain(t *testing.T) {
	cases := []struct {
		name     string
		baseline map[string]int64
		member   string
		current  int64
		expect   int64
	}{
		{"first seen", map[string]int64{}, "Kuro", 500, 0},
		{"normal growth", map[string]int64{"Kuro": 100}, "Kuro", 150, 50},
		{"shrinking total clamps", map[string]int64{"Kuro": 200}, "Kuro", 150, 0},
		{"no change", map[string]int64{"Kuro": 150}, "Kuro", 150, 0},
	}
	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expect, Gain(test.baseline, test.member, test.current))
		})
	}
}

func testStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return NewStore(
		filepath.Join(dir, "weekly_start.json"),
		filepath.Join(dir, "weekly_history.csv"),
	)
}

func TestSnapshotFirstRun(t *testing.T) {
	s := testStore(t)
	baseline, err := s.LoadSnapshot()
	require.NoError(t, err)
	require.Empty(t, baseline)
}

func TestRecordWeek(t *testing.T) {
	s := testStore(t)
	date := time.Date(2024, time.September, 1, 20, 0, 0, 0, time.UTC)

	members := []roster.Member{
		{Name: "Kuro", Fans: 150, Rank: 1},
		{Name: "Lina", Fans: 100, Rank: 2},
	}
	require.NoError(t, s.RecordWeek(date, members))

	// baseline fully replaced with the just-read totals
	baseline, err := s.LoadSnapshot()
	require.NoError(t, err)
	require.Equal(t, map[string]int64{"Kuro": 150, "Lina": 100}, baseline)

	// second week: Lina left, Taiki joined, Kuro grew
	week2 := []roster.Member{
		{Name: "Kuro", Fans: 220, Rank: 1},
		{Name: "Taiki", Fans: 50, Rank: 2},
	}
	require.NoError(t, s.RecordWeek(date.AddDate(0, 0, 7), week2))

	baseline, err = s.LoadSnapshot()
	require.NoError(t, err)
	require.Equal(t, map[string]int64{"Kuro": 220, "Taiki": 50}, baseline,
		"departed members must not linger in the baseline")

	rows := readHistory(t, s.historyPath)
	// one header plus one row per member per invocation
	require.Len(t, rows, 1+2+2)
	require.Equal(t, []string{"Date", "Name", "Total Fans", "Weekly Gain", "Daily Avg"}, rows[0])

	// first cycle ran against an empty baseline: everyone first-seen
	require.Equal(t, []string{"2024-09-01", "Kuro", "150", "0", "0"}, rows[1])
	require.Equal(t, []string{"2024-09-01", "Lina", "100", "0", "0"}, rows[2])

	// second cycle computes gains against the first snapshot
	require.Equal(t, []string{"2024-09-08", "Kuro", "220", "70", "10"}, rows[3])
	require.Equal(t, []string{"2024-09-08", "Taiki", "50", "0", "0"}, rows[4])
}

func TestHistoryHeaderWrittenOnce(t *testing.T) {
	s := testStore(t)
	date := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)
	members := []roster.Member{{Name: "Kuro", Fans: 1}}

	for i := 0; i < 3; i++ {
		require.NoError(t, s.RecordWeek(date.AddDate(0, 0, 7*i), members))
	}

	rows := readHistory(t, s.historyPath)
	require.Len(t, rows, 4)
	headers := 0
	for _, row := range rows {
		if row[0] == "Date" {
			headers++
		}
	}
	require.Equal(t, 1, headers)
}

func readHistory(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
