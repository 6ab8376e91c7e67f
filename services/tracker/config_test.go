package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	d, err := parseWeekday("sunday")
	require.NoError(t, err)
	require.Equal(t, time.Sunday, d)

	d, err = parseWeekday("Wednesday")
	require.NoError(t, err)
	require.Equal(t, time.Wednesday, d)

	_, err = parseWeekday("someday")
	require.Error(t, err)
}

func TestConfigSchedule(t *testing.T) {
	c := Config{Report: ReportConfig{Weekday: "sunday", Hour: 20, Minute: 0}}
	sched, err := c.schedule()
	require.NoError(t, err)
	require.Equal(t, Schedule{Weekday: time.Sunday, Hour: 20, Minute: 0}, sched)

	c.Report.Hour = 24
	_, err = c.schedule()
	require.Error(t, err)
}
