package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Tokyo")
	if err != nil {
		panic(err)
	}
}

// force timezone to the game server's region because the hosts we deploy
// on are not guaranteed to share it, and the weekly trigger is defined in
// wall-clock terms of the game's reset schedule
func Now() time.Time {
	return time.Now().In(Location)
}

// LastTrigger returns the most recent moment at or before `now` that the
// given weekday/hour/minute wall-clock trigger occurred, in now's location.
func LastTrigger(now time.Time, weekday time.Weekday, hour, minute int) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())

	daysBack := int(now.Weekday() - weekday)
	if daysBack < 0 {
		daysBack += 7
	}
	t = t.AddDate(0, 0, -daysBack)

	if t.After(now) {
		t = t.AddDate(0, 0, -7)
	}
	return t
}
