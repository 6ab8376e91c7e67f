// Package gains computes week-to-date fan gains against a persisted
// weekly baseline and owns the files that baseline and the append-only
// history ledger live in.
package gains

// Gain is the week-to-date fan gain for one member. A name missing from
// the baseline is first-seen and counts as no change, not as missing data.
// Gains never go negative; a shrinking total (rerolled account, corrected
// scrape) clamps to zero.
func Gain(baseline map[string]int64, name string, current int64) int64 {
	prev, ok := baseline[name]
	if !ok {
		return 0
	}
	if current <= prev {
		return 0
	}
	return current - prev
}
