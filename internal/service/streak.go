package service

import "time"

// utcDay truncates a timestamp to its UTC calendar day. All streak math is
// UTC-based so the result does not depend on server locale.
func utcDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// CalculateStreak counts consecutive UTC calendar days with at least one
// completion, walking back from now. The run must touch today or yesterday:
// a user who was active yesterday but not yet today keeps their streak, a gap
// of a full day resets it to zero.
func CalculateStreak(completions []time.Time, now time.Time) int {
	if len(completions) == 0 {
		return 0
	}

	activeDays := make(map[time.Time]bool, len(completions))
	for _, c := range completions {
		activeDays[utcDay(c)] = true
	}

	anchor := utcDay(now)
	if !activeDays[anchor] {
		anchor = anchor.AddDate(0, 0, -1)
		if !activeDays[anchor] {
			return 0
		}
	}

	streak := 0
	for activeDays[anchor.AddDate(0, 0, -streak)] {
		streak++
	}
	return streak
}
