package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(base time.Time, daysAgo int) time.Time {
	return base.AddDate(0, 0, -daysAgo)
}

func TestCalculateStreakEmpty(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, CalculateStreak(nil, now))
	assert.Equal(t, 0, CalculateStreak([]time.Time{}, now))
}

func TestCalculateStreakConsecutiveDays(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	completions := []time.Time{day(now, 0), day(now, 1), day(now, 2)}
	assert.Equal(t, 3, CalculateStreak(completions, now))
}

func TestCalculateStreakStopsAtGap(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	completions := []time.Time{day(now, 0), day(now, 1), day(now, 2), day(now, 4)}
	assert.Equal(t, 3, CalculateStreak(completions, now))
}

func TestCalculateStreakYesterdayAnchor(t *testing.T) {
	// No activity today yet: yesterday's run still counts.
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	completions := []time.Time{day(now, 1), day(now, 2), day(now, 3)}
	assert.Equal(t, 3, CalculateStreak(completions, now))
}

func TestCalculateStreakBrokenByFullDayGap(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	completions := []time.Time{day(now, 2), day(now, 3)}
	assert.Equal(t, 0, CalculateStreak(completions, now))
}

func TestCalculateStreakDuplicateSameDay(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	completions := []time.Time{
		now.Add(-1 * time.Hour),
		now.Add(-2 * time.Hour),
		now.Add(-3 * time.Hour),
		day(now, 1),
	}
	assert.Equal(t, 2, CalculateStreak(completions, now))
}

func TestCalculateStreakUsesUTCDays(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	loc := time.FixedZone("UTC+5", 5*3600)
	// 2026-03-10 02:00 +05:00 is 2026-03-09 21:00 UTC.
	completions := []time.Time{
		time.Date(2026, 3, 10, 2, 0, 0, 0, loc),
		now,
	}
	assert.Equal(t, 2, CalculateStreak(completions, now))
}

func TestCalculateStreakSingleToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, CalculateStreak([]time.Time{now}, now))
}
