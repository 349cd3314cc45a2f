package usecase

import (
	"main/model"
	"main/utils"
	"time"
)

// MaxStreakDays bounds the backward walk in CurrentStreak. Streaks longer
// than a year report as 365.
const MaxStreakDays = 365

// CompletionRate returns the percentage of eligible habits completed on the
// given day, in [0,100]. A habit is eligible when its creation day key is on
// or before the target day key; habits created after the target date count
// toward neither numerator nor denominator. An empty eligible set yields 0.
func CompletionRate(habits []*model.Habit, date time.Time) float64 {
	target := utils.DayKey(date)

	eligible := 0
	completed := 0
	for _, habit := range habits {
		// Day keys sort lexicographically in date order.
		if utils.DayKey(habit.CreatedAt) > target {
			continue
		}
		eligible++
		if habit.HasCompletion(target) {
			completed++
		}
	}

	if eligible == 0 {
		return 0
	}
	return 100 * float64(completed) / float64(eligible)
}

// CurrentStreak returns the length of the unbroken run of consecutive
// completed days ending at now's day (or the day before, when today is not
// yet completed). Returns 0 when neither today nor yesterday is present.
func CurrentStreak(completionDates []string, now time.Time) int {
	if len(completionDates) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(completionDates))
	for _, d := range completionDates {
		set[d] = struct{}{}
	}

	anchor := now
	if _, ok := set[utils.DayKey(anchor)]; !ok {
		anchor = anchor.AddDate(0, 0, -1)
		if _, ok := set[utils.DayKey(anchor)]; !ok {
			return 0
		}
	}

	streak := 0
	day := anchor
	for i := 0; i < MaxStreakDays; i++ {
		if _, ok := set[utils.DayKey(day)]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// MonthStatsFor aggregates per-day completion rates across one calendar
// month. Only actual days of the month are enumerated, never the leading
// filler cells of the rendered grid. TotalHabits is the present-tense habit
// count while the daily rates apply historical eligibility; that asymmetry
// is long-standing observed behavior and is kept as is.
func MonthStatsFor(habits []*model.Habit, year int, month time.Month) model.MonthStats {
	stats := model.MonthStats{
		Year:        year,
		Month:       int(month),
		TotalHabits: len(habits),
	}

	days := utils.DaysInMonth(year, month)
	if days == 0 {
		return stats
	}

	var sum float64
	for day := 1; day <= days; day++ {
		d := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
		rate := CompletionRate(habits, d)
		sum += rate
		if rate > stats.BestDay {
			stats.BestDay = rate
		}
		if rate > 0 {
			stats.DaysWithData++
		}
	}

	stats.AverageCompletion = sum / float64(days)
	return stats
}
