package usecase

import (
	"main/model"
	"main/utils"
	"testing"
	"time"
)

func newHabit(id string, createdAt time.Time, completions ...string) *model.Habit {
	return &model.Habit{
		HabitID:         id,
		UserID:          "user-1",
		Name:            "habit " + id,
		CreatedAt:       createdAt,
		CompletionDates: completions,
	}
}

func TestCompletionRate(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, 6, d, 12, 0, 0, 0, time.Local)
	}
	key := func(d int) string { return utils.DayKey(day(d)) }

	tests := []struct {
		name   string
		habits []*model.Habit
		date   time.Time
		want   float64
	}{
		{
			name:   "Empty collection",
			habits: nil,
			date:   day(15),
			want:   0,
		},
		{
			name: "All eligible habits completed",
			habits: []*model.Habit{
				newHabit("a", day(1), key(15)),
				newHabit("b", day(1), key(15)),
			},
			date: day(15),
			want: 100,
		},
		{
			name: "Half completed",
			habits: []*model.Habit{
				newHabit("a", day(1), key(15)),
				newHabit("b", day(1)),
			},
			date: day(15),
			want: 50,
		},
		{
			name: "Habit created after target date is excluded entirely",
			habits: []*model.Habit{
				newHabit("a", day(1), key(10)),
				newHabit("late", day(20), key(10)), // completion before creation, still ignored
			},
			date: day(10),
			want: 100,
		},
		{
			name: "Only ineligible habits yields zero",
			habits: []*model.Habit{
				newHabit("late", day(20), key(10)),
			},
			date: day(10),
			want: 0,
		},
		{
			name: "Created on the target day is eligible",
			habits: []*model.Habit{
				newHabit("a", day(15), key(15)),
			},
			date: day(15),
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompletionRate(tt.habits, tt.date)
			if got != tt.want {
				t.Errorf("CompletionRate = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("CompletionRate = %v, outside [0,100]", got)
			}
		})
	}
}

func TestCurrentStreak(t *testing.T) {
	now := time.Date(2025, 6, 20, 15, 0, 0, 0, time.Local)
	key := func(daysAgo int) string {
		return utils.DayKey(now.AddDate(0, 0, -daysAgo))
	}

	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{
			name:  "Empty history",
			dates: nil,
			want:  0,
		},
		{
			name:  "Only today",
			dates: []string{key(0)},
			want:  1,
		},
		{
			name:  "Three consecutive days ending today",
			dates: []string{key(0), key(1), key(2)},
			want:  3,
		},
		{
			name:  "Yesterday only, today not yet done",
			dates: []string{key(1)},
			want:  1,
		},
		{
			name:  "Gap breaks the streak",
			dates: []string{key(3)},
			want:  0,
		},
		{
			name:  "Run behind a gap does not count",
			dates: []string{key(0), key(2), key(3), key(4)},
			want:  1,
		},
		{
			name:  "Unordered input",
			dates: []string{key(2), key(0), key(1)},
			want:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentStreak(tt.dates, now); got != tt.want {
				t.Errorf("CurrentStreak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCurrentStreakCap(t *testing.T) {
	now := time.Date(2025, 6, 20, 15, 0, 0, 0, time.Local)

	// Two years of consecutive days must report the documented cap
	var dates []string
	for i := 0; i < 730; i++ {
		dates = append(dates, utils.DayKey(now.AddDate(0, 0, -i)))
	}

	if got := CurrentStreak(dates, now); got != MaxStreakDays {
		t.Errorf("CurrentStreak = %d, want cap %d", got, MaxStreakDays)
	}
}

func TestMonthStatsFor(t *testing.T) {
	// One habit created on day 10 of a 30-day month, completed on days
	// 10, 11 and 15.
	day := func(d int) time.Time {
		return time.Date(2025, 6, d, 9, 0, 0, 0, time.Local)
	}
	habit := newHabit("a", day(10),
		utils.DayKey(day(10)), utils.DayKey(day(11)), utils.DayKey(day(15)))

	stats := MonthStatsFor([]*model.Habit{habit}, 2025, time.June)

	if stats.TotalHabits != 1 {
		t.Errorf("TotalHabits = %d, want 1", stats.TotalHabits)
	}
	if stats.BestDay != 100 {
		t.Errorf("BestDay = %v, want 100", stats.BestDay)
	}
	if stats.DaysWithData != 3 {
		t.Errorf("DaysWithData = %d, want 3", stats.DaysWithData)
	}
	// 3 completed days at 100% over 30 days
	if want := 10.0; stats.AverageCompletion != want {
		t.Errorf("AverageCompletion = %v, want %v", stats.AverageCompletion, want)
	}
}

func TestMonthStatsForEmpty(t *testing.T) {
	stats := MonthStatsFor(nil, 2025, time.June)

	if stats.AverageCompletion != 0 || stats.BestDay != 0 || stats.DaysWithData != 0 || stats.TotalHabits != 0 {
		t.Errorf("empty collection should produce zeroed stats, got %+v", stats)
	}
}
