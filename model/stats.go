package model

import "time"

// MonthStats summarizes per-day completion rates across one calendar month.
type MonthStats struct {
	Year              int     `json:"year"`
	Month             int     `json:"month"`
	AverageCompletion float64 `json:"average_completion"`
	BestDay           float64 `json:"best_day"`
	DaysWithData      int     `json:"days_with_data"`

	// TotalHabits is the present-tense habit count, not the count of habits
	// that existed on each day of the month. Daily rates below use historical
	// eligibility; this field deliberately does not. Documented behavior.
	TotalHabits int `json:"total_habits"`
}

// HabitStats is the per-habit view exposed by the streak endpoint.
type HabitStats struct {
	HabitID        string `json:"habit_id"`
	CurrentStreak  int    `json:"current_streak"`
	TotalCompleted int    `json:"total_completed"`
}

type UserStats struct {
	HabitStats struct {
		Total          int     `json:"total"`
		CompletedToday int     `json:"completed_today"`
		TodayRate      float64 `json:"today_rate"`
	} `json:"habit_stats"`
	GoalStats struct {
		Total    int `json:"total"`
		Achieved int `json:"achieved"`
	} `json:"goal_stats"`
	ActivityStats struct {
		AccountCreated time.Time `json:"account_created"`
		TotalSessions  int       `json:"total_sessions"`
	} `json:"activity_stats"`
}
