package model

import "time"

type Habit struct {
	HabitID     string    `bson:"_id,omitempty" json:"id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	Name        string    `bson:"habit_name" json:"habit_name" binding:"required"`
	Description string    `bson:"habit_description" json:"description"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`

	// CompletionDates is the authoritative completion history: one
	// YYYY-MM-DD day key per completed local calendar day, no duplicates.
	CompletionDates []string `bson:"completion_dates" json:"completion_dates"`

	// Completed is a projection of CompletionDates for a single day and is
	// never persisted. Read views fill it in per request.
	Completed bool `bson:"-" json:"completed"`
}

// HasCompletion reports whether the habit was marked complete on the given
// day key.
func (h *Habit) HasCompletion(dayKey string) bool {
	for _, d := range h.CompletionDates {
		if d == dayKey {
			return true
		}
	}
	return false
}

// ToggleCompletion flips membership of dayKey in the completion history.
// Returns true if the day is now present.
func (h *Habit) ToggleCompletion(dayKey string) bool {
	for i, d := range h.CompletionDates {
		if d == dayKey {
			h.CompletionDates = append(h.CompletionDates[:i], h.CompletionDates[i+1:]...)
			return false
		}
	}
	h.CompletionDates = append(h.CompletionDates, dayKey)
	return true
}
