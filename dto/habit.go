package dto

import (
	"main/model"
	"time"
)

type HabitResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"habit_name"`
	Description     string    `json:"description,omitempty"`
	Completed       bool      `json:"completed"`
	CompletionDates []string  `json:"completion_dates"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Convert model.Habit to HabitResponse
func ToHabitResponse(habit *model.Habit) HabitResponse {
	dates := habit.CompletionDates
	if dates == nil {
		dates = []string{}
	}
	return HabitResponse{
		ID:              habit.HabitID,
		Name:            habit.Name,
		Description:     habit.Description,
		Completed:       habit.Completed,
		CompletionDates: dates,
		CreatedAt:       habit.CreatedAt,
		UpdatedAt:       habit.UpdatedAt,
	}
}

// Convert slice of model.Habit to slice of HabitResponse
func ToHabitResponses(habits []*model.Habit) []HabitResponse {
	responses := make([]HabitResponse, len(habits))
	for i, habit := range habits {
		responses[i] = ToHabitResponse(habit)
	}
	return responses
}
