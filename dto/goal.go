package dto

import (
	"main/model"
	"time"
)

type GoalResponse struct {
	ID          string     `json:"id"`
	HabitID     string     `json:"habit_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	TargetDays  int        `json:"target_days"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Achieved    bool       `json:"achieved"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func ToGoalResponse(goal *model.Goal) GoalResponse {
	response := GoalResponse{
		ID:          goal.GoalID,
		HabitID:     goal.HabitID,
		Title:       goal.Title,
		Description: goal.Description,
		TargetDays:  goal.TargetDays,
		Achieved:    goal.Achieved,
		CreatedAt:   goal.CreatedAt,
		UpdatedAt:   goal.UpdatedAt,
	}
	if !goal.Deadline.IsZero() {
		response.Deadline = &goal.Deadline
	}
	return response
}

func ToGoalResponses(goals []*model.Goal) []GoalResponse {
	responses := make([]GoalResponse, len(goals))
	for i, goal := range goals {
		responses[i] = ToGoalResponse(goal)
	}
	return responses
}
