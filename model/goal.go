package model

import "time"

type Goal struct {
	GoalID      string    `bson:"_id,omitempty" json:"id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	HabitID     string    `bson:"habit_id,omitempty" json:"habit_id,omitempty"`
	Title       string    `bson:"title" json:"title" binding:"required"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	TargetDays  int       `bson:"target_days" json:"target_days"`
	Deadline    time.Time `bson:"deadline,omitempty" json:"deadline,omitempty"`
	Achieved    bool      `bson:"achieved" json:"achieved"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
