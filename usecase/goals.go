package usecase

import (
	"context"
	"errors"
	"time"

	"main/model"
	"main/repository"

	"github.com/google/uuid"
)

type GoalsService struct {
	GoalsRepo *repository.GoalsRepo
}

func NewGoalsService(repo *repository.GoalsRepo) *GoalsService {
	return &GoalsService{GoalsRepo: repo}
}

func (svc *GoalsService) CreateGoal(ctx context.Context, goal *model.Goal) error {
	if goal.UserID == "" {
		return errors.New("user ID is required")
	}
	if goal.Title == "" {
		return errors.New("goal title is required")
	}
	if goal.TargetDays < 0 {
		return errors.New("target days cannot be negative")
	}
	if !goal.Deadline.IsZero() && goal.Deadline.Before(time.Now()) {
		return errors.New("deadline cannot be in the past")
	}

	now := time.Now()
	goal.GoalID = uuid.New().String()
	goal.CreatedAt = now
	goal.UpdatedAt = now
	goal.Achieved = false

	return svc.GoalsRepo.CreateGoal(ctx, goal)
}

func (svc *GoalsService) GetUserGoals(ctx context.Context, userID string) ([]*model.Goal, error) {
	return svc.GoalsRepo.GetUserGoals(ctx, userID)
}

func (svc *GoalsService) UpdateGoal(ctx context.Context, goalID string, userID string, updates *model.Goal) (*model.Goal, error) {
	existing, err := svc.GoalsRepo.GetGoalByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errors.New("goal not found")
	}

	if updates.Title != "" {
		existing.Title = updates.Title
	}
	if updates.Description != "" {
		existing.Description = updates.Description
	}
	if updates.TargetDays > 0 {
		existing.TargetDays = updates.TargetDays
	}
	if !updates.Deadline.IsZero() {
		existing.Deadline = updates.Deadline
	}
	existing.Achieved = updates.Achieved
	existing.UpdatedAt = time.Now()

	if err := svc.GoalsRepo.UpdateGoal(ctx, goalID, userID, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (svc *GoalsService) DeleteGoal(ctx context.Context, goalID string, userID string) error {
	return svc.GoalsRepo.DeleteGoal(ctx, goalID, userID)
}

// CheckAchievement marks a goal achieved once the linked habit's current
// streak reaches the target
func (svc *GoalsService) CheckAchievement(ctx context.Context, goal *model.Goal, currentStreak int) (bool, error) {
	if goal.Achieved || goal.TargetDays <= 0 {
		return goal.Achieved, nil
	}
	if currentStreak < goal.TargetDays {
		return false, nil
	}

	goal.Achieved = true
	goal.UpdatedAt = time.Now()
	if err := svc.GoalsRepo.UpdateGoal(ctx, goal.GoalID, goal.UserID, goal); err != nil {
		return false, err
	}
	return true, nil
}
