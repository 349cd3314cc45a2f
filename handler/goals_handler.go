package handler

import (
	"log"
	"time"

	"main/dto"
	"main/model"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type GoalsHandler struct {
	service      *usecase.GoalsService
	habitService *usecase.HabitsService
}

func NewGoalsHandler(service *usecase.GoalsService, habitService *usecase.HabitsService) *GoalsHandler {
	return &GoalsHandler{service: service, habitService: habitService}
}

func (h *GoalsHandler) CreateGoal(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req struct {
		Title       string    `json:"title" binding:"required"`
		Description string    `json:"description"`
		HabitID     string    `json:"habit_id"`
		TargetDays  int       `json:"target_days"`
		Deadline    time.Time `json:"deadline"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	goal := &model.Goal{
		UserID:      userID.(string),
		HabitID:     req.HabitID,
		Title:       req.Title,
		Description: req.Description,
		TargetDays:  req.TargetDays,
		Deadline:    req.Deadline,
	}

	if err := h.service.CreateGoal(c.Request.Context(), goal); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Created(c, dto.ToGoalResponse(goal))
}

// GetUserGoals lists goals, refreshing achievement state for goals linked
// to a habit.
func (h *GoalsHandler) GetUserGoals(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	goals, err := h.service.GetUserGoals(c.Request.Context(), userID.(string))
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	for _, goal := range goals {
		if goal.HabitID == "" || goal.Achieved {
			continue
		}
		stats := h.habitService.HabitStreak(c.Request.Context(), userID.(string), goal.HabitID)
		if stats == nil {
			continue
		}
		// Best effort; an unsynced achievement shows up on the next list
		if _, err := h.service.CheckAchievement(c.Request.Context(), goal, stats.CurrentStreak); err != nil {
			log.Printf("Failed to refresh achievement for goal %s: %v", goal.GoalID, err)
		}
	}

	utils.Success(c, dto.ToGoalResponses(goals))
}

func (h *GoalsHandler) UpdateGoal(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	goalID := c.Param("id")
	if goalID == "" {
		utils.BadRequest(c, "Missing goal ID")
		return
	}

	var req struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		TargetDays  int       `json:"target_days"`
		Deadline    time.Time `json:"deadline"`
		Achieved    bool      `json:"achieved"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	updates := model.Goal{
		Title:       req.Title,
		Description: req.Description,
		TargetDays:  req.TargetDays,
		Deadline:    req.Deadline,
		Achieved:    req.Achieved,
	}

	goal, err := h.service.UpdateGoal(c.Request.Context(), goalID, userID.(string), &updates)
	if err != nil {
		if err.Error() == "goal not found" {
			utils.NotFound(c, "Goal not found")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, dto.ToGoalResponse(goal))
}

func (h *GoalsHandler) DeleteGoal(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	goalID := c.Param("id")
	if err := h.service.DeleteGoal(c.Request.Context(), goalID, userID.(string)); err != nil {
		if err.Error() == "goal not found" {
			utils.NotFound(c, "Goal not found")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, gin.H{"message": "Goal deleted"})
}
