package handler

import (
	"errors"
	"log"
	"time"

	"main/model"
	"main/repository"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidYear  = errors.New("invalid year")
	errInvalidMonth = errors.New("invalid month, expected 1-12")
)

type StatsHandler struct {
	userRepo     *repository.UsersRepo
	sessionRepo  *repository.SessionRepo
	habitService *usecase.HabitsService
	goalsService *usecase.GoalsService
}

func NewStatsHandler(
	userRepo *repository.UsersRepo,
	sessionRepo *repository.SessionRepo,
	habitService *usecase.HabitsService,
	goalsService *usecase.GoalsService,
) *StatsHandler {
	return &StatsHandler{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		habitService: habitService,
		goalsService: goalsService,
	}
}

// GetMonthStats returns the month aggregate: average and best daily
// completion rate, days with data, and habit count.
func (h *StatsHandler) GetMonthStats(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	year, month, err := parseYearMonth(c, time.Now())
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	stats := h.habitService.MonthStats(c.Request.Context(), userID.(string), year, month)
	utils.Success(c, stats)
}

// GetTodayStats returns today's completion rate across the user's habits
func (h *StatsHandler) GetTodayStats(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	now := time.Now()
	habits := h.habitService.HabitsForDate(c.Request.Context(), userID.(string), now)

	completed := 0
	for _, habit := range habits {
		if habit.Completed {
			completed++
		}
	}

	utils.Success(c, gin.H{
		"date":      utils.DayKey(now),
		"rate":      usecase.CompletionRate(habits, now),
		"completed": completed,
		"total":     len(habits),
	})
}

// GetUserStats is the profile overview: habit, goal, and session counts
func (h *StatsHandler) GetUserStats(c *gin.Context) {
	ctx := c.Request.Context()
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	user, err := h.userRepo.FindUser(ctx, userID.(string))
	if err != nil {
		log.Printf("Error fetching user %s: %v", userID, err)
		utils.InternalError(c, "Failed to fetch user details")
		return
	}
	if user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	var stats model.UserStats
	stats.ActivityStats.AccountCreated = user.CreatedAt

	now := time.Now()
	habits := h.habitService.HabitsForDate(ctx, userID.(string), now)
	stats.HabitStats.Total = len(habits)
	for _, habit := range habits {
		if habit.Completed {
			stats.HabitStats.CompletedToday++
		}
	}
	stats.HabitStats.TodayRate = usecase.CompletionRate(habits, now)

	goals, err := h.goalsService.GetUserGoals(ctx, userID.(string))
	if err != nil {
		log.Printf("Error fetching goals: %v", err)
		utils.InternalError(c, "Failed to fetch goals")
		return
	}
	stats.GoalStats.Total = len(goals)
	for _, goal := range goals {
		if goal.Achieved {
			stats.GoalStats.Achieved++
		}
	}

	sessionCount, err := h.sessionRepo.CountActiveSessions(userID.(string))
	if err != nil {
		log.Printf("Error counting sessions: %v", err)
	} else {
		stats.ActivityStats.TotalSessions = sessionCount
	}

	utils.Success(c, stats)
}

// GetSystemHealth reports process-level health for dashboards
func (h *StatsHandler) GetSystemHealth(c *gin.Context) {
	utils.Success(c, gin.H{
		"status":    "ok",
		"cpu_usage": utils.GetCPUUsage(),
		"time":      time.Now(),
	})
}
