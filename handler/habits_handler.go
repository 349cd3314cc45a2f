package handler

import (
	"strconv"
	"time"

	"main/dto"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type HabitsHandler struct {
	service *usecase.HabitsService
}

func NewHabitsHandler(service *usecase.HabitsService) *HabitsHandler {
	return &HabitsHandler{service: service}
}

func (h *HabitsHandler) CreateHabit(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req struct {
		Name        string `json:"habit_name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	habit, err := h.service.CreateHabit(c.Request.Context(), userID.(string), req.Name, req.Description)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Created(c, dto.ToHabitResponse(habit))
}

// GetUserHabits lists the user's habits projected onto a date. The date
// query parameter defaults to today.
func (h *HabitsHandler) GetUserHabits(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := utils.ParseDayKey(raw)
		if err != nil {
			utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	habits := h.service.HabitsForDate(c.Request.Context(), userID.(string), date)
	utils.Success(c, gin.H{
		"date":     utils.DayKey(date),
		"editable": h.service.IsEditable(date),
		"habits":   dto.ToHabitResponses(habits),
	})
}

func (h *HabitsHandler) UpdateHabit(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	habitID := c.Param("id")
	if habitID == "" {
		utils.BadRequest(c, "Missing habit ID")
		return
	}

	var req struct {
		Name        string `json:"habit_name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.service.RenameHabit(c.Request.Context(), userID.(string), habitID, req.Name, req.Description); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Success(c, gin.H{"message": "Habit updated"})
}

// ToggleCompletion flips the habit's completion for a day within the
// editable window. Dates outside the window and unknown ids change nothing;
// the response carries the untouched state rather than an error.
func (h *HabitsHandler) ToggleCompletion(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	habitID := c.Param("id")
	if habitID == "" {
		utils.BadRequest(c, "Missing habit ID")
		return
	}

	var req struct {
		Date string `json:"date" binding:"required,daykey"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	date, err := utils.ParseDayKey(req.Date)
	if err != nil {
		utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	habit, err := h.service.ToggleCompletion(c.Request.Context(), userID.(string), habitID, date)
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}
	if habit == nil {
		utils.Success(c, gin.H{
			"changed":  false,
			"editable": h.service.IsEditable(date),
		})
		return
	}

	utils.Success(c, gin.H{
		"changed": true,
		"habit":   dto.ToHabitResponse(habit),
	})
}

func (h *HabitsHandler) DeleteHabit(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	habitID := c.Param("id")
	if habitID == "" {
		utils.BadRequest(c, "Missing habit ID")
		return
	}

	if err := h.service.DeleteHabit(c.Request.Context(), userID.(string), habitID); err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, gin.H{"message": "Habit deleted"})
}

// ReorderHabits updates the presentation-only list position
func (h *HabitsHandler) ReorderHabits(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req struct {
		FromIndex *int `json:"from_index" binding:"required"`
		ToIndex   *int `json:"to_index" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.service.ReorderHabits(c.Request.Context(), userID.(string), *req.FromIndex, *req.ToIndex); err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, gin.H{"message": "Order updated"})
}

func (h *HabitsHandler) GetHabitStreak(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	habitID := c.Param("id")
	stats := h.service.HabitStreak(c.Request.Context(), userID.(string), habitID)
	if stats == nil {
		utils.NotFound(c, "Habit not found")
		return
	}

	utils.Success(c, stats)
}

// GetCalendar renders one month as grid cells: leading filler days from the
// previous month followed by each actual day with its completion rate.
func (h *HabitsHandler) GetCalendar(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	now := time.Now()
	year, month, err := parseYearMonth(c, now)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	habits := h.service.HabitsForDate(c.Request.Context(), userID.(string), now)

	type calendarCell struct {
		Date   string  `json:"date"`
		Day    int     `json:"day"`
		Filler bool    `json:"filler"`
		Rate   float64 `json:"rate"`
	}

	grid := utils.MonthGrid(year, month)
	cells := make([]calendarCell, len(grid))
	for i, d := range grid {
		filler := d.Month() != month
		cell := calendarCell{
			Date:   utils.DayKey(d),
			Day:    d.Day(),
			Filler: filler,
		}
		if !filler {
			cell.Rate = usecase.CompletionRate(habits, d)
		}
		cells[i] = cell
	}

	utils.Success(c, gin.H{
		"year":  year,
		"month": int(month),
		"cells": cells,
		"stats": usecase.MonthStatsFor(habits, year, month),
	})
}

func parseYearMonth(c *gin.Context, fallback time.Time) (int, time.Month, error) {
	year := fallback.Year()
	month := fallback.Month()

	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, errInvalidYear
		}
		year = parsed
	}
	if raw := c.Query("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			return 0, 0, errInvalidMonth
		}
		month = time.Month(parsed)
	}
	return year, month, nil
}
