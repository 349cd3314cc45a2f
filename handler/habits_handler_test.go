package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"main/model"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// memHabitsRepo is a map-backed stand-in for the Mongo habit repository.
type memHabitsRepo struct {
	habits map[string]*model.Habit
}

func newMemHabitsRepo() *memHabitsRepo {
	return &memHabitsRepo{habits: make(map[string]*model.Habit)}
}

func (r *memHabitsRepo) CreateHabit(ctx context.Context, habit *model.Habit) error {
	r.habits[habit.HabitID] = habit
	return nil
}

func (r *memHabitsRepo) GetUserHabits(ctx context.Context, userID string) ([]*model.Habit, error) {
	var out []*model.Habit
	for _, h := range r.habits {
		if h.UserID == userID {
			dup := *h
			dup.CompletionDates = append([]string(nil), h.CompletionDates...)
			out = append(out, &dup)
		}
	}
	return out, nil
}

func (r *memHabitsRepo) GetHabitByID(ctx context.Context, userID string, habitID string) (*model.Habit, error) {
	if h, ok := r.habits[habitID]; ok && h.UserID == userID {
		return h, nil
	}
	return nil, nil
}

func (r *memHabitsRepo) UpdateHabit(ctx context.Context, habitID string, userID string, name string, description string) error {
	if h, ok := r.habits[habitID]; ok {
		h.Name = name
		h.Description = description
	}
	return nil
}

func (r *memHabitsRepo) SetCompletionDates(ctx context.Context, habitID string, userID string, dates []string) error {
	if h, ok := r.habits[habitID]; ok {
		h.CompletionDates = append([]string(nil), dates...)
	}
	return nil
}

func (r *memHabitsRepo) DeleteHabit(ctx context.Context, habitID string, userID string) error {
	delete(r.habits, habitID)
	return nil
}

// memMirror is a map-backed stand-in for the Redis mirror.
type memMirror struct {
	habits      map[string][]*model.Habit
	order       map[string][]string
	projections map[string][]*model.Habit
}

func newMemMirror() *memMirror {
	return &memMirror{
		habits:      make(map[string][]*model.Habit),
		order:       make(map[string][]string),
		projections: make(map[string][]*model.Habit),
	}
}

func (m *memMirror) SetUserHabits(userID string, habits []*model.Habit) error {
	m.habits[userID] = habits
	return nil
}

func (m *memMirror) GetUserHabits(userID string) ([]*model.Habit, error) {
	return m.habits[userID], nil
}

func (m *memMirror) SetHabitOrder(userID string, habitIDs []string) error {
	m.order[userID] = habitIDs
	return nil
}

func (m *memMirror) GetHabitOrder(userID string) ([]string, error) {
	return m.order[userID], nil
}

func (m *memMirror) SetDayProjection(userID, dayKey string, habits []*model.Habit) error {
	m.projections[userID+":"+dayKey] = habits
	return nil
}

func (m *memMirror) GetDayProjection(userID, dayKey string) ([]*model.Habit, error) {
	return m.projections[userID+":"+dayKey], nil
}

func (m *memMirror) InvalidateUserProjections(userID string) {
	for key := range m.projections {
		if strings.HasPrefix(key, userID+":") {
			delete(m.projections, key)
		}
	}
}

func setupHabitsRouter(repo *memHabitsRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	utils.InitValidator()

	svc := usecase.NewHabitsService(repo, newMemMirror())
	h := NewHabitsHandler(svc)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", "test-user")
		c.Next()
	})
	router.GET("/api/habits/", h.GetUserHabits)
	router.POST("/api/habits/", h.CreateHabit)
	router.POST("/api/habits/:id/toggle", h.ToggleCompletion)
	router.GET("/api/habits/:id/streak", h.GetHabitStreak)
	router.GET("/api/calendar", h.GetCalendar)
	return router
}

func decodeData(t *testing.T, body *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return envelope.Data
}

func TestGetUserHabitsProjectsDate(t *testing.T) {
	now := time.Now()
	yesterday := utils.DayKey(now.AddDate(0, 0, -1))

	repo := newMemHabitsRepo()
	repo.habits["h1"] = &model.Habit{
		HabitID:         "h1",
		UserID:          "test-user",
		Name:            "Read",
		CreatedAt:       now.AddDate(0, 0, -10),
		CompletionDates: []string{yesterday},
	}
	router := setupHabitsRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/habits/?date="+yesterday, nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	data := decodeData(t, w.Body)
	if data["date"] != yesterday {
		t.Errorf("date = %v, want %s", data["date"], yesterday)
	}
	if data["editable"] != true {
		t.Error("yesterday should be editable")
	}
	habits, ok := data["habits"].([]interface{})
	if !ok || len(habits) != 1 {
		t.Fatalf("expected one habit, got %v", data["habits"])
	}
	habit := habits[0].(map[string]interface{})
	if habit["completed"] != true {
		t.Error("habit should project completed for yesterday")
	}
}

func TestToggleCompletion(t *testing.T) {
	now := time.Now()
	repo := newMemHabitsRepo()
	repo.habits["h1"] = &model.Habit{
		HabitID:         "h1",
		UserID:          "test-user",
		Name:            "Read",
		CreatedAt:       now.AddDate(0, 0, -10),
		CompletionDates: []string{},
	}
	router := setupHabitsRouter(repo)

	toggle := func(dayKey string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(gin.H{"date": dayKey})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/habits/h1/toggle", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Today toggles on", func(t *testing.T) {
		w := toggle(utils.DayKey(now))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		data := decodeData(t, w.Body)
		if data["changed"] != true {
			t.Errorf("changed = %v, want true", data["changed"])
		}
	})

	t.Run("Outside editable window reports unchanged", func(t *testing.T) {
		w := toggle(utils.DayKey(now.AddDate(0, 0, -5)))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		data := decodeData(t, w.Body)
		if data["changed"] != false {
			t.Errorf("changed = %v, want false", data["changed"])
		}
		if data["editable"] != false {
			t.Errorf("editable = %v, want false", data["editable"])
		}
	})

	t.Run("Malformed date rejected", func(t *testing.T) {
		w := toggle("07/03/2025")
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestGetHabitStreakNotFound(t *testing.T) {
	router := setupHabitsRouter(newMemHabitsRepo())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/habits/missing/streak", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestGetCalendarGrid(t *testing.T) {
	router := setupHabitsRouter(newMemHabitsRepo())

	// February 2024: the 1st is a Thursday (4 leading filler cells), 29 days
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/calendar?year=2024&month=2", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	data := decodeData(t, w.Body)
	cells, ok := data["cells"].([]interface{})
	if !ok {
		t.Fatalf("expected cells array, got %v", data["cells"])
	}
	if len(cells) != 33 {
		t.Errorf("cell count = %d, want 33", len(cells))
	}

	fillers := 0
	for i, raw := range cells {
		cell := raw.(map[string]interface{})
		if cell["filler"] == true {
			fillers++
			if i >= 4 {
				t.Errorf("filler cell at position %d, expected only leading filler", i)
			}
		}
	}
	if fillers != 4 {
		t.Errorf("filler count = %d, want 4", fillers)
	}

	first := cells[4].(map[string]interface{})
	if first["date"] != "2024-02-01" {
		t.Errorf("first real cell = %v, want 2024-02-01", first["date"])
	}
	last := cells[len(cells)-1].(map[string]interface{})
	if last["date"] != "2024-02-29" {
		t.Errorf("last cell = %v, want 2024-02-29", last["date"])
	}

	if _, ok := data["stats"].(map[string]interface{}); !ok {
		t.Errorf("expected month stats in calendar payload")
	}
}

func TestCreateHabit(t *testing.T) {
	repo := newMemHabitsRepo()
	router := setupHabitsRouter(repo)

	body, _ := json.Marshal(gin.H{"habit_name": "Morning run", "description": "5k"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/habits/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if len(repo.habits) != 1 {
		t.Errorf("repo should hold one habit, has %d", len(repo.habits))
	}

	data := decodeData(t, w.Body)
	if data["habit_name"] != "Morning run" {
		t.Errorf("habit_name = %v, want Morning run", data["habit_name"])
	}
	if dates, ok := data["completion_dates"].([]interface{}); !ok || len(dates) != 0 {
		t.Errorf("new habit should have an empty completion history, got %v", data["completion_dates"])
	}
}
