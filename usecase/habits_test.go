package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"main/model"
	"main/utils"
)

// fakeHabitsRepo is an in-memory stand-in for the Mongo repository. It hands
// out deep copies so service-side mutations only reach it through the
// repository methods, the way a remote store behaves.
type fakeHabitsRepo struct {
	habits []*model.Habit

	failAll            bool
	createCalls        int
	setCompletionCalls int
	deleteCalls        int
}

var errRemoteDown = errors.New("remote store unreachable")

func (r *fakeHabitsRepo) CreateHabit(ctx context.Context, habit *model.Habit) error {
	r.createCalls++
	if r.failAll {
		return errRemoteDown
	}
	r.habits = append(r.habits, copyHabit(habit))
	return nil
}

func (r *fakeHabitsRepo) GetUserHabits(ctx context.Context, userID string) ([]*model.Habit, error) {
	if r.failAll {
		return nil, errRemoteDown
	}
	var out []*model.Habit
	for _, h := range r.habits {
		if h.UserID == userID {
			out = append(out, copyHabit(h))
		}
	}
	return out, nil
}

func (r *fakeHabitsRepo) GetHabitByID(ctx context.Context, userID string, habitID string) (*model.Habit, error) {
	if r.failAll {
		return nil, errRemoteDown
	}
	for _, h := range r.habits {
		if h.UserID == userID && h.HabitID == habitID {
			return copyHabit(h), nil
		}
	}
	return nil, nil
}

func (r *fakeHabitsRepo) UpdateHabit(ctx context.Context, habitID string, userID string, name string, description string) error {
	if r.failAll {
		return errRemoteDown
	}
	for _, h := range r.habits {
		if h.HabitID == habitID && h.UserID == userID {
			h.Name = name
			h.Description = description
			return nil
		}
	}
	return errors.New("habit not found")
}

func (r *fakeHabitsRepo) SetCompletionDates(ctx context.Context, habitID string, userID string, dates []string) error {
	r.setCompletionCalls++
	if r.failAll {
		return errRemoteDown
	}
	for _, h := range r.habits {
		if h.HabitID == habitID && h.UserID == userID {
			h.CompletionDates = append([]string(nil), dates...)
			return nil
		}
	}
	return errors.New("habit not found")
}

func (r *fakeHabitsRepo) DeleteHabit(ctx context.Context, habitID string, userID string) error {
	r.deleteCalls++
	if r.failAll {
		return errRemoteDown
	}
	for i, h := range r.habits {
		if h.HabitID == habitID && h.UserID == userID {
			r.habits = append(r.habits[:i], r.habits[i+1:]...)
			return nil
		}
	}
	return errors.New("habit not found")
}

// fakeMirror is an in-memory stand-in for the Redis mirror.
type fakeMirror struct {
	habits      map[string][]*model.Habit
	order       map[string][]string
	projections map[string][]*model.Habit
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{
		habits:      make(map[string][]*model.Habit),
		order:       make(map[string][]string),
		projections: make(map[string][]*model.Habit),
	}
}

func (m *fakeMirror) SetUserHabits(userID string, habits []*model.Habit) error {
	m.habits[userID] = habits
	return nil
}

func (m *fakeMirror) GetUserHabits(userID string) ([]*model.Habit, error) {
	return m.habits[userID], nil
}

func (m *fakeMirror) SetHabitOrder(userID string, habitIDs []string) error {
	m.order[userID] = habitIDs
	return nil
}

func (m *fakeMirror) GetHabitOrder(userID string) ([]string, error) {
	return m.order[userID], nil
}

func (m *fakeMirror) SetDayProjection(userID, dayKey string, habits []*model.Habit) error {
	m.projections[userID+":"+dayKey] = habits
	return nil
}

func (m *fakeMirror) GetDayProjection(userID, dayKey string) ([]*model.Habit, error) {
	return m.projections[userID+":"+dayKey], nil
}

func (m *fakeMirror) InvalidateUserProjections(userID string) {
	for key := range m.projections {
		if strings.HasPrefix(key, userID+":") {
			delete(m.projections, key)
		}
	}
}

func copyHabit(h *model.Habit) *model.Habit {
	dup := *h
	dup.CompletionDates = append([]string(nil), h.CompletionDates...)
	return &dup
}

func newTestService(repo *fakeHabitsRepo, mirror *fakeMirror, now time.Time) *HabitsService {
	svc := NewHabitsService(repo, mirror)
	svc.now = func() time.Time { return now }
	return svc
}

const testUser = "user-1"

func TestIsEditable(t *testing.T) {
	now := time.Date(2025, 6, 20, 15, 0, 0, 0, time.Local)
	svc := newTestService(&fakeHabitsRepo{}, newFakeMirror(), now)

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"Today", now, true},
		{"Today at midnight", time.Date(2025, 6, 20, 0, 0, 0, 0, time.Local), true},
		{"One day back", now.AddDate(0, 0, -1), true},
		{"Two days back", now.AddDate(0, 0, -2), true},
		{"Three days back", now.AddDate(0, 0, -3), false},
		{"Tomorrow", now.AddDate(0, 0, 1), false},
		{"Far future", now.AddDate(0, 1, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.IsEditable(tt.date); got != tt.want {
				t.Errorf("IsEditable(%v) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestCreateHabit(t *testing.T) {
	now := time.Date(2025, 6, 20, 15, 0, 0, 0, time.Local)

	t.Run("Remote success", func(t *testing.T) {
		repo := &fakeHabitsRepo{}
		mirror := newFakeMirror()
		svc := newTestService(repo, mirror, now)

		habit, err := svc.CreateHabit(context.Background(), testUser, "Morning run", "5k before work")
		if err != nil {
			t.Fatalf("CreateHabit failed: %v", err)
		}
		if habit.HabitID == "" || strings.HasPrefix(habit.HabitID, "local-") {
			t.Errorf("expected a server-assigned id, got %q", habit.HabitID)
		}
		if len(habit.CompletionDates) != 0 {
			t.Errorf("new habit should have empty completion history")
		}
		if len(repo.habits) != 1 {
			t.Errorf("repo should hold the habit, has %d", len(repo.habits))
		}
		if len(mirror.habits[testUser]) != 1 {
			t.Errorf("mirror should hold the habit, has %d", len(mirror.habits[testUser]))
		}
	})

	t.Run("Remote failure degrades to mirror-only", func(t *testing.T) {
		repo := &fakeHabitsRepo{failAll: true}
		mirror := newFakeMirror()
		svc := newTestService(repo, mirror, now)

		habit, err := svc.CreateHabit(context.Background(), testUser, "Meditate", "")
		if err != nil {
			t.Fatalf("CreateHabit must not fail on remote errors, got: %v", err)
		}
		if !strings.HasPrefix(habit.HabitID, "local-") {
			t.Errorf("expected a locally-generated fallback id, got %q", habit.HabitID)
		}
		if len(mirror.habits[testUser]) != 1 {
			t.Errorf("mirror should hold the habit, has %d", len(mirror.habits[testUser]))
		}
	})

	t.Run("Empty name rejected", func(t *testing.T) {
		svc := newTestService(&fakeHabitsRepo{}, newFakeMirror(), now)
		if _, err := svc.CreateHabit(context.Background(), testUser, "   ", ""); err == nil {
			t.Error("expected error for blank habit name")
		}
	})
}

func TestToggleCompletion(t *testing.T) {
	now := time.Date(2025, 6, 20, 15, 0, 0, 0, time.Local)
	created := now.AddDate(0, 0, -10)

	seed := func() (*fakeHabitsRepo, *fakeMirror, *HabitsService) {
		repo := &fakeHabitsRepo{habits: []*model.Habit{{
			HabitID:         "h1",
			UserID:          testUser,
			Name:            "Read",
			CreatedAt:       created,
			CompletionDates: []string{},
		}}}
		mirror := newFakeMirror()
		return repo, mirror, newTestService(repo, mirror, now)
	}

	t.Run("Toggle adds and projects completed", func(t *testing.T) {
		repo, _, svc := seed()

		habit, err := svc.ToggleCompletion(context.Background(), testUser, "h1", now)
		if err != nil {
			t.Fatalf("ToggleCompletion failed: %v", err)
		}
		if habit == nil {
			t.Fatal("expected a changed habit")
		}
		if !habit.Completed {
			t.Error("habit should project completed for today")
		}
		if !habit.HasCompletion(utils.DayKey(now)) {
			t.Error("today's day key should be in the completion set")
		}
		if repo.setCompletionCalls != 1 {
			t.Errorf("expected one remote sync, got %d", repo.setCompletionCalls)
		}
	})

	t.Run("Toggling twice restores the original state", func(t *testing.T) {
		repo, mirror, svc := seed()

		if _, err := svc.ToggleCompletion(context.Background(), testUser, "h1", now); err != nil {
			t.Fatal(err)
		}
		habit, err := svc.ToggleCompletion(context.Background(), testUser, "h1", now)
		if err != nil {
			t.Fatal(err)
		}
		if habit == nil {
			t.Fatal("expected a changed habit")
		}
		if len(habit.CompletionDates) != 0 {
			t.Errorf("completion set should be back to empty, got %v", habit.CompletionDates)
		}
		if len(repo.habits[0].CompletionDates) != 0 {
			t.Errorf("repo completion set should be back to empty, got %v", repo.habits[0].CompletionDates)
		}
		if len(mirror.habits[testUser][0].CompletionDates) != 0 {
			t.Errorf("mirror completion set should be back to empty")
		}
	})

	t.Run("Date outside editable window is a no-op", func(t *testing.T) {
		repo, _, svc := seed()

		habit, err := svc.ToggleCompletion(context.Background(), testUser, "h1", now.AddDate(0, 0, -3))
		if err != nil {
			t.Fatal(err)
		}
		if habit != nil {
			t.Error("expected no-op for a date outside the editable window")
		}
		if repo.setCompletionCalls != 0 {
			t.Errorf("remote must not be touched, got %d calls", repo.setCompletionCalls)
		}
	})

	t.Run("Unknown id is a no-op", func(t *testing.T) {
		repo, _, svc := seed()

		habit, err := svc.ToggleCompletion(context.Background(), testUser, "nope", now)
		if err != nil {
			t.Fatal(err)
		}
		if habit != nil {
			t.Error("expected no-op for unknown habit id")
		}
		if repo.setCompletionCalls != 0 {
			t.Errorf("remote must not be touched, got %d calls", repo.setCompletionCalls)
		}
	})

	t.Run("Remote failure still flips local state", func(t *testing.T) {
		repo, mirror, svc := seed()
		// Seed the mirror, then take the remote down
		if _, err := svc.ToggleCompletion(context.Background(), testUser, "h1", now.AddDate(0, 0, -1)); err != nil {
			t.Fatal(err)
		}
		repo.failAll = true

		habit, err := svc.ToggleCompletion(context.Background(), testUser, "h1", now)
		if err != nil {
			t.Fatalf("ToggleCompletion must not fail on remote errors, got: %v", err)
		}
		if habit == nil {
			t.Fatal("expected a changed habit")
		}
		stored := mirror.habits[testUser][0]
		if !stored.HasCompletion(utils.DayKey(now)) {
			t.Error("mirror should carry the toggled day")
		}
	})
}

func TestDeleteHabit(t *testing.T) {
	now := time.Date(2025, 6, 20, 15, 0, 0, 0, time.Local)
	repo := &fakeHabitsRepo{habits: []*model.Habit{{
		HabitID:   "h1",
		UserID:    testUser,
		Name:      "Read",
		CreatedAt: now.AddDate(0, 0, -5),
	}}}
	mirror := newFakeMirror()
	mirror.habits[testUser] = []*model.Habit{copyHabit(repo.habits[0])}
	svc := newTestService(repo, mirror, now)

	// Remote delete fails but the habit must still leave the mirror
	repo.failAll = true
	if err := svc.DeleteHabit(context.Background(), testUser, "h1"); err != nil {
		t.Fatalf("DeleteHabit must not fail on remote errors, got: %v", err)
	}
	if repo.deleteCalls != 1 {
		t.Errorf("expected exactly one remote delete attempt, got %d", repo.deleteCalls)
	}
	for _, h := range mirror.habits[testUser] {
		if h.HabitID == "h1" {
			t.Error("habit should be removed from the mirror")
		}
	}
}

func TestReorderHabits(t *testing.T) {
	now := time.Date(2025, 6, 20, 15, 0, 0, 0, time.Local)
	repo := &fakeHabitsRepo{habits: []*model.Habit{
		{HabitID: "a", UserID: testUser, Name: "A", CreatedAt: now},
		{HabitID: "b", UserID: testUser, Name: "B", CreatedAt: now},
		{HabitID: "c", UserID: testUser, Name: "C", CreatedAt: now},
	}}
	mirror := newFakeMirror()
	svc := newTestService(repo, mirror, now)

	if err := svc.ReorderHabits(context.Background(), testUser, 0, 2); err != nil {
		t.Fatalf("ReorderHabits failed: %v", err)
	}

	want := []string{"b", "c", "a"}
	got := mirror.order[testUser]
	if len(got) != len(want) {
		t.Fatalf("order length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	// The mirrored order drives subsequent reads
	habits := svc.HabitsForDate(context.Background(), testUser, now)
	for i := range want {
		if habits[i].HabitID != want[i] {
			t.Errorf("habits[%d] = %s, want %s", i, habits[i].HabitID, want[i])
		}
	}

	// Out-of-range indices change nothing
	if err := svc.ReorderHabits(context.Background(), testUser, 5, 0); err != nil {
		t.Fatal(err)
	}
	if got := mirror.order[testUser]; got[0] != "b" {
		t.Errorf("out-of-range reorder should be a no-op, order = %v", got)
	}
}

func TestHabitsForDate(t *testing.T) {
	now := time.Date(2025, 6, 20, 15, 0, 0, 0, time.Local)
	yesterday := now.AddDate(0, 0, -1)

	repo := &fakeHabitsRepo{habits: []*model.Habit{{
		HabitID:         "h1",
		UserID:          testUser,
		Name:            "Read",
		CreatedAt:       now.AddDate(0, 0, -5),
		CompletionDates: []string{utils.DayKey(yesterday)},
	}}}
	mirror := newFakeMirror()
	svc := newTestService(repo, mirror, now)

	today := svc.HabitsForDate(context.Background(), testUser, now)
	if len(today) != 1 || today[0].Completed {
		t.Errorf("habit should not project completed for today")
	}

	past := svc.HabitsForDate(context.Background(), testUser, yesterday)
	if len(past) != 1 || !past[0].Completed {
		t.Errorf("habit should project completed for yesterday")
	}
}

func TestMutationsRefreshDayProjection(t *testing.T) {
	now := time.Date(2025, 6, 20, 15, 0, 0, 0, time.Local)
	repo := &fakeHabitsRepo{habits: []*model.Habit{{
		HabitID:         "h1",
		UserID:          testUser,
		Name:            "Read",
		CreatedAt:       now.AddDate(0, 0, -5),
		CompletionDates: []string{},
	}}}
	mirror := newFakeMirror()
	svc := newTestService(repo, mirror, now)

	// Prime today's cached view
	if habits := svc.HabitsForDate(context.Background(), testUser, now); len(habits) != 1 {
		t.Fatalf("expected 1 habit before mutations, got %d", len(habits))
	}

	created, err := svc.CreateHabit(context.Background(), testUser, "Meditate", "")
	if err != nil {
		t.Fatal(err)
	}
	habits := svc.HabitsForDate(context.Background(), testUser, now)
	if len(habits) != 2 {
		t.Fatalf("today's view should include the new habit, got %d habits", len(habits))
	}

	if err := svc.RenameHabit(context.Background(), testUser, created.HabitID, "Meditate daily", ""); err != nil {
		t.Fatal(err)
	}
	if renamed := findHabit(svc.HabitsForDate(context.Background(), testUser, now), created.HabitID); renamed == nil || renamed.Name != "Meditate daily" {
		t.Error("today's view should carry the renamed habit")
	}

	if err := svc.DeleteHabit(context.Background(), testUser, created.HabitID); err != nil {
		t.Fatal(err)
	}
	habits = svc.HabitsForDate(context.Background(), testUser, now)
	if len(habits) != 1 {
		t.Fatalf("today's view should drop the deleted habit, got %d habits", len(habits))
	}
	if findHabit(habits, created.HabitID) != nil {
		t.Error("deleted habit still served in today's view")
	}
}

func TestMirrorFallbackRead(t *testing.T) {
	now := time.Date(2025, 6, 20, 15, 0, 0, 0, time.Local)

	repo := &fakeHabitsRepo{failAll: true}
	mirror := newFakeMirror()
	mirror.habits[testUser] = []*model.Habit{{
		HabitID:         "h1",
		UserID:          testUser,
		Name:            "Read",
		CreatedAt:       now.AddDate(0, 0, -5),
		CompletionDates: []string{utils.DayKey(now)},
	}}
	svc := newTestService(repo, mirror, now)

	habits := svc.HabitsForDate(context.Background(), testUser, now)
	if len(habits) != 1 {
		t.Fatalf("expected the mirrored habit, got %d habits", len(habits))
	}
	if !habits[0].Completed {
		t.Error("mirrored habit should project completed for today")
	}

	if rate := svc.TodayRate(context.Background(), testUser); rate != 100 {
		t.Errorf("TodayRate = %v, want 100", rate)
	}
}

func TestHabitStreakUnknownID(t *testing.T) {
	now := time.Date(2025, 6, 20, 15, 0, 0, 0, time.Local)
	svc := newTestService(&fakeHabitsRepo{}, newFakeMirror(), now)

	if stats := svc.HabitStreak(context.Background(), testUser, "nope"); stats != nil {
		t.Errorf("expected nil for unknown habit, got %+v", stats)
	}
}
