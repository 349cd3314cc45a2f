package usecase

import (
	"context"
	"errors"
	"log"
	"main/model"
	"main/utils"
	"time"

	"github.com/google/uuid"
)

// EditableWindowDays is how many days back from today completion history may
// still be toggled. The editable window is [today-2, today] inclusive.
const EditableWindowDays = 2

// HabitsRepository is the remote (Mongo) side of the habit store.
type HabitsRepository interface {
	CreateHabit(ctx context.Context, habit *model.Habit) error
	GetUserHabits(ctx context.Context, userID string) ([]*model.Habit, error)
	GetHabitByID(ctx context.Context, userID string, habitID string) (*model.Habit, error)
	UpdateHabit(ctx context.Context, habitID string, userID string, name string, description string) error
	SetCompletionDates(ctx context.Context, habitID string, userID string, dates []string) error
	DeleteHabit(ctx context.Context, habitID string, userID string) error
}

// HabitMirror is the local (Redis) side. Every mutation writes through to it
// after the remote attempt; reads fall back to it when the remote store is
// unreachable.
type HabitMirror interface {
	SetUserHabits(userID string, habits []*model.Habit) error
	GetUserHabits(userID string) ([]*model.Habit, error)
	SetHabitOrder(userID string, habitIDs []string) error
	GetHabitOrder(userID string) ([]string, error)
	SetDayProjection(userID, dayKey string, habits []*model.Habit) error
	GetDayProjection(userID, dayKey string) ([]*model.Habit, error)
	InvalidateUserProjections(userID string)
}

// HabitsService owns the habit collection for each user and funnels every
// mutation. Remote failures degrade to mirror-only operation and are never
// surfaced to the caller; the worst case is silent divergence between Mongo
// and the mirror, with the mirror winning for the session. Each operation
// attempts the remote write exactly once, with no retry and no version
// check (last write wins).
type HabitsService struct {
	repo   HabitsRepository
	mirror HabitMirror

	// now is swappable for tests
	now func() time.Time
}

func NewHabitsService(repo HabitsRepository, mirror HabitMirror) *HabitsService {
	return &HabitsService{
		repo:   repo,
		mirror: mirror,
		now:    time.Now,
	}
}

// IsEditable reports whether completion history for the given date may be
// mutated: not in the future and at most EditableWindowDays before today.
func (svc *HabitsService) IsEditable(date time.Time) bool {
	now := svc.now()
	key := utils.DayKey(date)
	today := utils.DayKey(now)
	floor := utils.DayKey(now.AddDate(0, 0, -EditableWindowDays))
	return key >= floor && key <= today
}

// getHabits loads the user's collection from Mongo, falling back to the
// mirror when the remote store is unreachable. Mirror ordering is applied
// in both cases.
func (svc *HabitsService) getHabits(ctx context.Context, userID string) []*model.Habit {
	habits, err := svc.repo.GetUserHabits(ctx, userID)
	if err != nil {
		log.Printf("Remote habit fetch failed for user %s, using mirror: %v", userID, err)
		utils.TrackMirrorFallback("fetch")
		habits, err = svc.mirror.GetUserHabits(userID)
		if err != nil {
			log.Printf("Mirror habit fetch failed for user %s: %v", userID, err)
			return nil
		}
	}
	return svc.applyOrder(userID, habits)
}

// applyOrder sorts habits by the mirrored presentation order. Habits absent
// from the order list keep their relative position at the end.
func (svc *HabitsService) applyOrder(userID string, habits []*model.Habit) []*model.Habit {
	order, err := svc.mirror.GetHabitOrder(userID)
	if err != nil || len(order) == 0 {
		return habits
	}

	byID := make(map[string]*model.Habit, len(habits))
	for _, h := range habits {
		byID[h.HabitID] = h
	}

	ordered := make([]*model.Habit, 0, len(habits))
	for _, id := range order {
		if h, ok := byID[id]; ok {
			ordered = append(ordered, h)
			delete(byID, id)
		}
	}
	for _, h := range habits {
		if _, ok := byID[h.HabitID]; ok {
			ordered = append(ordered, h)
		}
	}
	return ordered
}

// CreateHabit assigns id and creation time and persists the habit. When the
// remote insert fails the habit gets a locally-generated id and lives in the
// mirror alone; the operation degrades rather than erroring the caller.
func (svc *HabitsService) CreateHabit(ctx context.Context, userID string, name string, description string) (*model.Habit, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	if !utils.ValidateHabitName(name) {
		return nil, errors.New("habit name is required")
	}

	now := svc.now()
	habit := &model.Habit{
		HabitID:         uuid.New().String(),
		UserID:          userID,
		Name:            name,
		Description:     description,
		CreatedAt:       now,
		UpdatedAt:       now,
		CompletionDates: []string{},
	}

	if err := svc.repo.CreateHabit(ctx, habit); err != nil {
		log.Printf("Remote habit create failed for user %s, mirror-only: %v", userID, err)
		utils.TrackMirrorFallback("create")
		habit.HabitID = utils.GenerateLocalID()
	}
	utils.TrackHabitOperation("create")

	habits := append(svc.getHabits(ctx, userID), habit)
	habits = dedupeByID(habits)
	svc.mirrorHabits(userID, habits)

	return habit, nil
}

// RenameHabit updates the display fields. An unknown id is a silent no-op.
// Local state updates regardless of remote outcome.
func (svc *HabitsService) RenameHabit(ctx context.Context, userID string, habitID string, name string, description string) error {
	if !utils.ValidateHabitName(name) {
		return errors.New("habit name is required")
	}

	habits := svc.getHabits(ctx, userID)
	habit := findHabit(habits, habitID)
	if habit == nil {
		return nil
	}

	habit.Name = name
	habit.Description = description
	habit.UpdatedAt = svc.now()

	if err := svc.repo.UpdateHabit(ctx, habitID, userID, name, description); err != nil {
		log.Printf("Remote habit rename failed for %s, mirror-only: %v", habitID, err)
		utils.TrackMirrorFallback("rename")
	}
	utils.TrackHabitOperation("rename")

	svc.mirrorHabits(userID, habits)
	return nil
}

// ToggleCompletion flips membership of the date's day key in the habit's
// completion history. A date outside the editable window or an unknown id is
// a silent no-op. Returns the updated habit, or nil when nothing changed.
func (svc *HabitsService) ToggleCompletion(ctx context.Context, userID string, habitID string, date time.Time) (*model.Habit, error) {
	if !svc.IsEditable(date) {
		return nil, nil
	}

	habits := svc.getHabits(ctx, userID)
	habit := findHabit(habits, habitID)
	if habit == nil {
		return nil, nil
	}

	dayKey := utils.DayKey(date)
	added := habit.ToggleCompletion(dayKey)
	habit.UpdatedAt = svc.now()
	habit.Completed = habit.HasCompletion(utils.DayKey(svc.now()))

	if added {
		utils.TrackHabitCompletion(userID)
	}
	utils.TrackHabitOperation("toggle")

	if err := svc.repo.SetCompletionDates(ctx, habitID, userID, habit.CompletionDates); err != nil {
		log.Printf("Remote completion sync failed for %s, mirror-only: %v", habitID, err)
		utils.TrackMirrorFallback("toggle")
	}

	svc.mirrorHabits(userID, habits)

	return habit, nil
}

// DeleteHabit deletes remotely best-effort and always removes the habit from
// the mirrored collection.
func (svc *HabitsService) DeleteHabit(ctx context.Context, userID string, habitID string) error {
	if err := svc.repo.DeleteHabit(ctx, habitID, userID); err != nil {
		log.Printf("Remote habit delete failed for %s, mirror-only: %v", habitID, err)
		utils.TrackMirrorFallback("delete")
	}
	utils.TrackHabitOperation("delete")

	habits := svc.getHabits(ctx, userID)
	kept := habits[:0]
	for _, h := range habits {
		if h.HabitID != habitID {
			kept = append(kept, h)
		}
	}
	svc.mirrorHabits(userID, kept)
	return nil
}

// ReorderHabits moves the habit at fromIndex to toIndex. Ordering is a
// presentation-only concern kept in the mirror; it is never synced to Mongo.
// Out-of-range indices are a no-op.
func (svc *HabitsService) ReorderHabits(ctx context.Context, userID string, fromIndex, toIndex int) error {
	habits := svc.getHabits(ctx, userID)
	if fromIndex < 0 || fromIndex >= len(habits) || toIndex < 0 || toIndex >= len(habits) {
		return nil
	}

	moved := habits[fromIndex]
	habits = append(habits[:fromIndex], habits[fromIndex+1:]...)
	habits = append(habits[:toIndex], append([]*model.Habit{moved}, habits[toIndex:]...)...)

	ids := make([]string, len(habits))
	for i, h := range habits {
		ids[i] = h.HabitID
	}
	utils.TrackHabitOperation("reorder")

	if err := svc.mirror.SetHabitOrder(userID, ids); err != nil {
		log.Printf("Failed to mirror habit order for user %s: %v", userID, err)
	}
	svc.mirror.InvalidateUserProjections(userID)
	return nil
}

// HabitsForDate is the date-scoped read view: every habit with Completed
// projected from completion-set membership for that day. Today's view is
// served from the projection cache when present.
func (svc *HabitsService) HabitsForDate(ctx context.Context, userID string, date time.Time) []*model.Habit {
	dayKey := utils.DayKey(date)

	if cached, err := svc.mirror.GetDayProjection(userID, dayKey); err == nil && cached != nil {
		return cached
	}

	habits := svc.getHabits(ctx, userID)
	for _, h := range habits {
		h.Completed = h.HasCompletion(dayKey)
	}

	if err := svc.mirror.SetDayProjection(userID, dayKey, habits); err != nil {
		log.Printf("Failed to cache day projection for user %s: %v", userID, err)
	}
	return habits
}

// TodayRate returns the completion rate across the user's habits for today.
func (svc *HabitsService) TodayRate(ctx context.Context, userID string) float64 {
	return CompletionRate(svc.getHabits(ctx, userID), svc.now())
}

// MonthStats aggregates the user's daily completion rates for one month.
func (svc *HabitsService) MonthStats(ctx context.Context, userID string, year int, month time.Month) model.MonthStats {
	return MonthStatsFor(svc.getHabits(ctx, userID), year, month)
}

// HabitStreak returns streak statistics for one habit, or nil for an
// unknown id.
func (svc *HabitsService) HabitStreak(ctx context.Context, userID string, habitID string) *model.HabitStats {
	habit := findHabit(svc.getHabits(ctx, userID), habitID)
	if habit == nil {
		return nil
	}
	return &model.HabitStats{
		HabitID:        habit.HabitID,
		CurrentStreak:  CurrentStreak(habit.CompletionDates, svc.now()),
		TotalCompleted: len(habit.CompletionDates),
	}
}

// mirrorHabits writes the collection through to the mirror and drops every
// cached day projection for the user so read views recompute from the
// updated completion sets.
func (svc *HabitsService) mirrorHabits(userID string, habits []*model.Habit) {
	if err := svc.mirror.SetUserHabits(userID, habits); err != nil {
		log.Printf("Failed to mirror habits for user %s: %v", userID, err)
	}
	svc.mirror.InvalidateUserProjections(userID)
}

func findHabit(habits []*model.Habit, habitID string) *model.Habit {
	for _, h := range habits {
		if h.HabitID == habitID {
			return h
		}
	}
	return nil
}

func dedupeByID(habits []*model.Habit) []*model.Habit {
	seen := make(map[string]struct{}, len(habits))
	out := habits[:0]
	for _, h := range habits {
		if _, ok := seen[h.HabitID]; ok {
			continue
		}
		seen[h.HabitID] = struct{}{}
		out = append(out, h)
	}
	return out
}
