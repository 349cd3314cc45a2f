package repository

import (
	"context"
	"errors"
	"main/model"
	"main/utils"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type HabitsRepo struct {
	MongoCollection *mongo.Collection
}

// Retrieves MongoDB collection for habits
func GetHabitsRepo(client *mongo.Client) *HabitsRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := os.Getenv("HABITS_COLLECTION")
	return &HabitsRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// Add a new habit (following the model) into the database
func (r *HabitsRepo) CreateHabit(ctx context.Context, habit *model.Habit) error {
	timer := utils.TrackDBOperation("insert", "habits")
	defer timer.ObserveDuration()

	if habit.UserID == "" {
		utils.TrackError("database", "missing_user_id")
		return errors.New("user ID is required")
	}

	_, err := r.MongoCollection.InsertOne(ctx, habit)
	if err != nil {
		utils.TrackError("database", "habit_creation_failed")
		return err
	}

	return nil
}

// Retrieves all habits based on the User ID
func (r *HabitsRepo) GetUserHabits(ctx context.Context, userID string) ([]*model.Habit, error) {
	timer := utils.TrackDBOperation("find", "habits")
	defer timer.ObserveDuration()

	var habits []*model.Habit
	cursor, err := r.MongoCollection.Find(ctx,
		bson.M{"user_id": userID})
	if err != nil {
		utils.TrackError("database", "habit_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &habits); err != nil {
		utils.TrackError("database", "habit_decode_failed")
		return nil, err
	}
	return habits, nil
}

// Retrieves a single habit owned by the user
func (r *HabitsRepo) GetHabitByID(ctx context.Context, userID string, habitID string) (*model.Habit, error) {
	timer := utils.TrackDBOperation("find", "habits")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     habitID,
		"user_id": userID,
	}

	var habit model.Habit
	err := r.MongoCollection.FindOne(ctx, filter).Decode(&habit)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "habit_fetch_failed")
		return nil, err
	}
	return &habit, nil
}

// Updates the name and description of a specific habit
func (r *HabitsRepo) UpdateHabit(ctx context.Context, habitID string, userID string, name string, description string) error {
	timer := utils.TrackDBOperation("update", "habits")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     habitID,
		"user_id": userID,
	}

	update := bson.M{
		"$set": bson.M{
			"habit_name":        name,
			"habit_description": description,
			"updated_at":        time.Now(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "habit_update_failed")
		return err
	}

	if result.MatchedCount == 0 {
		utils.TrackError("database", "habit_not_found")
		return errors.New("habit not found")
	}

	return nil
}

// Replaces the completion history of a habit with the given day keys
func (r *HabitsRepo) SetCompletionDates(ctx context.Context, habitID string, userID string, dates []string) error {
	timer := utils.TrackDBOperation("update", "habits")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     habitID,
		"user_id": userID,
	}

	update := bson.M{
		"$set": bson.M{
			"completion_dates": dates,
			"updated_at":       time.Now(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "habit_update_failed")
		return err
	}

	if result.MatchedCount == 0 {
		utils.TrackError("database", "habit_not_found")
		return errors.New("habit not found")
	}

	return nil
}

// Removes a specific habit from database
func (r *HabitsRepo) DeleteHabit(ctx context.Context, habitID string, userID string) error {
	timer := utils.TrackDBOperation("delete", "habits")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     habitID,
		"user_id": userID,
	}

	result, err := r.MongoCollection.DeleteOne(ctx, filter)
	if err != nil {
		utils.TrackError("database", "habit_deletion_failed")
		return err
	}

	if result.DeletedCount == 0 {
		utils.TrackError("database", "habit_not_found")
		return errors.New("habit not found")
	}

	return nil
}
