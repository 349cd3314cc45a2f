package repository

import (
	"context"
	"errors"
	"os"
	"time"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UsersRepo struct {
	MongoCollection *mongo.Collection
}

func GetUsersRepo(client *mongo.Client) *UsersRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := os.Getenv("USERS_COLLECTION")
	return &UsersRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *UsersRepo) AddUser(ctx context.Context, user *model.User) error {
	timer := utils.TrackDBOperation("insert", "users")
	defer timer.ObserveDuration()

	if user.Username == "" || user.Password == "" {
		utils.TrackError("database", "invalid_user_data")
		return errors.New("username and password required")
	}

	_, err := r.MongoCollection.InsertOne(ctx, user)
	if err != nil {
		utils.TrackError("database", "user_creation_failed")
		return errors.New("failed to add user to database")
	}

	return nil
}

func (r *UsersRepo) FindUser(ctx context.Context, userID string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	filter := bson.D{{Key: "user_id", Value: userID}}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.TrackError("database", "user_not_found")
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UsersRepo) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	filter := bson.D{{Key: "username", Value: username}}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.TrackError("database", "user_not_found")
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UsersRepo) UpdateUserPassword(ctx context.Context, userID string, hashedPassword string) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID}
	update := bson.M{"$set": bson.M{"password": hashedPassword}}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "password_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("user not found")
	}
	return nil
}

func (r *UsersRepo) UpdateUserEmail(ctx context.Context, userID string, email string) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID}
	update := bson.M{"$set": bson.M{"email": email, "last_email_change": time.Now()}}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "email_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("user not found")
	}
	return nil
}

// EnableTwoFactor stores the TOTP secret and hashed recovery codes
func (r *UsersRepo) EnableTwoFactor(ctx context.Context, userID string, secret string, recoveryCodes []string) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID}
	update := bson.M{"$set": bson.M{
		"two_factor_enabled": true,
		"two_factor_secret":  secret,
		"recovery_codes":     recoveryCodes,
	}}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "two_factor_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("user not found")
	}
	return nil
}

func (r *UsersRepo) DisableTwoFactor(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID}
	update := bson.M{"$set": bson.M{
		"two_factor_enabled": false,
		"two_factor_secret":  "",
		"recovery_codes":     []string{},
	}}

	_, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "two_factor_update_failed")
		return err
	}
	return nil
}

func (r *UsersRepo) DeleteUser(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("delete", "users")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		utils.TrackError("database", "user_deletion_failed")
		return err
	}
	if result.DeletedCount == 0 {
		return errors.New("user not found")
	}
	return nil
}

// Ensure a unique index on username so duplicate registrations fail fast
func (r *UsersRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.MongoCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: nil,
	})
	return err
}
