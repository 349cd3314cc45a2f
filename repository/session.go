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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SessionRepo struct {
	MongoCollection *mongo.Collection
}

func GetSessionRepo(client *mongo.Client) *SessionRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := os.Getenv("SESSION_COLLECTION")
	return &SessionRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *SessionRepo) CreateSession(session *model.Session) error {
	timer := utils.TrackDBOperation("insert", "sessions")
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.InsertOne(context.Background(), session)
	if err != nil {
		utils.TrackError("database", "session_creation_failed")
		return err
	}
	return nil
}

func (r *SessionRepo) GetSession(sessionID string) (*model.Session, error) {
	timer := utils.TrackDBOperation("find", "sessions")
	defer timer.ObserveDuration()

	var session model.Session
	err := r.MongoCollection.FindOne(context.Background(),
		bson.M{"session_id": sessionID}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("session not found")
		}
		utils.TrackError("database", "session_fetch_failed")
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepo) UpdateSession(session *model.Session) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	filter := bson.M{"session_id": session.SessionID}
	update := bson.M{"$set": bson.M{
		"last_activity_at": session.LastActivityAt,
		"is_active":        session.IsActive,
	}}

	_, err := r.MongoCollection.UpdateOne(context.Background(), filter, update)
	if err != nil {
		utils.TrackError("database", "session_update_failed")
		return err
	}
	return nil
}

func (r *SessionRepo) DeleteSession(sessionID string) error {
	timer := utils.TrackDBOperation("delete", "sessions")
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.DeleteOne(context.Background(),
		bson.M{"session_id": sessionID})
	if err != nil {
		utils.TrackError("database", "session_deletion_failed")
		return err
	}
	return nil
}

func (r *SessionRepo) GetUserActiveSessions(userID string) ([]*model.Session, error) {
	timer := utils.TrackDBOperation("find", "sessions")
	defer timer.ObserveDuration()

	filter := bson.M{
		"user_id":    userID,
		"is_active":  true,
		"expires_at": bson.M{"$gt": time.Now()},
	}

	var sessions []*model.Session
	cursor, err := r.MongoCollection.Find(context.Background(), filter)
	if err != nil {
		utils.TrackError("database", "session_fetch_failed")
		return nil, err
	}
	defer cursor.Close(context.Background())

	if err = cursor.All(context.Background(), &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SessionRepo) CountActiveSessions(userID string) (int, error) {
	count, err := r.MongoCollection.CountDocuments(context.Background(), bson.M{
		"user_id":    userID,
		"is_active":  true,
		"expires_at": bson.M{"$gt": time.Now()},
	})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// EndLeastActiveSession deactivates the session with the oldest activity,
// used to enforce the per-user session cap.
func (r *SessionRepo) EndLeastActiveSession(userID string) error {
	opts := options.FindOne().SetSort(bson.D{{Key: "last_activity_at", Value: 1}})

	var session model.Session
	err := r.MongoCollection.FindOne(context.Background(),
		bson.M{"user_id": userID, "is_active": true}, opts).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil
		}
		return err
	}

	session.IsActive = false
	return r.UpdateSession(&session)
}

// EndAllUserSessions deactivates every active session for the user
func (r *SessionRepo) EndAllUserSessions(userID string) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID, "is_active": true}
	update := bson.M{"$set": bson.M{"is_active": false}}

	_, err := r.MongoCollection.UpdateMany(context.Background(), filter, update)
	if err != nil {
		utils.TrackError("database", "session_update_failed")
		return err
	}
	return nil
}
