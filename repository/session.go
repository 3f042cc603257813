package repository

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/kriswind/everything-app/model"
	"github.com/kriswind/everything-app/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SessionRepo struct {
	MongoCollection *mongo.Collection
}

func GetSessionRepo(client *mongo.Client) *SessionRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("SESSION_COLLECTION", "sessions")
	return &SessionRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *SessionRepo) CreateSession(ctx context.Context, session *model.Session) error {
	timer := utils.TrackDBOperation("insert", "sessions")
	defer timer.ObserveDuration()

	if session.SessionID == "" || session.UserID == "" {
		return errors.New("session ID and user ID are required")
	}

	_, err := r.MongoCollection.InsertOne(ctx, session)
	return err
}

func (r *SessionRepo) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	timer := utils.TrackDBOperation("find", "sessions")
	defer timer.ObserveDuration()

	var session model.Session
	err := r.MongoCollection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepo) UpdateSession(ctx context.Context, session *model.Session) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.ReplaceOne(ctx,
		bson.M{"session_id": session.SessionID}, session)
	return err
}

func (r *SessionRepo) GetUserActiveSessions(ctx context.Context, userID string) ([]*model.Session, error) {
	timer := utils.TrackDBOperation("find", "sessions")
	defer timer.ObserveDuration()

	filter := bson.M{
		"user_id":    userID,
		"is_active":  true,
		"expires_at": bson.M{"$gt": time.Now()},
	}

	cursor, err := r.MongoCollection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*model.Session
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SessionRepo) CountActiveSessions(ctx context.Context, userID string) (int, error) {
	timer := utils.TrackDBOperation("count", "sessions")
	defer timer.ObserveDuration()

	filter := bson.M{
		"user_id":    userID,
		"is_active":  true,
		"expires_at": bson.M{"$gt": time.Now()},
	}

	count, err := r.MongoCollection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// EndSession marks a single session inactive.
func (r *SessionRepo) EndSession(ctx context.Context, sessionID string) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	update := bson.M{"$set": bson.M{"is_active": false}}
	_, err := r.MongoCollection.UpdateOne(ctx, bson.M{"session_id": sessionID}, update)
	return err
}

// EndLeastActiveSession retires the session with the oldest activity when
// the per-user session limit is hit.
func (r *SessionRepo) EndLeastActiveSession(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID, "is_active": true}
	opts := options.FindOne().SetSort(bson.D{{Key: "last_activity_at", Value: 1}})

	var session model.Session
	if err := r.MongoCollection.FindOne(ctx, filter, opts).Decode(&session); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil
		}
		return err
	}

	return r.EndSession(ctx, session.SessionID)
}

// EndAllUserSessions marks every session of the user inactive.
func (r *SessionRepo) EndAllUserSessions(ctx context.Context, userID string) (int64, error) {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	update := bson.M{"$set": bson.M{"is_active": false}}
	result, err := r.MongoCollection.UpdateMany(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}
