package repository

import (
	"context"
	"errors"
	"os"

	"github.com/kriswind/everything-app/dto"
	"github.com/kriswind/everything-app/model"
	"github.com/kriswind/everything-app/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AlarmsRepo struct {
	MongoCollection *mongo.Collection
}

func GetAlarmsRepo(client *mongo.Client) *AlarmsRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("ALARMS_COLLECTION", "alarms")
	return &AlarmsRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// CreateAlarm inserts a new alarm document.
func (r *AlarmsRepo) CreateAlarm(ctx context.Context, alarm *model.Alarm) error {
	timer := utils.TrackDBOperation("insert", "alarms")
	defer timer.ObserveDuration()

	if alarm.UserID == "" {
		return errors.New("user ID is required")
	}

	_, err := r.MongoCollection.InsertOne(ctx, alarm)
	return err
}

// GetUserAlarms retrieves all alarms for a user, unordered.
func (r *AlarmsRepo) GetUserAlarms(ctx context.Context, userID string) ([]*model.Alarm, error) {
	timer := utils.TrackDBOperation("find", "alarms")
	defer timer.ObserveDuration()

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var alarms []*model.Alarm
	if err = cursor.All(ctx, &alarms); err != nil {
		return nil, err
	}
	return alarms, nil
}

// SetEnabled writes an explicit enabled value. A missing alarm is a silent
// no-op.
func (r *AlarmsRepo) SetEnabled(ctx context.Context, userID, alarmID string, enabled bool) error {
	timer := utils.TrackDBOperation("update", "alarms")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     alarmID,
		"user_id": userID,
	}
	update := bson.M{
		"$set": bson.M{"enabled": enabled},
	}

	_, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	return err
}

// alarmUpdateDoc builds the $set document for a partial alarm update.
func alarmUpdateDoc(update *dto.AlarmUpdate) bson.M {
	set := bson.M{}
	if update.Time != nil {
		set["time"] = *update.Time
	}
	if update.Label != nil {
		set["label"] = *update.Label
	}
	if update.Days != nil {
		set["days"] = *update.Days
	}
	return set
}

// UpdateAlarm merges the provided fields. A missing alarm is a silent no-op.
func (r *AlarmsRepo) UpdateAlarm(ctx context.Context, userID, alarmID string, update *dto.AlarmUpdate) error {
	timer := utils.TrackDBOperation("update", "alarms")
	defer timer.ObserveDuration()

	set := alarmUpdateDoc(update)
	if len(set) == 0 {
		return nil
	}

	filter := bson.M{
		"_id":     alarmID,
		"user_id": userID,
	}

	_, err := r.MongoCollection.UpdateOne(ctx, filter, bson.M{"$set": set})
	return err
}

// DeleteAlarm removes an alarm. Deleting an absent id is idempotent.
func (r *AlarmsRepo) DeleteAlarm(ctx context.Context, userID, alarmID string) error {
	timer := utils.TrackDBOperation("delete", "alarms")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     alarmID,
		"user_id": userID,
	}

	_, err := r.MongoCollection.DeleteOne(ctx, filter)
	return err
}

// WatchUserAlarms streams whole-collection snapshots to fn until cancelled.
func (r *AlarmsRepo) WatchUserAlarms(ctx context.Context, userID string, fn func([]*model.Alarm)) (func(), error) {
	return watchCollection(ctx, r.MongoCollection, "alarms", func(ctx context.Context) error {
		alarms, err := r.GetUserAlarms(ctx, userID)
		if err != nil {
			return err
		}
		fn(alarms)
		return nil
	})
}
