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

type EventsRepo struct {
	MongoCollection *mongo.Collection
}

func GetEventsRepo(client *mongo.Client) *EventsRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("EVENTS_COLLECTION", "events")
	return &EventsRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// CreateEvent inserts a new calendar event. Unset optional fields carry
// omitempty tags and never reach the document.
func (r *EventsRepo) CreateEvent(ctx context.Context, event *model.CalendarEvent) error {
	timer := utils.TrackDBOperation("insert", "events")
	defer timer.ObserveDuration()

	if event.UserID == "" {
		return errors.New("user ID is required")
	}

	_, err := r.MongoCollection.InsertOne(ctx, event)
	return err
}

// GetUserEvents retrieves all events for a user. Ordering is a
// presentation concern, none is applied here.
func (r *EventsRepo) GetUserEvents(ctx context.Context, userID string) ([]*model.CalendarEvent, error) {
	timer := utils.TrackDBOperation("find", "events")
	defer timer.ObserveDuration()

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*model.CalendarEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// eventUpdateDoc builds the $set document for a partial event update,
// stripping unset fields so explicit absence markers never reach the store.
func eventUpdateDoc(update *dto.EventUpdate) bson.M {
	set := bson.M{}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Date != nil {
		set["date"] = *update.Date
	}
	if update.Time != nil {
		set["time"] = *update.Time
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	return set
}

// UpdateEvent merges the provided fields. A missing event is a silent no-op.
func (r *EventsRepo) UpdateEvent(ctx context.Context, userID, eventID string, update *dto.EventUpdate) error {
	timer := utils.TrackDBOperation("update", "events")
	defer timer.ObserveDuration()

	set := eventUpdateDoc(update)
	if len(set) == 0 {
		return nil
	}

	filter := bson.M{
		"_id":     eventID,
		"user_id": userID,
	}

	_, err := r.MongoCollection.UpdateOne(ctx, filter, bson.M{"$set": set})
	return err
}

// DeleteEvent removes an event. Deleting an absent id is idempotent.
func (r *EventsRepo) DeleteEvent(ctx context.Context, userID, eventID string) error {
	timer := utils.TrackDBOperation("delete", "events")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     eventID,
		"user_id": userID,
	}

	_, err := r.MongoCollection.DeleteOne(ctx, filter)
	return err
}

// WatchUserEvents streams whole-collection snapshots to fn until cancelled.
func (r *EventsRepo) WatchUserEvents(ctx context.Context, userID string, fn func([]*model.CalendarEvent)) (func(), error) {
	return watchCollection(ctx, r.MongoCollection, "events", func(ctx context.Context) error {
		events, err := r.GetUserEvents(ctx, userID)
		if err != nil {
			return err
		}
		fn(events)
		return nil
	})
}
