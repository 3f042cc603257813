package repository

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/kriswind/everything-app/dto"
	"github.com/kriswind/everything-app/model"
	"github.com/kriswind/everything-app/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotesRepo struct {
	MongoCollection *mongo.Collection
}

func GetNotesRepo(client *mongo.Client) *NotesRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("NOTES_COLLECTION", "notes")
	return &NotesRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// CreateNote inserts a new note document.
func (r *NotesRepo) CreateNote(ctx context.Context, note *model.Note) error {
	timer := utils.TrackDBOperation("insert", "notes")
	defer timer.ObserveDuration()

	if note.UserID == "" {
		return errors.New("user ID is required")
	}

	_, err := r.MongoCollection.InsertOne(ctx, note)
	return err
}

// GetUserNotes retrieves all notes for a user, most recently updated first.
func (r *NotesRepo) GetUserNotes(ctx context.Context, userID string) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notes []*model.Note
	if err = cursor.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// noteUpdateDoc builds the $set document for a partial note update. The
// updated_at stamp is always refreshed, even for an empty merge.
func noteUpdateDoc(update *dto.NoteUpdate, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Content != nil {
		set["content"] = *update.Content
	}
	return set
}

// UpdateNote merges the provided fields and refreshes updated_at. A missing
// note is a silent no-op.
func (r *NotesRepo) UpdateNote(ctx context.Context, userID, noteID string, update *dto.NoteUpdate) error {
	timer := utils.TrackDBOperation("update", "notes")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     noteID,
		"user_id": userID,
	}

	_, err := r.MongoCollection.UpdateOne(ctx, filter, bson.M{"$set": noteUpdateDoc(update, time.Now())})
	return err
}

// DeleteNote removes a note. Deleting an absent id is idempotent.
func (r *NotesRepo) DeleteNote(ctx context.Context, userID, noteID string) error {
	timer := utils.TrackDBOperation("delete", "notes")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     noteID,
		"user_id": userID,
	}

	_, err := r.MongoCollection.DeleteOne(ctx, filter)
	return err
}

// WatchUserNotes streams whole-collection snapshots to fn until cancelled.
func (r *NotesRepo) WatchUserNotes(ctx context.Context, userID string, fn func([]*model.Note)) (func(), error) {
	return watchCollection(ctx, r.MongoCollection, "notes", func(ctx context.Context) error {
		notes, err := r.GetUserNotes(ctx, userID)
		if err != nil {
			return err
		}
		fn(notes)
		return nil
	})
}
