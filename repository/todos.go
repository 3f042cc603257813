package repository

import (
	"context"
	"errors"
	"os"

	"github.com/kriswind/everything-app/model"
	"github.com/kriswind/everything-app/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TodosRepo struct {
	MongoCollection *mongo.Collection
}

func GetTodosRepo(client *mongo.Client) *TodosRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("TODOS_COLLECTION", "todos")
	return &TodosRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// CreateTodo inserts a new todo document.
func (r *TodosRepo) CreateTodo(ctx context.Context, todo *model.Todo) error {
	timer := utils.TrackDBOperation("insert", "todos")
	defer timer.ObserveDuration()

	if todo.UserID == "" {
		return errors.New("user ID is required")
	}

	_, err := r.MongoCollection.InsertOne(ctx, todo)
	return err
}

// GetUserTodos retrieves all todos for a user, newest first.
func (r *TodosRepo) GetUserTodos(ctx context.Context, userID string) ([]*model.Todo, error) {
	timer := utils.TrackDBOperation("find", "todos")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var todos []*model.Todo
	if err = cursor.All(ctx, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// SetCompleted writes an explicit completed value. A missing todo is a
// silent no-op.
func (r *TodosRepo) SetCompleted(ctx context.Context, userID, todoID string, completed bool) error {
	timer := utils.TrackDBOperation("update", "todos")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     todoID,
		"user_id": userID,
	}
	update := bson.M{
		"$set": bson.M{"completed": completed},
	}

	_, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	return err
}

// DeleteTodo removes a todo. Deleting an absent id is idempotent.
func (r *TodosRepo) DeleteTodo(ctx context.Context, userID, todoID string) error {
	timer := utils.TrackDBOperation("delete", "todos")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     todoID,
		"user_id": userID,
	}

	_, err := r.MongoCollection.DeleteOne(ctx, filter)
	return err
}

// WatchUserTodos streams whole-collection snapshots to fn until cancelled.
func (r *TodosRepo) WatchUserTodos(ctx context.Context, userID string, fn func([]*model.Todo)) (func(), error) {
	return watchCollection(ctx, r.MongoCollection, "todos", func(ctx context.Context) error {
		todos, err := r.GetUserTodos(ctx, userID)
		if err != nil {
			return err
		}
		fn(todos)
		return nil
	})
}
