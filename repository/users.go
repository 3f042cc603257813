package repository

import (
	"context"
	"errors"
	"os"

	"github.com/kriswind/everything-app/model"
	"github.com/kriswind/everything-app/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepo struct {
	MongoCollection *mongo.Collection
}

func GetUserRepo(client *mongo.Client) *UserRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("USERS_COLLECTION", "users")
	return &UserRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *UserRepo) AddUser(ctx context.Context, user *model.User) error {
	timer := utils.TrackDBOperation("insert", "users")
	defer timer.ObserveDuration()

	if user.Username == "" || user.Password == "" {
		utils.TrackError("database", "invalid_user_data")
		return errors.New("username and password required")
	}

	if _, err := r.MongoCollection.InsertOne(ctx, user); err != nil {
		utils.TrackError("database", "user_creation_failed")
		return errors.New("failed to add user to database")
	}
	return nil
}

func (r *UserRepo) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	err := r.MongoCollection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindUser(ctx context.Context, userID string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	err := r.MongoCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) Enable2FA(ctx context.Context, userID, secret string) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	update := bson.M{
		"$set": bson.M{
			"two_factor_secret":  secret,
			"two_factor_enabled": true,
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		utils.TrackError("database", "2fa_enable_failed")
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("user not found")
	}
	return nil
}

func (r *UserRepo) Disable2FA(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	update := bson.M{
		"$set": bson.M{
			"two_factor_secret":  "",
			"two_factor_enabled": false,
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		utils.TrackError("database", "2fa_disable_failed")
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("user not found")
	}
	return nil
}

func (r *UserRepo) DeleteUser(ctx context.Context, userID string) (int64, error) {
	timer := utils.TrackDBOperation("delete", "users")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		utils.TrackError("database", "user_deletion_failed")
		return 0, err
	}
	return result.DeletedCount, nil
}
