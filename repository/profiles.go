package repository

import (
	"context"
	"os"

	"github.com/kriswind/everything-app/dto"
	"github.com/kriswind/everything-app/model"
	"github.com/kriswind/everything-app/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// profileDoc wraps the two per-user singleton documents (profile "main"
// and profile "dashboard") stored in one collection, keyed user_id + kind.
type profileDoc struct {
	ID        string                 `bson:"_id"`
	UserID    string                 `bson:"user_id"`
	Kind      string                 `bson:"kind"`
	Profile   *model.UserProfile     `bson:"profile,omitempty"`
	Dashboard *model.DashboardConfig `bson:"dashboard,omitempty"`
}

const (
	profileKindMain      = "main"
	profileKindDashboard = "dashboard"
)

type ProfilesRepo struct {
	MongoCollection *mongo.Collection
}

func GetProfilesRepo(client *mongo.Client) *ProfilesRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("PROFILES_COLLECTION", "profiles")
	return &ProfilesRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func profileDocID(userID, kind string) string {
	return userID + ":" + kind
}

func (r *ProfilesRepo) findDoc(ctx context.Context, userID, kind string) (*profileDoc, error) {
	timer := utils.TrackDBOperation("find", "profiles")
	defer timer.ObserveDuration()

	var doc profileDoc
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": profileDocID(userID, kind)}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (r *ProfilesRepo) replaceDoc(ctx context.Context, doc *profileDoc) error {
	timer := utils.TrackDBOperation("update", "profiles")
	defer timer.ObserveDuration()

	opts := options.Replace().SetUpsert(true)
	_, err := r.MongoCollection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

// GetProfile point-reads the profile singleton. An absent document is
// (nil, nil): "needs initialization", not an error.
func (r *ProfilesRepo) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	doc, err := r.findDoc(ctx, userID, profileKindMain)
	if err != nil || doc == nil {
		return nil, err
	}
	return doc.Profile, nil
}

// SetProfile writes the whole profile singleton, creating it if absent.
func (r *ProfilesRepo) SetProfile(ctx context.Context, userID string, profile *model.UserProfile) error {
	return r.replaceDoc(ctx, &profileDoc{
		ID:      profileDocID(userID, profileKindMain),
		UserID:  userID,
		Kind:    profileKindMain,
		Profile: profile,
	})
}

// profileUpdateDoc builds the $set document for a partial profile update.
func profileUpdateDoc(update *dto.ProfileUpdate) bson.M {
	set := bson.M{}
	if update.Name != nil {
		set["profile.name"] = *update.Name
	}
	if update.PhotoURL != nil {
		set["profile.photo_url"] = *update.PhotoURL
	}
	if update.About != nil {
		set["profile.about"] = *update.About
	}
	return set
}

// UpdateProfile shallow-merges into the profile singleton.
func (r *ProfilesRepo) UpdateProfile(ctx context.Context, userID string, update *dto.ProfileUpdate) error {
	timer := utils.TrackDBOperation("update", "profiles")
	defer timer.ObserveDuration()

	set := profileUpdateDoc(update)
	if len(set) == 0 {
		return nil
	}

	_, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"_id": profileDocID(userID, profileKindMain)},
		bson.M{"$set": set})
	return err
}

// GetDashboard point-reads the dashboard singleton, (nil, nil) when absent.
func (r *ProfilesRepo) GetDashboard(ctx context.Context, userID string) (*model.DashboardConfig, error) {
	doc, err := r.findDoc(ctx, userID, profileKindDashboard)
	if err != nil || doc == nil {
		return nil, err
	}
	return doc.Dashboard, nil
}

// SetDashboard replaces the dashboard singleton, creating it if absent.
func (r *ProfilesRepo) SetDashboard(ctx context.Context, userID string, config *model.DashboardConfig) error {
	return r.replaceDoc(ctx, &profileDoc{
		ID:        profileDocID(userID, profileKindDashboard),
		UserID:    userID,
		Kind:      profileKindDashboard,
		Dashboard: config,
	})
}
