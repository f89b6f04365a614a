package databases

// go generate: mockery --name UserDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/globnft/glob-rewards-api/models"
)

const userName = "users"

// UserDatabase contains the methods to use with the user database.
// Point balances are only ever changed through $inc updates so concurrent
// credits (referral + verification) never lose writes.
type UserDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.User, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.User, error)
	InsertOne(ctx context.Context, user models.User) (interface{}, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) (*models.User, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	FindLeaderboard(ctx context.Context, limit int64) ([]models.LeaderboardEntry, error)
}

type userDatabase struct {
	db DatabaseHelper
}

// NewUserDatabase initializes a new instance of user database with the provided db connection
func NewUserDatabase(db DatabaseHelper) UserDatabase {
	return &userDatabase{
		db: db,
	}
}

func (u *userDatabase) FindOne(ctx context.Context, filter interface{}) (*models.User, error) {
	user := &models.User{}
	err := u.db.Collection(userName).FindOne(ctx, filter).Decode(user)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.User, error) {
	var users []models.User
	cur, err := u.db.Collection(userName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.All(ctx, &users)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (u *userDatabase) InsertOne(ctx context.Context, user models.User) (interface{}, error) {
	return u.db.Collection(userName).InsertOne(ctx, user)
}

func (u *userDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return u.db.Collection(userName).UpdateOne(ctx, filter, update, opts...)
}

func (u *userDatabase) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) (*models.User, error) {
	user := &models.User{}
	err := u.db.Collection(userName).FindOneAndUpdate(ctx, filter, update, opts...).Decode(user)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return u.db.Collection(userName).CountDocuments(ctx, filter, opts...)
}

// FindLeaderboard returns users ordered by points descending with earlier
// registration breaking ties, projected down to the public fields
func (u *userDatabase) FindLeaderboard(ctx context.Context, limit int64) ([]models.LeaderboardEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "points", Value: -1}, {Key: "createdAt", Value: 1}}).
		SetProjection(bson.M{"wallet": 1, "points": 1, "twitter": 1, "discord": 1, "createdAt": 1}).
		SetLimit(limit)

	var entries []models.LeaderboardEntry
	cur, err := u.db.Collection(userName).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	err = cur.All(ctx, &entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
