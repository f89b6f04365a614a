package databases

// go generate: mockery --name TweetTaskDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/globnft/glob-rewards-api/models"
)

const tweetTaskName = "tweetTasks"

// TweetTaskDatabase contains the methods to use with the tweetTask database
type TweetTaskDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.TweetTask, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.TweetTask, error)
	InsertOne(ctx context.Context, task models.TweetTask) (interface{}, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) (*models.TweetTask, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type tweetTaskDatabase struct {
	db DatabaseHelper
}

// NewTweetTaskDatabase initializes a new instance of tweetTask database with the provided db connection
func NewTweetTaskDatabase(db DatabaseHelper) TweetTaskDatabase {
	return &tweetTaskDatabase{
		db: db,
	}
}

func (t *tweetTaskDatabase) FindOne(ctx context.Context, filter interface{}) (*models.TweetTask, error) {
	task := &models.TweetTask{}
	err := t.db.Collection(tweetTaskName).FindOne(ctx, filter).Decode(task)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (t *tweetTaskDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.TweetTask, error) {
	var tasks []models.TweetTask
	cur, err := t.db.Collection(tweetTaskName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.All(ctx, &tasks)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (t *tweetTaskDatabase) InsertOne(ctx context.Context, task models.TweetTask) (interface{}, error) {
	return t.db.Collection(tweetTaskName).InsertOne(ctx, task)
}

func (t *tweetTaskDatabase) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) (*models.TweetTask, error) {
	task := &models.TweetTask{}
	err := t.db.Collection(tweetTaskName).FindOneAndUpdate(ctx, filter, update, opts...).Decode(task)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (t *tweetTaskDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return t.db.Collection(tweetTaskName).CountDocuments(ctx, filter, opts...)
}
