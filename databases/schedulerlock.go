package databases

// go generate: mockery --name SchedulerLockDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const schedulerLockName = "schedulerLocks"

// SchedulerLockDatabase provides a lease per background job so a job runs on
// exactly one instance at a time
type SchedulerLockDatabase interface {
	TryAcquireLock(ctx context.Context, jobName, instanceID string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, jobName, instanceID string) error
}

type schedulerLockDatabase struct {
	db DatabaseHelper
}

// NewSchedulerLockDatabase initializes a new instance of schedulerLock database with the provided db connection
func NewSchedulerLockDatabase(db DatabaseHelper) SchedulerLockDatabase {
	return &schedulerLockDatabase{
		db: db,
	}
}

// TryAcquireLock claims the job lease if it is free, expired, or already held
// by this instance. A duplicate-key error means another instance holds a live
// lease; that is a clean "no", not a failure.
func (s *schedulerLockDatabase) TryAcquireLock(ctx context.Context, jobName, instanceID string, ttl time.Duration) (bool, error) {
	now := time.Now()
	filter := bson.M{
		"_id": jobName,
		"$or": []bson.M{
			{"expiresAt": bson.M{"$lte": now}},
			{"owner": instanceID},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"owner":     instanceID,
			"expiresAt": now.Add(ttl),
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.db.Collection(schedulerLockName).UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *schedulerLockDatabase) ReleaseLock(ctx context.Context, jobName, instanceID string) error {
	_, err := s.db.Collection(schedulerLockName).DeleteOne(ctx, bson.M{"_id": jobName, "owner": instanceID})
	return err
}
