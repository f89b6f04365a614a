package databases

// go generate: mockery --name InviteCodeDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/globnft/glob-rewards-api/models"
)

const inviteCodeName = "inviteCodes"

// mintRetries bounds the insert-and-retry loop on code collisions. The code
// space is large enough that a second collision in a row means something else
// is wrong.
const mintRetries = 5

// InviteCodeDatabase contains the methods to use with the inviteCode database
type InviteCodeDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.InviteCode, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.InviteCode, error)
	InsertOne(ctx context.Context, inviteCode models.InviteCode) (interface{}, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) (*models.InviteCode, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	MintForInviter(ctx context.Context, inviter string, count int, now time.Time) ([]models.InviteCode, error)
}

type inviteCodeDatabase struct {
	db DatabaseHelper
}

// NewInviteCodeDatabase initializes a new instance of inviteCode database with the provided db connection
func NewInviteCodeDatabase(db DatabaseHelper) InviteCodeDatabase {
	return &inviteCodeDatabase{
		db: db,
	}
}

func (c *inviteCodeDatabase) FindOne(ctx context.Context, filter interface{}) (*models.InviteCode, error) {
	inviteCode := &models.InviteCode{}
	err := c.db.Collection(inviteCodeName).FindOne(ctx, filter).Decode(inviteCode)
	if err != nil {
		return nil, err
	}
	return inviteCode, nil
}

func (c *inviteCodeDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.InviteCode, error) {
	var inviteCodes []models.InviteCode
	cur, err := c.db.Collection(inviteCodeName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.All(ctx, &inviteCodes)
	if err != nil {
		return nil, err
	}
	return inviteCodes, nil
}

func (c *inviteCodeDatabase) InsertOne(ctx context.Context, inviteCode models.InviteCode) (interface{}, error) {
	return c.db.Collection(inviteCodeName).InsertOne(ctx, inviteCode)
}

func (c *inviteCodeDatabase) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) (*models.InviteCode, error) {
	inviteCode := &models.InviteCode{}
	err := c.db.Collection(inviteCodeName).FindOneAndUpdate(ctx, filter, update, opts...).Decode(inviteCode)
	if err != nil {
		return nil, err
	}
	return inviteCode, nil
}

func (c *inviteCodeDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(inviteCodeName).CountDocuments(ctx, filter, opts...)
}

// MintForInviter creates count fresh invites owned by inviter, each expiring
// seven days out. A collision on the unique code index is retried with a new
// code and never surfaced to the caller.
func (c *inviteCodeDatabase) MintForInviter(ctx context.Context, inviter string, count int, now time.Time) ([]models.InviteCode, error) {
	minted := make([]models.InviteCode, 0, count)
	for i := 0; i < count; i++ {
		invite, err := c.mintOne(ctx, inviter, now)
		if err != nil {
			return minted, err
		}
		minted = append(minted, invite)
	}
	return minted, nil
}

func (c *inviteCodeDatabase) mintOne(ctx context.Context, inviter string, now time.Time) (models.InviteCode, error) {
	expires := now.Add(models.InviteExpiry)
	var lastErr error
	for attempt := 0; attempt < mintRetries; attempt++ {
		invite := models.InviteCode{
			ID:        primitive.NewObjectID(),
			Code:      models.GenerateInviteCode(),
			Used:      false,
			Inviter:   inviter,
			CreatedAt: now,
			ExpiresAt: &expires,
		}
		_, err := c.InsertOne(ctx, invite)
		if err == nil {
			return invite, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return models.InviteCode{}, err
		}
		lastErr = err
	}
	return models.InviteCode{}, lastErr
}
