package scheduler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/globnft/glob-rewards-api/api/scheduler"
	"github.com/globnft/glob-rewards-api/databases/mocks"
	"github.com/globnft/glob-rewards-api/models"
)

func matchInviter(wallet string) interface{} {
	return mock.MatchedBy(func(filter interface{}) bool {
		m, ok := filter.(bson.M)
		return ok && m["inviter"] == wallet
	})
}

func TestScheduler_RunInviteTopUp(t *testing.T) {
	inviteDB := &mocks.InviteCodeDatabase{}
	userDB := &mocks.UserDatabase{}
	lockDB := &mocks.SchedulerLockDatabase{}

	users := []models.User{
		{Wallet: "0xfull"},
		{Wallet: "0xempty"},
		{Wallet: "0xone"},
	}
	userDB.On("Find", mock.Anything, bson.M{}).Return(users, nil)

	// already at the target, nothing minted
	inviteDB.On("CountDocuments", mock.Anything, matchInviter("0xfull")).
		Return(int64(2), nil)

	// no live invites, topped up by two with a re-check before each mint
	inviteDB.On("CountDocuments", mock.Anything, matchInviter("0xempty")).
		Return(int64(0), nil).Times(3)
	inviteDB.On("MintForInviter", mock.Anything, "0xempty", 1, mock.Anything).
		Return([]models.InviteCode{{ID: primitive.NewObjectID(), Inviter: "0xempty"}}, nil).Twice()
	userDB.On("UpdateOne", mock.Anything, bson.M{"wallet": "0xempty"}, mock.Anything).
		Return(&mongo.UpdateResult{ModifiedCount: 1}, nil).Twice()

	// one live invite, topped up by one
	inviteDB.On("CountDocuments", mock.Anything, matchInviter("0xone")).
		Return(int64(1), nil).Twice()
	inviteDB.On("MintForInviter", mock.Anything, "0xone", 1, mock.Anything).
		Return([]models.InviteCode{{ID: primitive.NewObjectID(), Inviter: "0xone"}}, nil).Once()
	userDB.On("UpdateOne", mock.Anything, bson.M{"wallet": "0xone"}, mock.Anything).
		Return(&mongo.UpdateResult{ModifiedCount: 1}, nil).Once()

	s := scheduler.NewScheduler(inviteDB, userDB, lockDB)
	created, err := s.RunInviteTopUp(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 3, created)
	inviteDB.AssertNumberOfCalls(t, "MintForInviter", 3)
}

func TestScheduler_RunInviteTopUp_RecheckStopsOverMint(t *testing.T) {
	inviteDB := &mocks.InviteCodeDatabase{}
	userDB := &mocks.UserDatabase{}
	lockDB := &mocks.SchedulerLockDatabase{}

	userDB.On("Find", mock.Anything, bson.M{}).
		Return([]models.User{{Wallet: "0xracer"}}, nil)

	// a concurrent redemption landed between the initial count and the mint
	inviteDB.On("CountDocuments", mock.Anything, matchInviter("0xracer")).
		Return(int64(1), nil).Once()
	inviteDB.On("CountDocuments", mock.Anything, matchInviter("0xracer")).
		Return(int64(2), nil).Once()

	s := scheduler.NewScheduler(inviteDB, userDB, lockDB)
	created, err := s.RunInviteTopUp(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, created)
	inviteDB.AssertNotCalled(t, "MintForInviter", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	userDB.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestScheduler_RunInviteTopUp_NoUsers(t *testing.T) {
	inviteDB := &mocks.InviteCodeDatabase{}
	userDB := &mocks.UserDatabase{}
	lockDB := &mocks.SchedulerLockDatabase{}

	userDB.On("Find", mock.Anything, bson.M{}).Return([]models.User{}, nil)

	s := scheduler.NewScheduler(inviteDB, userDB, lockDB)
	created, err := s.RunInviteTopUp(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, created)
}
