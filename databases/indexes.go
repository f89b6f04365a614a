package databases

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// EnsureIndexes creates the unique indexes the ledger's concurrency rules
// lean on: one account per wallet, one redemption per code, one submission
// per tweet. Safe to call on every boot.
func EnsureIndexes(ctx context.Context, db DatabaseHelper) error {
	if err := db.Collection(userName).CreateIndex(ctx, bson.D{{Key: "wallet", Value: 1}}, true); err != nil {
		return err
	}
	if err := db.Collection(inviteCodeName).CreateIndex(ctx, bson.D{{Key: "code", Value: 1}}, true); err != nil {
		return err
	}
	return db.Collection(tweetTaskName).CreateIndex(ctx, bson.D{{Key: "tweetId", Value: 1}}, true)
}
