package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Submission review states. pending is the only non-terminal state.
const (
	TweetStatusPending  = "pending"
	TweetStatusVerified = "verified"
	TweetStatusRejected = "rejected"
)

// Submission caps, counted over UTC calendar windows
const (
	DailySubmissionLimit  = 1
	WeeklySubmissionLimit = 2
)

// Verification award bounds
const (
	MinPointsAwarded     = 1
	MaxPointsAwarded     = 3
	DefaultPointsAwarded = 1
)

// TweetTask holds the structure for the tweetTasks collection in mongo.
// TweetID carries a unique index; it is the backstop against double submits.
type TweetTask struct {
	ID              primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Wallet          string             `json:"wallet" bson:"wallet"`
	TweetID         string             `json:"tweetId" bson:"tweetId"`
	TweetURL        string             `json:"tweetUrl" bson:"tweetUrl"`
	Status          string             `json:"status" bson:"status"`
	RejectionReason string             `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
	PointsAwarded   int                `json:"pointsAwarded" bson:"pointsAwarded"`
	BonusPoints     int                `json:"bonusPoints" bson:"bonusPoints"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
}

// TweetCheckResult is the admin-side diagnostic for one pending tweet,
// built from the Twitter batch lookup. Display only, never used for
// automatic verification.
type TweetCheckResult struct {
	TweetID            string `json:"tweetId"`
	Text               string `json:"text"`
	AuthorID           string `json:"author_id"`
	CreatedAt          string `json:"created_at"`
	HasGlobNFT         bool   `json:"hasGlobNFT"`
	HasOfficialMention bool   `json:"hasOfficialMention"`
}
