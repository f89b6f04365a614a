package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PointAwards for the one-time engagement bonuses and referral rewards
const (
	ReferralRewardPoints = 10
	SocialConnectPoints  = 1
)

// User holds the structure for the user collection in mongo. The wallet
// address is the primary key; points only change through $inc updates.
type User struct {
	ID                           primitive.ObjectID   `json:"-" bson:"_id,omitempty"`
	Wallet                       string               `json:"wallet" bson:"wallet"`
	Twitter                      string               `json:"twitter,omitempty" bson:"twitter,omitempty"`
	TwitterID                    string               `json:"twitterId,omitempty" bson:"twitterId,omitempty"`
	TwitterAccessToken           string               `json:"-" bson:"twitterAccessToken,omitempty"`
	TwitterAvatar                string               `json:"twitterAvatar,omitempty" bson:"twitterAvatar,omitempty"`
	Discord                      string               `json:"discord,omitempty" bson:"discord,omitempty"`
	Points                       int                  `json:"points" bson:"points"`
	Invites                      []primitive.ObjectID `json:"invites" bson:"invites"`
	TwitterConnectedPointAwarded bool                 `json:"twitterConnectedPointAwarded" bson:"twitterConnectedPointAwarded"`
	CreatedAt                    time.Time            `json:"createdAt" bson:"createdAt"`
}

// LeaderboardEntry is the projection of a user shown on the leaderboard
type LeaderboardEntry struct {
	Wallet    string    `json:"wallet" bson:"wallet"`
	Points    int       `json:"points" bson:"points"`
	Twitter   string    `json:"twitter,omitempty" bson:"twitter,omitempty"`
	Discord   string    `json:"discord,omitempty" bson:"discord,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// HealthCheckResponse returns the health check response struct
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
