package models

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminInviter marks seed codes that are not owned by any account
const AdminInviter = "admin"

// InviteExpiry is how long a freshly minted invite stays redeemable
const InviteExpiry = 7 * 24 * time.Hour

// Invite status values. Precedence on reads: Used > Expired > Active.
const (
	InviteStatusActive  = "Active"
	InviteStatusUsed    = "Used"
	InviteStatusExpired = "Expired"
)

// InviteCode represents the structure of an invite code document in MongoDB.
// Status is never stored; it is derived from used/expiresAt on every read.
type InviteCode struct {
	ID        primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Code      string             `json:"code" bson:"code"`
	Used      bool               `json:"used" bson:"used"`
	UsedBy    string             `json:"usedBy,omitempty" bson:"usedBy,omitempty"`
	Inviter   string             `json:"inviter" bson:"inviter"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	ExpiresAt *time.Time         `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
}

// Status derives the invite state at the given instant
func (i InviteCode) Status(now time.Time) string {
	if i.Used {
		return InviteStatusUsed
	}
	if i.ExpiresAt != nil && i.ExpiresAt.Before(now) {
		return InviteStatusExpired
	}
	return InviteStatusActive
}

// PointsEarned is the referral reward this invite produced for its owner
func (i InviteCode) PointsEarned() int {
	if i.Used {
		return ReferralRewardPoints
	}
	return 0
}

// InviteSummary is the per-invite view returned to the owning wallet
type InviteSummary struct {
	Code         string     `json:"code"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	Status       string     `json:"status"`
	PointsEarned int        `json:"pointsEarned"`
}

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateInviteCode produces a fresh GLOB-XXXXXX-XXXX code. The charset and
// length give well over 10^15 combinations, so collisions are handled by an
// insert-and-retry rather than a pre-check.
func GenerateInviteCode() string {
	var b strings.Builder
	b.WriteString("GLOB-")
	b.WriteString(randomSegment(6))
	b.WriteString("-")
	b.WriteString(randomSegment(4))
	return b.String()
}

func randomSegment(n int) string {
	max := big.NewInt(int64(len(codeCharset)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken;
			// fall back to a fixed character rather than panic mid-request
			out[i] = codeCharset[0]
			continue
		}
		out[i] = codeCharset[idx.Int64()]
	}
	return string(out)
}
