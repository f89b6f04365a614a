package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/globnft/glob-rewards-api/api"
	"github.com/globnft/glob-rewards-api/config"
	"github.com/globnft/glob-rewards-api/databases"
	"github.com/globnft/glob-rewards-api/models"
)

// invitesPerRedemption is how many fresh codes a newly registered account receives
const invitesPerRedemption = 2

// InviteTopUpper runs the account-wide invite top-up; implemented by the scheduler
type InviteTopUpper interface {
	RunInviteTopUp(ctx context.Context) (int, error)
}

// Invite exported for testing purposes
type Invite struct {
	DB         databases.InviteCodeDatabase
	UDB        databases.UserDatabase
	CronSecret string
	TopUp      InviteTopUpper
}

type redeemInviteRequest struct {
	Code   string `json:"code"`
	Wallet string `json:"wallet"`
}

// RedeemInviteHandler redeems an invite code and registers the wallet. The
// used flag flips through a single conditional update, so of any number of
// concurrent redemption attempts on one code exactly one succeeds.
func (i Invite) RedeemInviteHandler(w http.ResponseWriter, r *http.Request) {
	var req redeemInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	wallet := strings.ToLower(strings.TrimSpace(req.Wallet))
	if code == "" || wallet == "" {
		config.ErrorStatus("missing code or wallet", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	// cheap pre-checks so the common failures never consume the code
	if _, err := i.DB.FindOne(ctx, bson.M{"code": code, "used": false}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			config.LedgerErrorStatus(w, models.ErrInvalidOrUsedCode(code))
			return
		}
		config.LedgerErrorStatus(w, err)
		return
	}
	if _, err := i.UDB.FindOne(ctx, bson.M{"wallet": wallet}); err == nil {
		config.LedgerErrorStatus(w, models.ErrAlreadyRegistered(wallet))
		return
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		config.LedgerErrorStatus(w, err)
		return
	}

	// check-and-set on the used flag; losers of a race land here with no match
	invite, err := i.DB.FindOneAndUpdate(ctx,
		bson.M{"code": code, "used": false},
		bson.M{"$set": bson.M{"used": true, "usedBy": wallet}},
	)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			config.LedgerErrorStatus(w, models.ErrInvalidOrUsedCode(code))
			return
		}
		config.LedgerErrorStatus(w, err)
		return
	}

	// referral reward for the inviter, if the inviter is a real account
	if invite.Inviter != "" && invite.Inviter != models.AdminInviter {
		_, err = i.UDB.UpdateOne(ctx,
			bson.M{"wallet": invite.Inviter},
			bson.M{"$inc": bson.M{"points": models.ReferralRewardPoints}},
		)
		if err != nil {
			config.LedgerErrorStatus(w, err)
			return
		}
	}

	now := time.Now().UTC()
	user := models.User{
		Wallet:    wallet,
		Points:    0,
		Invites:   []primitive.ObjectID{},
		CreatedAt: now,
	}
	if _, err := i.UDB.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			config.LedgerErrorStatus(w, models.ErrAlreadyRegistered(wallet))
			return
		}
		config.LedgerErrorStatus(w, err)
		return
	}

	minted, err := i.DB.MintForInviter(ctx, wallet, invitesPerRedemption, now)
	if err != nil {
		config.LedgerErrorStatus(w, err)
		return
	}
	ids := make([]primitive.ObjectID, 0, len(minted))
	for _, m := range minted {
		ids = append(ids, m.ID)
	}
	if _, err := i.UDB.UpdateOne(ctx,
		bson.M{"wallet": wallet},
		bson.M{"$set": bson.M{"invites": ids}},
	); err != nil {
		config.LedgerErrorStatus(w, err)
		return
	}
	user.Invites = ids

	zap.S().Infow("invite redeemed",
		"code", code,
		"wallet", wallet,
		"inviter", invite.Inviter,
	)

	b, err := json.Marshal(map[string]interface{}{
		"success": true,
		"user":    user,
		"invites": minted,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

type seedInviteRequest struct {
	Code   string `json:"code"`
	Secret string `json:"secret"`
}

// SeedInviteHandler creates an admin-owned seed code with no expiry. Guarded
// by the maintenance secret; seed codes carry the admin sentinel so their
// redemption rewards nobody.
func (i Invite) SeedInviteHandler(w http.ResponseWriter, r *http.Request) {
	var req seedInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Secret != i.CronSecret || i.CronSecret == "" {
		config.LedgerErrorStatus(w, models.ErrNotAuthorized())
		return
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		config.ErrorStatus("missing code", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	invite := models.InviteCode{
		ID:        primitive.NewObjectID(),
		Code:      code,
		Used:      false,
		Inviter:   models.AdminInviter,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := i.DB.InsertOne(ctx, invite); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			config.ErrorStatus("code already exists", http.StatusConflict, w, err)
			return
		}
		config.LedgerErrorStatus(w, err)
		return
	}

	b, _ := json.Marshal(map[string]interface{}{"success": true, "code": code})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

type myInvitesRequest struct {
	Wallet string `json:"wallet"`
}

var inviteStatusOrder = map[string]int{
	models.InviteStatusActive:  0,
	models.InviteStatusUsed:    1,
	models.InviteStatusExpired: 2,
}

// MyInvitesHandler returns every invite owned by the wallet with its derived
// status and referral points, active codes first
func (i Invite) MyInvitesHandler(w http.ResponseWriter, r *http.Request) {
	var req myInvitesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	wallet := strings.ToLower(strings.TrimSpace(req.Wallet))
	if wallet == "" {
		config.ErrorStatus("missing wallet", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := i.UDB.FindOne(ctx, bson.M{"wallet": wallet})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			config.LedgerErrorStatus(w, models.ErrUserNotFound(wallet))
			return
		}
		config.LedgerErrorStatus(w, err)
		return
	}

	invites, err := i.DB.Find(ctx, bson.M{"inviter": wallet})
	if err != nil {
		config.LedgerErrorStatus(w, err)
		return
	}

	now := time.Now().UTC()
	invitePoints := 0
	summaries := make([]models.InviteSummary, 0, len(invites))
	for _, inv := range invites {
		s := models.InviteSummary{
			Code:         inv.Code,
			ExpiresAt:    inv.ExpiresAt,
			Status:       inv.Status(now),
			PointsEarned: inv.PointsEarned(),
		}
		invitePoints += s.PointsEarned
		summaries = append(summaries, s)
	}
	sort.SliceStable(summaries, func(a, b int) bool {
		return inviteStatusOrder[summaries[a].Status] < inviteStatusOrder[summaries[b].Status]
	})

	b, err := json.Marshal(map[string]interface{}{
		"invites":      summaries,
		"points":       user.Points,
		"invitePoints": invitePoints,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

type topUpRequest struct {
	Secret string `json:"secret"`
}

// TopUpHandler runs the invite top-up on demand for an external scheduler.
// The secret comes from the body or the query string, matching the original
// cron integration.
func (i Invite) TopUpHandler(w http.ResponseWriter, r *http.Request) {
	var req topUpRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	secret := req.Secret
	if secret == "" {
		secret = r.URL.Query().Get("secret")
	}
	if secret != i.CronSecret || i.CronSecret == "" {
		config.LedgerErrorStatus(w, models.ErrNotAuthorized())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	created, err := i.TopUp.RunInviteTopUp(ctx)
	if err != nil {
		config.LedgerErrorStatus(w, err)
		return
	}

	b, _ := json.Marshal(map[string]interface{}{
		"success": true,
		"created": created,
	})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
