package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/globnft/glob-rewards-api/api"
	"github.com/globnft/glob-rewards-api/config"
	"github.com/globnft/glob-rewards-api/databases"
	"github.com/globnft/glob-rewards-api/models"
)

// User exported for testing purposes
type User struct {
	DB databases.UserDatabase
}

// CheckUserHandler reports whether a wallet has an account
func (u User) CheckUserHandler(w http.ResponseWriter, r *http.Request) {
	wallet := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("wallet")))
	if wallet == "" {
		config.ErrorStatus("missing wallet", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	registered := true
	if _, err := u.DB.FindOne(ctx, bson.M{"wallet": wallet}); err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			config.LedgerErrorStatus(w, err)
			return
		}
		registered = false
	}

	b, _ := json.Marshal(map[string]bool{"registered": registered})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

type linkSocialRequest struct {
	Wallet      string `json:"wallet"`
	TwitterID   string `json:"twitterId"`
	Handle      string `json:"handle"`
	AccessToken string `json:"accessToken"`
	Avatar      string `json:"avatar"`
}

// LinkSocialHandler stores the authenticated Twitter identity on the account.
// The OAuth handshake already happened upstream; this only records what it
// produced. The +1 connection bonus is granted through a conditional update
// keyed on the awarded flag, so it applies exactly once per account no matter
// how many times or with which handles the account re-links.
func (u User) LinkSocialHandler(w http.ResponseWriter, r *http.Request) {
	var req linkSocialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	wallet := strings.ToLower(strings.TrimSpace(req.Wallet))
	handle := strings.ToLower(strings.TrimSpace(req.Handle))
	if wallet == "" || handle == "" || req.TwitterID == "" {
		config.ErrorStatus("missing wallet, handle or twitterId", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	set := bson.M{
		"twitter":   handle,
		"twitterId": req.TwitterID,
	}
	if req.AccessToken != "" {
		set["twitterAccessToken"] = req.AccessToken
	}
	if req.Avatar != "" {
		set["twitterAvatar"] = req.Avatar
	}
	opts := options.Update().SetUpsert(true)
	_, err := u.DB.UpdateOne(ctx,
		bson.M{"wallet": wallet},
		bson.M{
			"$set": set,
			"$setOnInsert": bson.M{
				"wallet":    wallet,
				"points":    0,
				"invites":   bson.A{},
				"createdAt": time.Now().UTC(),
			},
		},
		opts,
	)
	if err != nil {
		config.LedgerErrorStatus(w, err)
		return
	}

	// one-time connection bonus; matches nothing once the flag is set
	bonusGranted := false
	_, err = u.DB.FindOneAndUpdate(ctx,
		bson.M{"wallet": wallet, "twitterConnectedPointAwarded": bson.M{"$ne": true}},
		bson.M{
			"$set": bson.M{"twitterConnectedPointAwarded": true},
			"$inc": bson.M{"points": models.SocialConnectPoints},
		},
	)
	if err == nil {
		bonusGranted = true
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		config.LedgerErrorStatus(w, err)
		return
	}

	if bonusGranted {
		zap.S().Infow("awarded social connection bonus", "wallet", wallet)
	}

	b, _ := json.Marshal(map[string]interface{}{
		"connected":    true,
		"handle":       handle,
		"bonusGranted": bonusGranted,
	})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

type unlinkSocialRequest struct {
	Wallet string `json:"wallet"`
}

// UnlinkSocialHandler clears the linked Twitter identity. Earned points stay;
// the one-time bonus flag stays too, so re-linking never grants it again.
func (u User) UnlinkSocialHandler(w http.ResponseWriter, r *http.Request) {
	var req unlinkSocialRequest
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

	_, err := u.DB.FindOneAndUpdate(ctx,
		bson.M{"wallet": wallet},
		bson.M{"$unset": bson.M{
			"twitter":            "",
			"twitterId":          "",
			"twitterAccessToken": "",
			"twitterAvatar":      "",
		}},
	)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			config.LedgerErrorStatus(w, models.ErrUserNotFound(wallet))
			return
		}
		config.LedgerErrorStatus(w, err)
		return
	}

	b, _ := json.Marshal(map[string]bool{"success": true})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
