package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/globnft/glob-rewards-api/api"
	"github.com/globnft/glob-rewards-api/config"
	"github.com/globnft/glob-rewards-api/databases"
	"github.com/globnft/glob-rewards-api/models"
)

// Review exported for testing purposes. AdminWallets is injected at
// construction; the handler never reads it from the environment. The caller
// is responsible for having authenticated the reviewer wallet (signature
// verification happens upstream); this layer only checks set membership.
type Review struct {
	DB           databases.TweetTaskDatabase
	UDB          databases.UserDatabase
	AdminWallets []string
	BearerToken  string
	HTTPClient   *http.Client
}

func (rev Review) isAdmin(wallet string) bool {
	wallet = strings.ToLower(wallet)
	for _, admin := range rev.AdminWallets {
		if admin == wallet {
			return true
		}
	}
	return false
}

// PendingSubmissionsHandler lists the review queue, oldest first
func (rev Review) PendingSubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	tasks, err := rev.DB.Find(ctx, bson.M{"status": models.TweetStatusPending}, opts)
	if err != nil {
		config.LedgerErrorStatus(w, err)
		return
	}
	if len(tasks) == 0 {
		tasks = []models.TweetTask{}
	}

	b, err := json.Marshal(map[string]interface{}{"tweets": tasks})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

type decideRequest struct {
	TweetID         string `json:"tweetId"`
	Action          string `json:"action"`
	Wallet          string `json:"wallet"`
	PointsAwarded   *int   `json:"pointsAwarded"`
	Bonus           *int   `json:"bonus"`
	RejectionReason string `json:"rejectionReason"`
}

// DecideHandler moves a pending submission to verified or rejected. Both
// transitions are terminal. The transition itself is a conditional update on
// status=pending, so a second decision on the same tweet always fails with
// AlreadyReviewed and the submitter is never credited twice.
func (rev Review) DecideHandler(w http.ResponseWriter, r *http.Request) {
	var req decideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.TweetID == "" || (req.Action != models.TweetStatusVerified && req.Action != models.TweetStatusRejected) {
		config.ErrorStatus("missing tweetId or invalid action", http.StatusBadRequest, w, nil)
		return
	}
	if !rev.isAdmin(req.Wallet) {
		config.LedgerErrorStatus(w, models.ErrNotAuthorized())
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if req.Action == models.TweetStatusRejected {
		rev.reject(ctx, w, req)
		return
	}
	rev.verify(ctx, w, req)
}

func (rev Review) reject(ctx context.Context, w http.ResponseWriter, req decideRequest) {
	if strings.TrimSpace(req.RejectionReason) == "" {
		config.LedgerErrorStatus(w, models.ErrMissingReason())
		return
	}

	after := options.After
	task, err := rev.DB.FindOneAndUpdate(ctx,
		bson.M{"tweetId": req.TweetID, "status": models.TweetStatusPending},
		bson.M{"$set": bson.M{
			"status":          models.TweetStatusRejected,
			"rejectionReason": req.RejectionReason,
			"pointsAwarded":   0,
			"bonusPoints":     0,
		}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	)
	if err != nil {
		rev.writeDecideConflict(ctx, w, req.TweetID, err)
		return
	}

	zap.S().Infow("tweet rejected",
		"tweetId", req.TweetID,
		"reviewer", strings.ToLower(req.Wallet),
		"reason", req.RejectionReason,
	)

	b, _ := json.Marshal(map[string]interface{}{"success": true, "tweet": task})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func (rev Review) verify(ctx context.Context, w http.ResponseWriter, req decideRequest) {
	points := models.DefaultPointsAwarded
	if req.PointsAwarded != nil && *req.PointsAwarded >= models.MinPointsAwarded && *req.PointsAwarded <= models.MaxPointsAwarded {
		points = *req.PointsAwarded
	}
	bonus := 0
	if req.Bonus != nil && *req.Bonus > 0 {
		bonus = *req.Bonus
	}

	after := options.After
	task, err := rev.DB.FindOneAndUpdate(ctx,
		bson.M{"tweetId": req.TweetID, "status": models.TweetStatusPending},
		bson.M{
			"$set": bson.M{
				"status":        models.TweetStatusVerified,
				"pointsAwarded": points,
				"bonusPoints":   bonus,
			},
			"$unset": bson.M{"rejectionReason": ""},
		},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	)
	if err != nil {
		rev.writeDecideConflict(ctx, w, req.TweetID, err)
		return
	}

	// single atomic increment; the pending->verified transition above can only
	// ever happen once per tweet, so this credit cannot double-apply
	credit := points + bonus
	_, err = rev.UDB.UpdateOne(ctx,
		bson.M{"wallet": task.Wallet},
		bson.M{"$inc": bson.M{"points": credit}},
	)
	if err != nil {
		config.LedgerErrorStatus(w, err)
		return
	}

	zap.S().Infow("tweet verified",
		"tweetId", req.TweetID,
		"wallet", task.Wallet,
		"pointsAwarded", points,
		"bonusPoints", bonus,
	)

	b, _ := json.Marshal(map[string]interface{}{
		"success":        true,
		"tweet":          task,
		"creditedPoints": credit,
	})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// writeDecideConflict untangles a failed conditional transition: the tweet is
// either missing or already out of pending
func (rev Review) writeDecideConflict(ctx context.Context, w http.ResponseWriter, tweetID string, err error) {
	if !errors.Is(err, mongo.ErrNoDocuments) {
		config.LedgerErrorStatus(w, err)
		return
	}
	if _, ferr := rev.DB.FindOne(ctx, bson.M{"tweetId": tweetID}); ferr != nil {
		if errors.Is(ferr, mongo.ErrNoDocuments) {
			config.LedgerErrorStatus(w, models.ErrSubmissionNotFound(tweetID))
			return
		}
		config.LedgerErrorStatus(w, ferr)
		return
	}
	config.LedgerErrorStatus(w, models.ErrAlreadyReviewed(tweetID))
}

var (
	globNFTPattern         = regexp.MustCompile(`(?i)#?globnft`)
	officialMentionPattern = regexp.MustCompile(`(?i)@OfficialGlobNFT`)
)

type tweetLookupResponse struct {
	Data []struct {
		ID        string `json:"id"`
		Text      string `json:"text"`
		AuthorID  string `json:"author_id"`
		CreatedAt string `json:"created_at"`
	} `json:"data"`
}

// BatchCheckHandler fetches the pending tweets from the Twitter batch lookup
// and reports keyword/mention presence. Diagnostics for the review screen
// only; verification stays a human decision.
func (rev Review) BatchCheckHandler(w http.ResponseWriter, r *http.Request) {
	if rev.BearerToken == "" {
		config.ErrorStatus("no Twitter API token configured", http.StatusInternalServerError, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	pending, err := rev.DB.Find(ctx, bson.M{"status": models.TweetStatusPending})
	if err != nil {
		config.LedgerErrorStatus(w, err)
		return
	}

	results := []models.TweetCheckResult{}
	// Twitter caps the batch lookup at 100 ids per call
	for i := 0; i < len(pending); i += 100 {
		end := i + 100
		if end > len(pending) {
			end = len(pending)
		}
		ids := make([]string, 0, end-i)
		for _, t := range pending[i:end] {
			ids = append(ids, t.TweetID)
		}

		batch, err := rev.fetchTweetData(r, ids)
		if err != nil {
			config.ErrorStatus("Twitter API error", http.StatusInternalServerError, w, err)
			return
		}
		results = append(results, batch...)
	}

	b, err := json.Marshal(map[string]interface{}{"tweets": results})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func (rev Review) fetchTweetData(r *http.Request, ids []string) ([]models.TweetCheckResult, error) {
	client := rev.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	url := fmt.Sprintf("https://api.twitter.com/2/tweets?ids=%s&tweet.fields=author_id,created_at,text", strings.Join(ids, ","))
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+rev.BearerToken)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twitter lookup returned status %d", resp.StatusCode)
	}

	var lookup tweetLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lookup); err != nil {
		return nil, err
	}

	results := make([]models.TweetCheckResult, 0, len(lookup.Data))
	for _, t := range lookup.Data {
		results = append(results, models.TweetCheckResult{
			TweetID:            t.ID,
			Text:               t.Text,
			AuthorID:           t.AuthorID,
			CreatedAt:          t.CreatedAt,
			HasGlobNFT:         globNFTPattern.MatchString(t.Text),
			HasOfficialMention: officialMentionPattern.MatchString(t.Text),
		})
	}
	return results, nil
}
