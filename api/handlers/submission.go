package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
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

// tweetURLPattern accepts a status link on x.com or twitter.com with a
// username component; host matching is case-insensitive
var tweetURLPattern = regexp.MustCompile(`^https?://(?i:x\.com|twitter\.com)/([A-Za-z0-9_]+)/status/([0-9]+)$`)

// Submission exported for testing purposes
type Submission struct {
	DB  databases.TweetTaskDatabase
	UDB databases.UserDatabase
}

// normalizeTweetURL strips the query string and one trailing slash
func normalizeTweetURL(raw string) string {
	if idx := strings.Index(raw, "?"); idx >= 0 {
		raw = raw[:idx]
	}
	return strings.TrimSuffix(raw, "/")
}

type submitTweetRequest struct {
	Wallet   string `json:"wallet"`
	TweetURL string `json:"tweetUrl"`
}

// SubmitTweetHandler registers a claimed post for review. Caps: one
// submission per UTC day and two per UTC week (Monday start), counting only
// pending and verified submissions. The daily check runs first so the caller
// always sees the tighter limit. The unique tweetId index is the hard
// backstop if two submits race past the counts.
func (s Submission) SubmitTweetHandler(w http.ResponseWriter, r *http.Request) {
	var req submitTweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	wallet := strings.ToLower(strings.TrimSpace(req.Wallet))
	if wallet == "" || req.TweetURL == "" {
		config.ErrorStatus("missing wallet or tweetUrl", http.StatusBadRequest, w, nil)
		return
	}

	tweetURL := normalizeTweetURL(strings.TrimSpace(req.TweetURL))
	match := tweetURLPattern.FindStringSubmatch(tweetURL)
	if match == nil {
		config.LedgerErrorStatus(w, models.ErrInvalidURL(tweetURL))
		return
	}
	usernameFromURL := strings.ToLower(match[1])
	tweetID := match[2]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	existing, err := s.DB.FindOne(ctx, bson.M{"tweetId": tweetID})
	if err == nil {
		if existing.Status == models.TweetStatusRejected {
			config.LedgerErrorStatus(w, models.ErrPreviouslyRejected(tweetID))
			return
		}
		config.LedgerErrorStatus(w, models.ErrDuplicateSubmission(tweetID))
		return
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		config.LedgerErrorStatus(w, err)
		return
	}

	user, err := s.UDB.FindOne(ctx, bson.M{"wallet": wallet})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			config.LedgerErrorStatus(w, models.ErrSocialNotLinked(wallet))
			return
		}
		config.LedgerErrorStatus(w, err)
		return
	}
	if user.Twitter == "" {
		config.LedgerErrorStatus(w, models.ErrSocialNotLinked(wallet))
		return
	}
	handle := strings.ToLower(user.Twitter)
	if handle != usernameFromURL {
		config.LedgerErrorStatus(w, models.ErrAccountMismatch(handle, usernameFromURL))
		return
	}

	now := time.Now().UTC()
	countedStatuses := bson.M{"$in": []string{models.TweetStatusPending, models.TweetStatusVerified}}

	todayCount, err := s.DB.CountDocuments(ctx, bson.M{
		"wallet":    wallet,
		"status":    countedStatuses,
		"createdAt": bson.M{"$gte": dayStartUTC(now)},
	})
	if err != nil {
		config.LedgerErrorStatus(w, err)
		return
	}
	if todayCount >= models.DailySubmissionLimit {
		config.LedgerErrorStatus(w, models.ErrDailyLimitReached(models.DailySubmissionLimit))
		return
	}

	weekCount, err := s.DB.CountDocuments(ctx, bson.M{
		"wallet":    wallet,
		"status":    countedStatuses,
		"createdAt": bson.M{"$gte": weekStartUTC(now)},
	})
	if err != nil {
		config.LedgerErrorStatus(w, err)
		return
	}
	if weekCount >= models.WeeklySubmissionLimit {
		config.LedgerErrorStatus(w, models.ErrWeeklyLimitReached(models.WeeklySubmissionLimit))
		return
	}

	task := models.TweetTask{
		Wallet:    wallet,
		TweetID:   tweetID,
		TweetURL:  tweetURL,
		Status:    models.TweetStatusPending,
		CreatedAt: now,
	}
	if _, err := s.DB.InsertOne(ctx, task); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			config.LedgerErrorStatus(w, models.ErrDuplicateSubmission(tweetID))
			return
		}
		config.LedgerErrorStatus(w, err)
		return
	}

	zap.S().Infow("tweet submitted",
		"wallet", wallet,
		"tweetId", tweetID,
	)

	b, err := json.Marshal(map[string]interface{}{
		"success":   true,
		"tweetTask": task,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MySubmissionsHandler returns all submissions by the wallet, newest first
func (s Submission) MySubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	wallet := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("wallet")))
	if wallet == "" {
		config.ErrorStatus("missing wallet", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	tasks, err := s.DB.Find(ctx, bson.M{"wallet": wallet}, opts)
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

// WeeklyVerifiedCountHandler counts the wallet's verified submissions since
// the start of the current UTC week
func (s Submission) WeeklyVerifiedCountHandler(w http.ResponseWriter, r *http.Request) {
	wallet := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("wallet")))
	if wallet == "" {
		config.ErrorStatus("missing wallet", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	count, err := s.DB.CountDocuments(ctx, bson.M{
		"wallet":    wallet,
		"status":    models.TweetStatusVerified,
		"createdAt": bson.M{"$gte": weekStartUTC(time.Now())},
	})
	if err != nil {
		config.LedgerErrorStatus(w, err)
		return
	}

	b, _ := json.Marshal(map[string]int64{"count": count})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
