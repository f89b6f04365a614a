package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/globnft/glob-rewards-api/api/handlers"
	"github.com/globnft/glob-rewards-api/databases/mocks"
	"github.com/globnft/glob-rewards-api/models"
)

var testAdmins = []string{"0xadmin"}

func decideRequest(t *testing.T, payload map[string]interface{}) *http.Request {
	t.Helper()
	body, _ := json.Marshal(payload)
	return httptest.NewRequest("POST", "/api/v1/review/decide", bytes.NewReader(body))
}

func TestReview_PendingSubmissionsHandler(t *testing.T) {
	tweetDB := &mocks.TweetTaskDatabase{}
	tweetDB.On("Find", mock.Anything, bson.M{"status": models.TweetStatusPending}, mock.Anything).
		Return([]models.TweetTask{{TweetID: "1", Status: models.TweetStatusPending}}, nil)

	req := httptest.NewRequest("GET", "/api/v1/review/pending", nil)
	rr := httptest.NewRecorder()

	rev := handlers.Review{DB: tweetDB, AdminWallets: testAdmins}
	http.HandlerFunc(rev.PendingSubmissionsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"tweetId":"1"`)
}

func TestReview_DecideHandler_NotAuthorized(t *testing.T) {
	rev := handlers.Review{DB: &mocks.TweetTaskDatabase{}, UDB: &mocks.UserDatabase{}, AdminWallets: testAdmins}

	rr := httptest.NewRecorder()
	http.HandlerFunc(rev.DecideHandler).ServeHTTP(rr, decideRequest(t, map[string]interface{}{
		"tweetId": "1",
		"action":  models.TweetStatusVerified,
		"wallet":  "0xrando",
	}))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), models.CodeNotAuthorized)
}

func TestReview_DecideHandler_InvalidAction(t *testing.T) {
	rev := handlers.Review{DB: &mocks.TweetTaskDatabase{}, AdminWallets: testAdmins}

	rr := httptest.NewRecorder()
	http.HandlerFunc(rev.DecideHandler).ServeHTTP(rr, decideRequest(t, map[string]interface{}{
		"tweetId": "1",
		"action":  "maybe",
		"wallet":  "0xadmin",
	}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestReview_DecideHandler_Verify(t *testing.T) {
	tweetDB := &mocks.TweetTaskDatabase{}
	userDB := &mocks.UserDatabase{}

	verified := &models.TweetTask{
		TweetID:       "1",
		Wallet:        "0xsubmitter",
		Status:        models.TweetStatusVerified,
		PointsAwarded: 2,
		BonusPoints:   1,
	}
	tweetDB.On("FindOneAndUpdate", mock.Anything,
		bson.M{"tweetId": "1", "status": models.TweetStatusPending},
		mock.Anything, mock.Anything).
		Return(verified, nil)
	userDB.On("UpdateOne", mock.Anything, bson.M{"wallet": "0xsubmitter"},
		bson.M{"$inc": bson.M{"points": 3}}).
		Return(&mongo.UpdateResult{ModifiedCount: 1}, nil)

	rev := handlers.Review{DB: tweetDB, UDB: userDB, AdminWallets: testAdmins}
	rr := httptest.NewRecorder()
	http.HandlerFunc(rev.DecideHandler).ServeHTTP(rr, decideRequest(t, map[string]interface{}{
		"tweetId":       "1",
		"action":        models.TweetStatusVerified,
		"wallet":        "0xADMIN",
		"pointsAwarded": 2,
		"bonus":         1,
	}))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success        bool `json:"success"`
		CreditedPoints int  `json:"creditedPoints"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.CreditedPoints)
}

func TestReview_DecideHandler_Verify_ClampsPoints(t *testing.T) {
	tweetDB := &mocks.TweetTaskDatabase{}
	userDB := &mocks.UserDatabase{}

	verified := &models.TweetTask{TweetID: "1", Wallet: "0xsubmitter", Status: models.TweetStatusVerified}
	tweetDB.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(verified, nil)
	// out-of-range award falls back to the default of 1
	userDB.On("UpdateOne", mock.Anything, bson.M{"wallet": "0xsubmitter"},
		bson.M{"$inc": bson.M{"points": 1}}).
		Return(&mongo.UpdateResult{ModifiedCount: 1}, nil)

	rev := handlers.Review{DB: tweetDB, UDB: userDB, AdminWallets: testAdmins}
	rr := httptest.NewRecorder()
	http.HandlerFunc(rev.DecideHandler).ServeHTTP(rr, decideRequest(t, map[string]interface{}{
		"tweetId":       "1",
		"action":        models.TweetStatusVerified,
		"wallet":        "0xadmin",
		"pointsAwarded": 9,
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	userDB.AssertCalled(t, "UpdateOne", mock.Anything, bson.M{"wallet": "0xsubmitter"},
		bson.M{"$inc": bson.M{"points": 1}})
}

func TestReview_DecideHandler_Reject(t *testing.T) {
	tweetDB := &mocks.TweetTaskDatabase{}
	userDB := &mocks.UserDatabase{}

	rejected := &models.TweetTask{
		TweetID:         "1",
		Wallet:          "0xsubmitter",
		Status:          models.TweetStatusRejected,
		RejectionReason: "not original content",
	}
	tweetDB.On("FindOneAndUpdate", mock.Anything,
		bson.M{"tweetId": "1", "status": models.TweetStatusPending},
		mock.Anything, mock.Anything).
		Return(rejected, nil)

	rev := handlers.Review{DB: tweetDB, UDB: userDB, AdminWallets: testAdmins}
	rr := httptest.NewRecorder()
	http.HandlerFunc(rev.DecideHandler).ServeHTTP(rr, decideRequest(t, map[string]interface{}{
		"tweetId":         "1",
		"action":          models.TweetStatusRejected,
		"wallet":          "0xadmin",
		"rejectionReason": "not original content",
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	// rejection never credits the submitter
	userDB.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestReview_DecideHandler_Reject_MissingReason(t *testing.T) {
	tweetDB := &mocks.TweetTaskDatabase{}

	rev := handlers.Review{DB: tweetDB, AdminWallets: testAdmins}
	rr := httptest.NewRecorder()
	http.HandlerFunc(rev.DecideHandler).ServeHTTP(rr, decideRequest(t, map[string]interface{}{
		"tweetId":         "1",
		"action":          models.TweetStatusRejected,
		"wallet":          "0xadmin",
		"rejectionReason": "   ",
	}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), models.CodeMissingReason)
	tweetDB.AssertNotCalled(t, "FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReview_DecideHandler_AlreadyReviewed(t *testing.T) {
	tweetDB := &mocks.TweetTaskDatabase{}
	userDB := &mocks.UserDatabase{}

	tweetDB.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, mongo.ErrNoDocuments)
	tweetDB.On("FindOne", mock.Anything, bson.M{"tweetId": "1"}).
		Return(&models.TweetTask{TweetID: "1", Status: models.TweetStatusVerified}, nil)

	rev := handlers.Review{DB: tweetDB, UDB: userDB, AdminWallets: testAdmins}
	rr := httptest.NewRecorder()
	http.HandlerFunc(rev.DecideHandler).ServeHTTP(rr, decideRequest(t, map[string]interface{}{
		"tweetId": "1",
		"action":  models.TweetStatusVerified,
		"wallet":  "0xadmin",
	}))

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), models.CodeAlreadyReviewed)
	// a settled decision is never re-credited
	userDB.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestReview_DecideHandler_NotFound(t *testing.T) {
	tweetDB := &mocks.TweetTaskDatabase{}

	tweetDB.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, mongo.ErrNoDocuments)
	tweetDB.On("FindOne", mock.Anything, mock.Anything).
		Return(nil, mongo.ErrNoDocuments)

	rev := handlers.Review{DB: tweetDB, UDB: &mocks.UserDatabase{}, AdminWallets: testAdmins}
	rr := httptest.NewRecorder()
	http.HandlerFunc(rev.DecideHandler).ServeHTTP(rr, decideRequest(t, map[string]interface{}{
		"tweetId": "404",
		"action":  models.TweetStatusVerified,
		"wallet":  "0xadmin",
	}))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), models.CodeSubmissionNotFound)
}

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestReview_BatchCheckHandler(t *testing.T) {
	tweetDB := &mocks.TweetTaskDatabase{}
	tweetDB.On("Find", mock.Anything, bson.M{"status": models.TweetStatusPending}).
		Return([]models.TweetTask{
			{TweetID: "100", Status: models.TweetStatusPending},
			{TweetID: "200", Status: models.TweetStatusPending},
		}, nil)

	lookupBody := `{"data":[
		{"id":"100","text":"loving my #GlobNFT drop cc @OfficialGlobNFT","author_id":"a1","created_at":"2026-08-29T10:00:00Z"},
		{"id":"200","text":"unrelated post","author_id":"a2","created_at":"2026-08-29T11:00:00Z"}
	]}`

	client := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "Bearer token-123", req.Header.Get("Authorization"))
		assert.Contains(t, req.URL.String(), "ids=100,200")
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(lookupBody)),
			Header:     make(http.Header),
		}, nil
	})}

	rev := handlers.Review{DB: tweetDB, BearerToken: "token-123", HTTPClient: client}

	req := httptest.NewRequest("GET", "/api/v1/review/batch-check", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(rev.BatchCheckHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Tweets []models.TweetCheckResult `json:"tweets"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Tweets, 2)
	assert.True(t, resp.Tweets[0].HasGlobNFT)
	assert.True(t, resp.Tweets[0].HasOfficialMention)
	assert.False(t, resp.Tweets[1].HasGlobNFT)
	assert.False(t, resp.Tweets[1].HasOfficialMention)
}

func TestReview_BatchCheckHandler_NoToken(t *testing.T) {
	rev := handlers.Review{DB: &mocks.TweetTaskDatabase{}}

	req := httptest.NewRequest("GET", "/api/v1/review/batch-check", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(rev.BatchCheckHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
