package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/globnft/glob-rewards-api/api/handlers"
	"github.com/globnft/glob-rewards-api/databases/mocks"
	"github.com/globnft/glob-rewards-api/models"
)

func submitRequest(t *testing.T, wallet, tweetURL string) *http.Request {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"wallet": wallet, "tweetUrl": tweetURL})
	return httptest.NewRequest("POST", "/api/v1/submissions", bytes.NewReader(body))
}

func TestSubmission_SubmitTweetHandler(t *testing.T) {
	tweetDB := &mocks.TweetTaskDatabase{}
	userDB := &mocks.UserDatabase{}

	tweetDB.On("FindOne", mock.Anything, bson.M{"tweetId": "1234567890"}).
		Return(nil, mongo.ErrNoDocuments)
	userDB.On("FindOne", mock.Anything, bson.M{"wallet": "0xuser"}).
		Return(&models.User{Wallet: "0xuser", Twitter: "globfan"}, nil)
	tweetDB.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil).Twice()
	tweetDB.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)

	// query string and trailing slash are stripped before matching
	req := submitRequest(t, "0xUSER", "https://x.com/GlobFan/status/1234567890/?s=20")
	rr := httptest.NewRecorder()

	s := handlers.Submission{DB: tweetDB, UDB: userDB}
	http.HandlerFunc(s.SubmitTweetHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success   bool             `json:"success"`
		TweetTask models.TweetTask `json:"tweetTask"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "1234567890", resp.TweetTask.TweetID)
	assert.Equal(t, models.TweetStatusPending, resp.TweetTask.Status)
	assert.Equal(t, "https://x.com/GlobFan/status/1234567890", resp.TweetTask.TweetURL)
}

func TestSubmission_SubmitTweetHandler_InvalidURL(t *testing.T) {
	s := handlers.Submission{DB: &mocks.TweetTaskDatabase{}, UDB: &mocks.UserDatabase{}}

	for _, url := range []string{
		"https://example.com/globfan/status/123",
		"https://x.com/status/123",
		"https://x.com/globfan/status/abc",
		"not a url",
	} {
		rr := httptest.NewRecorder()
		http.HandlerFunc(s.SubmitTweetHandler).ServeHTTP(rr, submitRequest(t, "0xuser", url))

		assert.Equal(t, http.StatusBadRequest, rr.Code, "url: %s", url)
		assert.Contains(t, rr.Body.String(), models.CodeInvalidURL, "url: %s", url)
	}
}

func TestSubmission_SubmitTweetHandler_Duplicate(t *testing.T) {
	tweetDB := &mocks.TweetTaskDatabase{}
	tweetDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.TweetTask{TweetID: "111", Status: models.TweetStatusPending}, nil)

	s := handlers.Submission{DB: tweetDB, UDB: &mocks.UserDatabase{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(s.SubmitTweetHandler).ServeHTTP(rr,
		submitRequest(t, "0xuser", "https://x.com/globfan/status/111"))

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), models.CodeDuplicateSubmission)
}

func TestSubmission_SubmitTweetHandler_PreviouslyRejected(t *testing.T) {
	tweetDB := &mocks.TweetTaskDatabase{}
	tweetDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.TweetTask{TweetID: "222", Status: models.TweetStatusRejected}, nil)

	s := handlers.Submission{DB: tweetDB, UDB: &mocks.UserDatabase{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(s.SubmitTweetHandler).ServeHTTP(rr,
		submitRequest(t, "0xuser", "https://x.com/globfan/status/222"))

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), models.CodePreviouslyRejected)
}

func TestSubmission_SubmitTweetHandler_SocialNotLinked(t *testing.T) {
	tweetDB := &mocks.TweetTaskDatabase{}
	userDB := &mocks.UserDatabase{}

	tweetDB.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)
	userDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.User{Wallet: "0xuser"}, nil)

	s := handlers.Submission{DB: tweetDB, UDB: userDB}
	rr := httptest.NewRecorder()
	http.HandlerFunc(s.SubmitTweetHandler).ServeHTTP(rr,
		submitRequest(t, "0xuser", "https://x.com/globfan/status/333"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), models.CodeSocialNotLinked)
}

func TestSubmission_SubmitTweetHandler_AccountMismatch(t *testing.T) {
	tweetDB := &mocks.TweetTaskDatabase{}
	userDB := &mocks.UserDatabase{}

	tweetDB.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)
	userDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.User{Wallet: "0xuser", Twitter: "someoneelse"}, nil)

	s := handlers.Submission{DB: tweetDB, UDB: userDB}
	rr := httptest.NewRecorder()
	http.HandlerFunc(s.SubmitTweetHandler).ServeHTTP(rr,
		submitRequest(t, "0xuser", "https://x.com/globfan/status/444"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), models.CodeAccountMismatch)
}

func TestSubmission_SubmitTweetHandler_DailyLimit(t *testing.T) {
	tweetDB := &mocks.TweetTaskDatabase{}
	userDB := &mocks.UserDatabase{}

	tweetDB.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)
	userDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.User{Wallet: "0xuser", Twitter: "globfan"}, nil)
	tweetDB.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(1), nil).Once()

	s := handlers.Submission{DB: tweetDB, UDB: userDB}
	rr := httptest.NewRecorder()
	http.HandlerFunc(s.SubmitTweetHandler).ServeHTTP(rr,
		submitRequest(t, "0xuser", "https://x.com/globfan/status/555"))

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, rr.Body.String(), models.CodeDailyLimitReached)
	tweetDB.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestSubmission_SubmitTweetHandler_WeeklyLimit(t *testing.T) {
	tweetDB := &mocks.TweetTaskDatabase{}
	userDB := &mocks.UserDatabase{}

	tweetDB.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)
	userDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.User{Wallet: "0xuser", Twitter: "globfan"}, nil)
	// under the daily cap but at the weekly cap
	tweetDB.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil).Once()
	tweetDB.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(2), nil).Once()

	s := handlers.Submission{DB: tweetDB, UDB: userDB}
	rr := httptest.NewRecorder()
	http.HandlerFunc(s.SubmitTweetHandler).ServeHTTP(rr,
		submitRequest(t, "0xuser", "https://x.com/globfan/status/666"))

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, rr.Body.String(), models.CodeWeeklyLimitReached)
	tweetDB.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestSubmission_SubmitTweetHandler_RaceLosesToUniqueIndex(t *testing.T) {
	tweetDB := &mocks.TweetTaskDatabase{}
	userDB := &mocks.UserDatabase{}

	tweetDB.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)
	userDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.User{Wallet: "0xuser", Twitter: "globfan"}, nil)
	tweetDB.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil).Twice()
	tweetDB.On("InsertOne", mock.Anything, mock.Anything).
		Return(nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}})

	s := handlers.Submission{DB: tweetDB, UDB: userDB}
	rr := httptest.NewRecorder()
	http.HandlerFunc(s.SubmitTweetHandler).ServeHTTP(rr,
		submitRequest(t, "0xuser", "https://x.com/globfan/status/777"))

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), models.CodeDuplicateSubmission)
}

func TestSubmission_MySubmissionsHandler(t *testing.T) {
	tweetDB := &mocks.TweetTaskDatabase{}
	tweetDB.On("Find", mock.Anything, bson.M{"wallet": "0xuser"}, mock.Anything).
		Return([]models.TweetTask{
			{TweetID: "2", Status: models.TweetStatusPending},
			{TweetID: "1", Status: models.TweetStatusVerified, PointsAwarded: 2},
		}, nil)

	req := httptest.NewRequest("GET", "/api/v1/submissions/mine?wallet=0xuser", nil)
	rr := httptest.NewRecorder()

	s := handlers.Submission{DB: tweetDB}
	http.HandlerFunc(s.MySubmissionsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Tweets []models.TweetTask `json:"tweets"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Tweets, 2)
}

func TestSubmission_MySubmissionsHandler_Empty(t *testing.T) {
	tweetDB := &mocks.TweetTaskDatabase{}
	tweetDB.On("Find", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil)

	req := httptest.NewRequest("GET", "/api/v1/submissions/mine?wallet=0xuser", nil)
	rr := httptest.NewRecorder()

	s := handlers.Submission{DB: tweetDB}
	http.HandlerFunc(s.MySubmissionsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"tweets": []}`, rr.Body.String())
}

func TestSubmission_WeeklyVerifiedCountHandler(t *testing.T) {
	tweetDB := &mocks.TweetTaskDatabase{}
	tweetDB.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(2), nil)

	req := httptest.NewRequest("GET", "/api/v1/submissions/weekly-count?wallet=0xuser", nil)
	rr := httptest.NewRecorder()

	s := handlers.Submission{DB: tweetDB}
	http.HandlerFunc(s.WeeklyVerifiedCountHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"count": 2}`, rr.Body.String())
}
