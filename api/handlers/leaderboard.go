package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/globnft/glob-rewards-api/api"
	"github.com/globnft/glob-rewards-api/config"
	"github.com/globnft/glob-rewards-api/databases"
	"github.com/globnft/glob-rewards-api/models"
)

// defaultLeaderboardLimit caps the ranking unless the caller asks for less
const defaultLeaderboardLimit = 100

// Leaderboard exported for testing purposes
type Leaderboard struct {
	DB databases.UserDatabase
}

// LeaderboardHandler returns accounts ranked by points, earlier registration
// breaking ties. Pure read.
func (l Leaderboard) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultLeaderboardLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 || parsed > defaultLeaderboardLimit {
			zap.S().Debugw("invalid leaderboard limit, using default", "limit", raw)
		} else {
			limit = parsed
		}
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	entries, err := l.DB.FindLeaderboard(ctx, limit)
	if err != nil {
		config.LedgerErrorStatus(w, err)
		return
	}
	if len(entries) == 0 {
		entries = []models.LeaderboardEntry{}
	}

	b, err := json.Marshal(map[string]interface{}{"users": entries})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
