package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/globnft/glob-rewards-api/api"
	"github.com/globnft/glob-rewards-api/api/scheduler"
	"github.com/globnft/glob-rewards-api/config"
	"github.com/globnft/glob-rewards-api/databases"
	"github.com/globnft/glob-rewards-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Scheduler *scheduler.Scheduler
	dbHelper  databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := mux.NewRouter()

	udb := databases.NewUserDatabase(a.dbHelper)
	idb := databases.NewInviteCodeDatabase(a.dbHelper)
	tdb := databases.NewTweetTaskDatabase(a.dbHelper)

	inv := Invite{DB: idb, UDB: udb, CronSecret: a.Config.CronSecret, TopUp: a.Scheduler}
	u := User{DB: udb}
	sub := Submission{DB: tdb, UDB: udb}
	rev := Review{DB: tdb, UDB: udb, AdminWallets: a.Config.AdminWallets, BearerToken: a.Config.TwitterBearerToken}
	lb := Leaderboard{DB: udb}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/invite/redeem", api.Middleware(http.HandlerFunc(inv.RedeemInviteHandler))).Methods("POST")
	apiCreate.Handle("/invite/seed", api.Middleware(http.HandlerFunc(inv.SeedInviteHandler))).Methods("POST")
	apiCreate.Handle("/invites/mine", api.Middleware(http.HandlerFunc(inv.MyInvitesHandler))).Methods("POST")
	apiCreate.Handle("/invites/top-up", api.Middleware(http.HandlerFunc(inv.TopUpHandler))).Methods("POST", "GET")

	apiCreate.Handle("/user/check", api.Middleware(http.HandlerFunc(u.CheckUserHandler))).Methods("GET")
	apiCreate.Handle("/user/social/link", api.Middleware(http.HandlerFunc(u.LinkSocialHandler))).Methods("POST")
	apiCreate.Handle("/user/social/unlink", api.Middleware(http.HandlerFunc(u.UnlinkSocialHandler))).Methods("POST")

	apiCreate.Handle("/submissions", api.Middleware(http.HandlerFunc(sub.SubmitTweetHandler))).Methods("POST")
	apiCreate.Handle("/submissions/mine", api.Middleware(http.HandlerFunc(sub.MySubmissionsHandler))).Methods("GET")
	apiCreate.Handle("/submissions/weekly-count", api.Middleware(http.HandlerFunc(sub.WeeklyVerifiedCountHandler))).Methods("GET")

	apiCreate.Handle("/review/pending", api.Middleware(http.HandlerFunc(rev.PendingSubmissionsHandler))).Methods("GET")
	apiCreate.Handle("/review/decide", api.Middleware(http.HandlerFunc(rev.DecideHandler))).Methods("POST")
	apiCreate.Handle("/review/batch-check", api.Middleware(http.HandlerFunc(rev.BatchCheckHandler))).Methods("POST")

	apiCreate.Handle("/leaderboard", api.Middleware(http.HandlerFunc(lb.LeaderboardHandler))).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("glob-rewards-api has connected to the database")

	ctx, cancel := api.WithQueryTimeout(nil)
	defer cancel()
	if err := databases.EnsureIndexes(ctx, a.dbHelper); err != nil {
		zap.S().With(err).Error("failed to ensure indexes")
		return err
	}

	a.Scheduler = scheduler.NewScheduler(
		databases.NewInviteCodeDatabase(a.dbHelper),
		databases.NewUserDatabase(a.dbHelper),
		databases.NewSchedulerLockDatabase(a.dbHelper),
	)
	a.Scheduler.Start()

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
