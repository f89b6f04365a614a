package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/globnft/glob-rewards-api/databases"
	"github.com/globnft/glob-rewards-api/models"
)

// activeInviteTarget is the number of live invites every account is topped
// up to. The top-up only ever adds codes, never revokes them.
const activeInviteTarget = 2

// Scheduler handles periodic background jobs for the rewards program
type Scheduler struct {
	cron       *cron.Cron
	IDB        databases.InviteCodeDatabase
	UDB        databases.UserDatabase
	LockDB     databases.SchedulerLockDatabase
	instanceID string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	iDB databases.InviteCodeDatabase,
	uDB databases.UserDatabase,
	lockDB databases.SchedulerLockDatabase,
) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		IDB:        iDB,
		UDB:        uDB,
		LockDB:     lockDB,
		instanceID: instanceID,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Top up every account to 2 active invites on Mondays at 3 AM UTC
	_, err := s.cron.AddFunc("0 3 * * 1", s.runWeeklyInviteTopUp)
	if err != nil {
		zap.S().Errorw("failed to register invite top-up job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Invite top-up scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Invite top-up scheduler stopped")
}

func (s *Scheduler) runWeeklyInviteTopUp() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Try to acquire distributed lock (10 minute TTL)
	acquired, err := s.LockDB.TryAcquireLock(ctx, "invite_topup_job", s.instanceID, 10*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for invite top-up job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Invite top-up job already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "invite_topup_job", s.instanceID)

	zap.S().Infow("Running weekly invite top-up job", "instance", s.instanceID)

	created, err := s.RunInviteTopUp(ctx)
	if err != nil {
		zap.S().Errorw("invite top-up job failed", "error", err, "created", created)
		return
	}

	zap.S().Infow("Weekly invite top-up complete", "created", created)
}

// RunInviteTopUp brings every account back up to 2 active (unused,
// unexpired) invites. The live count is re-checked immediately before each
// mint so concurrent redemptions can never push an account past the target.
// Returns the number of invites created. Shared by the cron job and the
// secret-guarded maintenance endpoint.
func (s *Scheduler) RunInviteTopUp(ctx context.Context) (int, error) {
	users, err := s.UDB.Find(ctx, bson.M{})
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	totalCreated := 0
	for _, user := range users {
		created, err := s.topUpUser(ctx, user, now)
		totalCreated += created
		if err != nil {
			return totalCreated, err
		}
	}
	return totalCreated, nil
}

func (s *Scheduler) topUpUser(ctx context.Context, user models.User, now time.Time) (int, error) {
	activeFilter := bson.M{
		"inviter": user.Wallet,
		"used":    false,
		"$or": []bson.M{
			{"expiresAt": nil},
			{"expiresAt": bson.M{"$gt": now}},
		},
	}

	count, err := s.IDB.CountDocuments(ctx, activeFilter)
	if err != nil {
		return 0, err
	}
	if count >= activeInviteTarget {
		return 0, nil
	}

	created := 0
	needed := activeInviteTarget - int(count)
	for i := 0; i < needed; i++ {
		// re-check the live count before every mint
		current, err := s.IDB.CountDocuments(ctx, activeFilter)
		if err != nil {
			return created, err
		}
		if current >= activeInviteTarget {
			break
		}

		minted, err := s.IDB.MintForInviter(ctx, user.Wallet, 1, now)
		if err != nil {
			return created, err
		}
		created++

		_, err = s.UDB.UpdateOne(ctx,
			bson.M{"wallet": user.Wallet},
			bson.M{"$push": bson.M{"invites": minted[0].ID}},
		)
		if err != nil {
			return created, err
		}
	}
	return created, nil
}
