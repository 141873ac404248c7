package jobs

import (
	"context"
	"time"

	"WorkForce360/repository"
	"WorkForce360/services"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StaleSessionAge is how long a session may stay open before the sweep closes it.
const StaleSessionAge = 24 * time.Hour

type SessionSweeper interface {
	SweepStaleSessions(ctx context.Context, before time.Time) (int, error)
}

type PermissionSeeder interface {
	InitializeDefaultPermissions(ctx context.Context, t repository.Tenant, actor services.Actor) (int, error)
}

type RoleSeeder interface {
	SeedSystemRoles(ctx context.Context) (int, error)
}

/*
* System permissions first, the system roles are granted from them
 */
func SeedAccessControl(ctx context.Context, perms PermissionSeeder, roles RoleSeeder, log *logrus.Logger) error {
	created, err := perms.InitializeDefaultPermissions(ctx, repository.Tenant(""), services.SystemActor)
	if err != nil {
		log.WithError(err).Error("seeding system permissions failed")
		return err
	}
	seeded, err := roles.SeedSystemRoles(ctx)
	if err != nil {
		log.WithError(err).Error("seeding system roles failed")
		return err
	}
	log.WithFields(logrus.Fields{
		"permissions": created,
		"roles":       seeded,
	}).Info("access control seeded")
	return nil
}

// RunStaleSessionSweep closes sessions still open StaleSessionAge after now.
func RunStaleSessionSweep(ctx context.Context, sweeper SessionSweeper, now time.Time, log *logrus.Logger) int {
	closed, err := sweeper.SweepStaleSessions(ctx, now.Add(-StaleSessionAge))
	if err != nil {
		log.WithError(err).Error("stale session sweep failed")
		return 0
	}
	return closed
}

/*
* Runs every day at 00:05
* The returned scheduler is already started
 */
func StartDailyScheduler(sweeper SessionSweeper, log *logrus.Logger) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc("5 0 * * *", func() {
		log.Info("Running daily stale attendance sweep...")
		RunStaleSessionSweep(context.Background(), sweeper, time.Now(), log)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
