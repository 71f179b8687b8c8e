package cron

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dariomolina/intranet-auth/store"
)

// StartJobs launches the background scheduler. One job for now: an hourly
// sweep nulling out password-reset tokens whose expiry has passed, so
// stale tokens don't sit in the users table. Redemption re-checks expiry
// on its own; the sweep is hygiene, not enforcement.
func StartJobs(users store.UserStore, logger *slog.Logger) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("@hourly", func() {
		cleared, err := users.ClearExpiredResetTokens(time.Now())
		if err != nil {
			logger.Error("failed to clear expired reset tokens", "error", err)
			return
		}
		if cleared > 0 {
			logger.Info("cleared expired reset tokens", "count", cleared)
		}
	})
	if err != nil {
		logger.Error("failed to register reset token sweep", "error", err)
		return c
	}

	c.Start()
	logger.Info("cron scheduler started")
	return c
}
