package jobs

import (
	"context"
	"time"

	"carpso-backend/internal/logger"
)

// ExpireQueueHolds pops queue heads that were notified longer than the
// hold window ago and never claimed their spot, then notifies whoever is
// next in line.
func (jr *JobRunner) ExpireQueueHolds() {
	jr.runWithRecovery("ExpireQueueHolds", func() {
		ctx := context.Background()
		holdWindow := time.Duration(jr.config.Reservation.QueueHoldMinutes) * time.Minute
		cutoff := time.Now().Add(-holdWindow)

		stale := jr.queueMgr.StaleHeads(cutoff)
		if len(stale) == 0 {
			return
		}

		for _, head := range stale {
			popped, err := jr.services.Queue.RemoveFirstFromQueue(ctx, head.SpotID)
			if err != nil {
				logger.Error("Failed to expire queue hold", "spot_id", head.SpotID, "error", err)
				continue
			}
			if popped == nil || popped.UserID != head.UserID {
				// The queue moved under us since the scan; leave it alone.
				continue
			}
			logger.Info("Expired queue hold",
				"spot_id", head.SpotID, "user_id", head.UserID,
				"notified_at", head.NotifiedAt)

			if _, err := jr.services.Queue.NotifyNextInQueue(ctx, head.SpotID); err != nil {
				logger.Error("Failed to notify next waiter after expiry", "spot_id", head.SpotID, "error", err)
			}
		}
	})
}

// SweepStaleSessions cancels reservation sessions that were orphaned:
// created long ago and never cleaned up. Sessions normally end themselves,
// so this is a safety net.
func (jr *JobRunner) SweepStaleSessions() {
	jr.runWithRecovery("SweepStaleSessions", func() {
		ctx := context.Background()
		timeout := time.Duration(jr.config.Reservation.SpotTimeoutSeconds) * time.Second
		// Anything older than ten full countdown windows has no live
		// client behind it.
		cutoff := time.Now().Add(-10 * timeout)

		for _, s := range jr.sessions.Stale(cutoff) {
			if err := jr.services.Reservation.CancelSession(ctx, s.ID); err != nil {
				logger.Error("Failed to sweep stale session", "session_id", s.ID, "error", err)
				continue
			}
			logger.Info("Swept stale session", "session_id", s.ID, "spot_id", s.SpotID, "created_at", s.CreatedAt)
		}
	})
}
