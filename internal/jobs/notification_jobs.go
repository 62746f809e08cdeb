package jobs

import (
	"context"
	"time"

	"carpso-backend/internal/domain"
	"carpso-backend/internal/logger"
)

// SendPassExpiryReminders emails users whose passes expire within the next
// 24 hours.
func (jr *JobRunner) SendPassExpiryReminders() {
	jr.runWithRecovery("SendPassExpiryReminders", func() {
		ctx := context.Background()
		now := time.Now()

		passes, err := jr.services.PassRepo.ListExpiringBetween(ctx, now, now.Add(24*time.Hour))
		if err != nil {
			logger.Error("Failed to list expiring passes", "error", err)
			return
		}
		if len(passes) == 0 {
			return
		}

		count := 0
		for _, pass := range passes {
			rule, err := jr.services.RuleRepo.GetByID(ctx, pass.PassRuleID)
			if err != nil {
				logger.Error("Expiring pass references missing rule",
					"pass_id", pass.PassID, "rule_id", pass.PassRuleID, "error", err)
				continue
			}
			user, err := jr.services.UserRepo.GetByID(ctx, pass.UserID)
			if err != nil {
				logger.Error("Failed to look up pass holder", "user_id", pass.UserID, "error", err)
				continue
			}

			active := domain.ActivePass{Pass: pass, Rule: *rule}
			if err := jr.services.Notifier.SendPassExpiryReminder(ctx, user, active); err != nil {
				logger.Error("Failed to send pass expiry reminder",
					"user_id", user.ID, "pass_id", pass.PassID, "error", err)
				continue
			}
			count++
		}
		logger.Info("Sent pass expiry reminders", "count", count, "expiring", len(passes))
	})
}
