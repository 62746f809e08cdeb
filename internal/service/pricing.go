package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carpso-backend/internal/domain"
	"carpso-backend/internal/logger"
	"carpso-backend/internal/pricing"
	"carpso-backend/internal/repository"

	"github.com/google/uuid"
)

type pricingService struct {
	ruleRepo    repository.PricingRuleRepository
	passRepo    repository.UserPassRepository
	lotRepo     repository.ParkingLotRepository
	events      pricing.EventTable
	defaultRate float64
}

func NewPricingService(
	ruleRepo repository.PricingRuleRepository,
	passRepo repository.UserPassRepository,
	lotRepo repository.ParkingLotRepository,
	events pricing.EventTable,
	defaultRate float64,
) PricingService {
	if defaultRate <= 0 {
		defaultRate = pricing.DefaultHourlyRate
	}
	return &pricingService{
		ruleRepo:    ruleRepo,
		passRepo:    passRepo,
		lotRepo:     lotRepo,
		events:      events,
		defaultRate: defaultRate,
	}
}

func (s *pricingService) CalculateEstimatedCost(ctx context.Context, lotID string, durationMinutes int, userID string, tier domain.UserTier, now time.Time) (*pricing.Estimate, error) {
	if lotID == "" || durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: lot id and a positive duration are required", ErrInvalidInput)
	}
	if tier == "" {
		tier = domain.TierBasic
	}

	// An active, lot-compatible pass always wins: cost 0 regardless of
	// duration or rules.
	if userID != "" {
		if est := s.passEstimate(ctx, userID, lotID, now); est != nil {
			return est, nil
		}
	}

	rules, err := s.ruleRepo.List(ctx)
	if err != nil {
		// Evaluation never fails: price with no rules rather than break
		// the reservation flow.
		logger.ErrorContext(ctx, "pricing rule lookup failed, degrading to fallback", "lot_id", lotID, "error", err)
		rules = nil
	}

	lot := domain.ParkingLot{ID: lotID}
	if s.lotRepo != nil {
		if found, err := s.lotRepo.GetByID(ctx, lotID); err == nil {
			lot = *found
		} else if !errors.Is(err, repository.ErrNotFound) {
			logger.ErrorContext(ctx, "lot lookup failed, pricing by id only", "lot_id", lotID, "error", err)
		}
	}

	applicable := pricing.ApplicableRules(rules, lot, tier, now, s.events)
	est := pricing.Resolve(applicable, durationMinutes, s.defaultRate)
	return &est, nil
}

// passEstimate returns the zero-cost estimate when the user holds an
// active pass covering the lot, preferring the pass with the latest
// expiry whose rule definition still exists.
func (s *pricingService) passEstimate(ctx context.Context, userID, lotID string, now time.Time) *pricing.Estimate {
	passes, err := s.passRepo.ListActiveByUser(ctx, userID, now)
	if err != nil {
		logger.ErrorContext(ctx, "pass lookup failed, pricing without pass", "user_id", userID, "error", err)
		return nil
	}

	for _, p := range pricing.CoveringPasses(passes, lotID, now) {
		rule, err := s.ruleRepo.GetByID(ctx, p.PassRuleID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				logger.ErrorContext(ctx, "pass rule lookup failed", "rule_id", p.PassRuleID, "error", err)
			}
			continue
		}
		est := pricing.PassEstimate(rule.Description)
		return &est
	}
	return nil
}

func (s *pricingService) SavePricingRule(ctx context.Context, rule *domain.PricingRule) (*domain.PricingRule, error) {
	if rule == nil || rule.Description == "" {
		return nil, fmt.Errorf("%w: rule description is required", ErrInvalidInput)
	}
	if rule.RuleID == "" {
		rule.RuleID = uuid.NewString()
	}

	// A pass rule missing its type gets one inferred from the duration it
	// covers.
	if rule.IsPass && rule.PassType == "" && rule.FlatRateDurationMinutes != nil {
		rule.PassType = pricing.InferPassType(*rule.FlatRateDurationMinutes)
	}

	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "pricing rule saved", "rule_id", rule.RuleID, "priority", rule.Priority)
	return rule, nil
}

func (s *pricingService) DeletePricingRule(ctx context.Context, ruleID string) error {
	if ruleID == "" {
		return fmt.Errorf("%w: rule id is required", ErrInvalidInput)
	}
	return s.ruleRepo.Delete(ctx, ruleID)
}

func (s *pricingService) ListPricingRules(ctx context.Context) ([]domain.PricingRule, error) {
	return s.ruleRepo.List(ctx)
}
