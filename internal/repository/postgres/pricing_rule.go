package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carpso-backend/internal/domain"
	"carpso-backend/internal/repository"

	"github.com/lib/pq"
)

type pricingRuleRepository struct {
	db *sql.DB
}

func NewPricingRuleRepository(db *sql.DB) repository.PricingRuleRepository {
	return &pricingRuleRepository{db: db}
}

const pricingRuleColumns = `rule_id, lot_id, description, base_rate_per_hour, flat_rate,
	       flat_rate_duration_minutes, discount_percentage, time_days, time_start, time_end,
	       event_condition, tier_condition, is_pass, pass_type, priority`

func (r *pricingRuleRepository) Save(ctx context.Context, rule *domain.PricingRule) error {
	query := `INSERT INTO pricing_rules (rule_id, lot_id, description, base_rate_per_hour, flat_rate,
	              flat_rate_duration_minutes, discount_percentage, time_days, time_start, time_end,
	              event_condition, tier_condition, is_pass, pass_type, priority, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
	          ON CONFLICT (rule_id) DO UPDATE SET
	              lot_id = EXCLUDED.lot_id,
	              description = EXCLUDED.description,
	              base_rate_per_hour = EXCLUDED.base_rate_per_hour,
	              flat_rate = EXCLUDED.flat_rate,
	              flat_rate_duration_minutes = EXCLUDED.flat_rate_duration_minutes,
	              discount_percentage = EXCLUDED.discount_percentage,
	              time_days = EXCLUDED.time_days,
	              time_start = EXCLUDED.time_start,
	              time_end = EXCLUDED.time_end,
	              event_condition = EXCLUDED.event_condition,
	              tier_condition = EXCLUDED.tier_condition,
	              is_pass = EXCLUDED.is_pass,
	              pass_type = EXCLUDED.pass_type,
	              priority = EXCLUDED.priority`

	var days, tiers []string
	var timeStart, timeEnd string
	if rule.TimeCondition != nil {
		days = rule.TimeCondition.DaysOfWeek
		timeStart = rule.TimeCondition.StartTime
		timeEnd = rule.TimeCondition.EndTime
	}
	for _, t := range rule.UserTierCondition {
		tiers = append(tiers, string(t))
	}

	_, err := r.db.ExecContext(ctx, query,
		rule.RuleID, rule.LotID, rule.Description, rule.BaseRatePerHour, rule.FlatRate,
		rule.FlatRateDurationMinutes, rule.DiscountPercentage, pq.Array(days), timeStart, timeEnd,
		rule.EventCondition, pq.Array(tiers), rule.IsPass, string(rule.PassType), rule.Priority)
	return err
}

func (r *pricingRuleRepository) GetByID(ctx context.Context, ruleID string) (*domain.PricingRule, error) {
	query := `SELECT ` + pricingRuleColumns + ` FROM pricing_rules WHERE rule_id = $1`
	rule, err := scanPricingRule(r.db.QueryRowContext(ctx, query, ruleID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return rule, err
}

func (r *pricingRuleRepository) List(ctx context.Context) ([]domain.PricingRule, error) {
	// created_on breaks priority ties so resolution stays insertion-stable.
	query := `SELECT ` + pricingRuleColumns + ` FROM pricing_rules ORDER BY priority ASC, created_on ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []domain.PricingRule
	for rows.Next() {
		rule, err := scanPricingRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}

func (r *pricingRuleRepository) Delete(ctx context.Context, ruleID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pricing_rules WHERE rule_id = $1`, ruleID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPricingRule(row rowScanner) (*domain.PricingRule, error) {
	var rule domain.PricingRule
	var lotID sql.NullString
	var baseRate, flatRate, discount sql.NullFloat64
	var flatDuration sql.NullInt64
	var days, tiers pq.StringArray
	var timeStart, timeEnd, eventCondition, passType sql.NullString

	err := row.Scan(&rule.RuleID, &lotID, &rule.Description, &baseRate, &flatRate,
		&flatDuration, &discount, &days, &timeStart, &timeEnd,
		&eventCondition, &tiers, &rule.IsPass, &passType, &rule.Priority)
	if err != nil {
		return nil, err
	}

	if lotID.Valid {
		rule.LotID = &lotID.String
	}
	if baseRate.Valid {
		rule.BaseRatePerHour = &baseRate.Float64
	}
	if flatRate.Valid {
		rule.FlatRate = &flatRate.Float64
	}
	if flatDuration.Valid {
		d := int(flatDuration.Int64)
		rule.FlatRateDurationMinutes = &d
	}
	if discount.Valid {
		rule.DiscountPercentage = &discount.Float64
	}
	if len(days) > 0 || timeStart.String != "" || timeEnd.String != "" {
		rule.TimeCondition = &domain.TimeCondition{
			DaysOfWeek: days,
			StartTime:  timeStart.String,
			EndTime:    timeEnd.String,
		}
	}
	rule.EventCondition = eventCondition.String
	for _, t := range tiers {
		rule.UserTierCondition = append(rule.UserTierCondition, domain.UserTier(t))
	}
	rule.PassType = domain.PassType(passType.String)
	return &rule, nil
}
