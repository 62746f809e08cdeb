package domain

type UserTier string

const (
	TierBasic   UserTier = "Basic"
	TierPremium UserTier = "Premium"
)

type PassType string

const (
	PassTypeHourly  PassType = "Hourly"
	PassTypeDaily   PassType = "Daily"
	PassTypeWeekly  PassType = "Weekly"
	PassTypeMonthly PassType = "Monthly"
	PassTypeYearly  PassType = "Yearly"
)

// TimeCondition restricts a rule to certain days of the week and/or a
// daily HH:MM window. The window does not wrap past midnight.
type TimeCondition struct {
	DaysOfWeek []string `json:"days_of_week,omitempty"` // "Mon".."Sun"
	StartTime  string   `json:"start_time,omitempty"`   // "HH:MM", inclusive
	EndTime    string   `json:"end_time,omitempty"`     // "HH:MM", exclusive
}

// PricingRule drives dynamic cost calculation. A rule carries exactly one
// rate mode: either BaseRatePerHour, or FlatRate + FlatRateDurationMinutes.
// A rule with neither is a discount-only rule and borrows its rate from the
// next applicable rule. Lower Priority wins; ties keep insertion order.
type PricingRule struct {
	RuleID                  string         `json:"rule_id"`
	LotID                   *string        `json:"lot_id,omitempty"` // nil means global
	Description             string         `json:"description"`
	BaseRatePerHour         *float64       `json:"base_rate_per_hour,omitempty"`
	FlatRate                *float64       `json:"flat_rate,omitempty"`
	FlatRateDurationMinutes *int           `json:"flat_rate_duration_minutes,omitempty"`
	DiscountPercentage      *float64       `json:"discount_percentage,omitempty"`
	TimeCondition           *TimeCondition `json:"time_condition,omitempty"`
	EventCondition          string         `json:"event_condition,omitempty"`
	UserTierCondition       []UserTier     `json:"user_tier_condition,omitempty"`
	IsPass                  bool           `json:"is_pass"`
	PassType                PassType       `json:"pass_type,omitempty"`
	Priority                int            `json:"priority"`
}

// AppliesTo reports whether the rule is scoped to the given lot, either
// globally or by explicit lot id.
func (r *PricingRule) AppliesTo(lotID string) bool {
	return r.LotID == nil || *r.LotID == lotID
}

// HasRate reports whether the rule defines a rate of its own.
func (r *PricingRule) HasRate() bool {
	return r.BaseRatePerHour != nil || (r.FlatRate != nil && r.FlatRateDurationMinutes != nil)
}
