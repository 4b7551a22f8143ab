package domain

import "slices"

type Price struct {
	Amount   float64 `json:"amount"`
	Interval string  `json:"interval" validate:"required"`
}

type Reset struct {
	Interval      string `json:"interval" validate:"required"`
	IntervalCount *int   `json:"interval_count,omitempty"`
}

// Tier.To is a number or the string "inf".
type Tier struct {
	To     any     `json:"to"`
	Amount float64 `json:"amount"`
}

type FeaturePrice struct {
	Amount        *float64 `json:"amount,omitempty"`
	Tiers         []Tier   `json:"tiers,omitempty"`
	Interval      string   `json:"interval,omitempty"`
	IntervalCount *int     `json:"interval_count,omitempty"`
	BillingUnits  *float64 `json:"billing_units,omitempty"`
	BillingMethod string   `json:"billing_method" validate:"required"`
	MaxPurchase   *float64 `json:"max_purchase,omitempty"`
}

type Proration struct {
	OnIncrease string `json:"on_increase"`
	OnDecrease string `json:"on_decrease"`
}

type Rollover struct {
	Max                  *float64 `json:"max,omitempty"`
	ExpiryDurationType   string   `json:"expiry_duration_type" validate:"required"`
	ExpiryDurationLength *int     `json:"expiry_duration_length,omitempty"`
}

// PlanFeature grants a feature inside a plan. Included and Unlimited are
// mutually exclusive.
type PlanFeature struct {
	FeatureID string        `json:"feature_id" validate:"required"`
	Included  *float64      `json:"included,omitempty" validate:"excluded_with=Unlimited"`
	Unlimited bool          `json:"unlimited,omitempty"`
	Reset     *Reset        `json:"reset,omitempty"`
	Price     *FeaturePrice `json:"price,omitempty"`
	Proration *Proration    `json:"proration,omitempty"`
	Rollover  *Rollover     `json:"rollover,omitempty"`
}

type FreeTrial struct {
	DurationLength int    `json:"duration_length" validate:"gt=0"`
	DurationType   string `json:"duration_type" validate:"required,oneof=day month year"`
	CardRequired   bool   `json:"card_required"`
}

// Plan is the internal canonical form. AutoEnable is called "default" by the
// remote API.
type Plan struct {
	ID          string        `json:"id" validate:"required"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	Group       string        `json:"group"`
	AddOn       bool          `json:"add_on"`
	AutoEnable  bool          `json:"auto_enable"`
	Price       *Price        `json:"price,omitempty"`
	Features    []PlanFeature `json:"features" validate:"dive"`
	FreeTrial   *FreeTrial    `json:"free_trial,omitempty"`

	// Archived is reported by the remote API only and never written to source.
	Archived bool `json:"archived,omitempty"`
}

// References reports whether any plan feature grants featureID.
func (p Plan) References(featureID string) bool {
	for _, item := range p.Features {
		if item.FeatureID == featureID {
			return true
		}
	}
	return false
}

// Canonical returns the comparable form of p: archive state cleared, nil
// slices normalized, included dropped for unlimited grants and resets derived
// from the price interval wherever no explicit reset exists.
func (p Plan) Canonical() Plan {
	out := p
	out.Archived = false
	if p.Description != nil && *p.Description == "" {
		out.Description = nil
	}

	out.Features = make([]PlanFeature, 0, len(p.Features))
	for _, item := range p.Features {
		out.Features = append(out.Features, item.Canonical())
	}
	return out
}

func (pf PlanFeature) Canonical() PlanFeature {
	out := pf
	if pf.Unlimited {
		out.Included = nil
	}
	if pf.Price != nil {
		price := *pf.Price
		if len(price.Tiers) == 0 {
			price.Tiers = nil
		} else {
			price.Tiers = slices.Clone(price.Tiers)
		}
		out.Price = &price
	}
	if out.Reset == nil {
		out.Reset = DeriveReset(out.Price)
	}
	return out
}

// DeriveReset synthesizes a reset from a price interval. It returns nil when
// the price carries no interval.
func DeriveReset(price *FeaturePrice) *Reset {
	if price == nil || price.Interval == "" {
		return nil
	}
	reset := &Reset{Interval: price.Interval}
	if price.IntervalCount != nil {
		count := *price.IntervalCount
		reset.IntervalCount = &count
	}
	return reset
}

// DeletionInfo describes the customers holding a plan.
type DeletionInfo struct {
	CustomerCount     int    `json:"customer_count"`
	FirstCustomerName string `json:"first_customer_name,omitempty"`
}

// CustomerUsage answers whether an update has to create a new plan version.
type CustomerUsage struct {
	HasCustomers bool `json:"has_customers"`
}
