// Package mapping holds the transformer configurations between the remote
// wire shape, the internal canonical shape and the generated source shape.
package mapping

import (
	"github.com/smallbiznis/atmn/internal/shape"
)

// Remote feature types.
const (
	WireBoolean       = "boolean"
	WireSingleUse     = "single_use"
	WireContinuousUse = "continuous_use"
	WireCreditSystem  = "credit_system"
)

var creditSchemaItemShape = &shape.Transformer{
	Name:     "credit_schema_item",
	Copy:     []string{"metered_feature_id", "credit_cost"},
	Required: []string{"metered_feature_id"},
}

var featureFromWire = &shape.Transformer{
	Name:          "feature",
	Copy:          []string{"id", "name", "archived"},
	Required:      []string{"id", "type"},
	Discriminator: "type",
	Cases: map[string]*shape.Transformer{
		WireBoolean: {
			Name:    "feature.boolean",
			Compute: map[string]shape.ComputeFunc{"type": shape.Const("boolean")},
		},
		WireSingleUse: {
			Name: "feature.single_use",
			Compute: map[string]shape.ComputeFunc{
				"type":       shape.Const("metered"),
				"consumable": shape.Const(true),
			},
		},
		WireContinuousUse: {
			Name: "feature.continuous_use",
			Compute: map[string]shape.ComputeFunc{
				"type":       shape.Const("metered"),
				"consumable": shape.Const(false),
			},
		},
		WireCreditSystem: {
			Name: "feature.credit_system",
			Compute: map[string]shape.ComputeFunc{
				"type":          shape.Const("credit_system"),
				"consumable":    shape.Const(true),
				"credit_schema": shape.Each("credit_schema", creditSchemaItemShape),
			},
		},
	},
}

var featureToWire = &shape.Transformer{
	Name:          "feature",
	Copy:          []string{"id", "name"},
	Required:      []string{"id", "type"},
	Discriminator: "type",
	Cases: map[string]*shape.Transformer{
		"boolean": {
			Name:    "feature.boolean",
			Compute: map[string]shape.ComputeFunc{"type": shape.Const(WireBoolean)},
		},
		"metered": {
			Name:    "feature.metered",
			Compute: map[string]shape.ComputeFunc{"type": meteredWireType},
		},
		"credit_system": {
			Name: "feature.credit_system",
			Compute: map[string]shape.ComputeFunc{
				"type":          shape.Const(WireCreditSystem),
				"credit_schema": shape.Each("credit_schema", creditSchemaItemShape),
			},
		},
	},
}

func meteredWireType(src shape.Object) (any, error) {
	consumable, ok := src["consumable"].(bool)
	if !ok {
		return nil, &shape.ShapeError{
			Shape:  "feature.metered",
			Field:  "consumable",
			Value:  src["consumable"],
			Reason: "metered features need a boolean consumable",
		}
	}
	if consumable {
		return WireSingleUse, nil
	}
	return WireContinuousUse, nil
}

var planPriceShape = &shape.Transformer{
	Name:     "plan.price",
	Copy:     []string{"amount", "interval"},
	Required: []string{"interval"},
}

var resetShape = &shape.Transformer{
	Name:     "reset",
	Copy:     []string{"interval", "interval_count"},
	Required: []string{"interval"},
}

var prorationShape = &shape.Transformer{
	Name: "proration",
	Copy: []string{"on_increase", "on_decrease"},
}

var featurePriceFromWire = &shape.Transformer{
	Name:   "price",
	Copy:   []string{"amount", "tiers", "interval", "interval_count", "billing_units", "max_purchase"},
	Rename: map[string]string{"usage_model": "billing_method"},
}

var featurePriceToWire = &shape.Transformer{
	Name:   "price",
	Copy:   []string{"amount", "tiers", "interval", "interval_count", "billing_units", "max_purchase"},
	Rename: map[string]string{"billing_method": "usage_model"},
}

var rolloverFromWire = &shape.Transformer{
	Name: "rollover",
	Copy: []string{"max"},
	Rename: map[string]string{
		"duration": "expiry_duration_type",
		"length":   "expiry_duration_length",
	},
}

var rolloverToWire = &shape.Transformer{
	Name: "rollover",
	Copy: []string{"max"},
	Rename: map[string]string{
		"expiry_duration_type":   "duration",
		"expiry_duration_length": "length",
	},
}

var freeTrialFromWire = &shape.Transformer{
	Name: "free_trial",
	Copy: []string{"card_required"},
	Rename: map[string]string{
		"length":   "duration_length",
		"duration": "duration_type",
	},
}

var freeTrialToWire = &shape.Transformer{
	Name: "free_trial",
	Copy: []string{"card_required"},
	Rename: map[string]string{
		"duration_length": "length",
		"duration_type":   "duration",
	},
}

var planFeatureFromWire = &shape.Transformer{
	Name:    "plan_feature",
	Copy:    []string{"feature_id", "unlimited"},
	Rename:  map[string]string{"granted_balance": "included"},
	Flatten: map[string]string{"feature.id": "feature_id"},
	Compute: map[string]shape.ComputeFunc{
		"price":     shape.Nested("price", featurePriceFromWire),
		"reset":     resetFromWire,
		"proration": shape.Nested("proration", prorationShape),
		"rollover":  shape.Nested("rollover", rolloverFromWire),
	},
	Omit: map[string]shape.Predicate{
		"included":  shape.Truthy("unlimited"),
		"unlimited": shape.IsZero("unlimited"),
	},
	Required: []string{"feature_id"},
}

// resetFromWire keeps an explicit reset and otherwise derives one from the
// price interval.
func resetFromWire(src shape.Object) (any, error) {
	if raw, ok := src["reset"]; ok && raw != nil {
		return shape.Nested("reset", resetShape)(src)
	}
	price, ok := src["price"].(shape.Object)
	if !ok {
		return nil, nil
	}
	interval, ok := price["interval"]
	if !ok || interval == nil || interval == "" {
		return nil, nil
	}
	reset := shape.Object{"interval": interval}
	if count, ok := price["interval_count"]; ok && count != nil {
		reset["interval_count"] = count
	}
	return reset, nil
}

var planFeatureToWire = &shape.Transformer{
	Name:   "plan_feature",
	Copy:   []string{"feature_id", "unlimited"},
	Rename: map[string]string{"included": "granted_balance"},
	Compute: map[string]shape.ComputeFunc{
		"price":     shape.Nested("price", featurePriceToWire),
		"reset":     shape.Nested("reset", resetShape),
		"proration": shape.Nested("proration", prorationShape),
		"rollover":  shape.Nested("rollover", rolloverToWire),
	},
	Omit: map[string]shape.Predicate{
		"granted_balance": shape.Truthy("unlimited"),
		"unlimited":       shape.IsZero("unlimited"),
	},
	Required: []string{"feature_id"},
}

var planFromWire = &shape.Transformer{
	Name:   "plan",
	Copy:   []string{"id", "name", "description", "group", "add_on", "archived"},
	Rename: map[string]string{"default": "auto_enable"},
	Compute: map[string]shape.ComputeFunc{
		"price":      shape.Nested("price", planPriceShape),
		"features":   shape.Each("features", planFeatureFromWire),
		"free_trial": shape.Nested("free_trial", freeTrialFromWire),
	},
	Defaults: map[string]any{
		"group":       "",
		"add_on":      false,
		"auto_enable": false,
		"features":    []any{},
	},
	Required: []string{"id"},
}

var planToWire = &shape.Transformer{
	Name:   "plan",
	Copy:   []string{"id", "name", "description", "group", "add_on"},
	Rename: map[string]string{"auto_enable": "default"},
	Compute: map[string]shape.ComputeFunc{
		"price":      shape.Nested("price", planPriceShape),
		"features":   shape.Each("features", planFeatureToWire),
		"free_trial": shape.Nested("free_trial", freeTrialToWire),
	},
	Defaults: map[string]any{
		"features": []any{},
	},
	Required: []string{"id"},
}

var deletionInfoFromWire = &shape.Transformer{
	Name:    "plan_deletion_info",
	Copy:    []string{"customer_count"},
	Flatten: map[string]string{"customer.name": "first_customer_name"},
	Compute: map[string]shape.ComputeFunc{
		"first_customer_name": customerDisplayFallback,
	},
	Defaults: map[string]any{"customer_count": 0},
}

// customerDisplayFallback names the customer by email or id when the remote
// record has no display name.
func customerDisplayFallback(src shape.Object) (any, error) {
	customer, ok := src["customer"].(shape.Object)
	if !ok {
		return nil, nil
	}
	if name, _ := customer["name"].(string); name != "" {
		return nil, nil
	}
	for _, key := range []string{"email", "id"} {
		if v, _ := customer[key].(string); v != "" {
			return v, nil
		}
	}
	return nil, nil
}

var customerUsageFromWire = &shape.Transformer{
	Name:     "plan_customer_usage",
	Copy:     []string{"has_customers"},
	Defaults: map[string]any{"has_customers": false},
}

var customerFromWire = &shape.Transformer{
	Name:     "customer",
	Copy:     []string{"id", "name", "email"},
	Required: []string{"id"},
}
