package domain

import "slices"

type FeatureType string

const (
	FeatureTypeBoolean      FeatureType = "boolean"
	FeatureTypeMetered      FeatureType = "metered"
	FeatureTypeCreditSystem FeatureType = "credit_system"
)

// CreditSchemaItem prices one metered feature in units of a credit system.
type CreditSchemaItem struct {
	MeteredFeatureID string  `json:"metered_feature_id" validate:"required"`
	CreditCost       float64 `json:"credit_cost"`
}

// Feature is the internal canonical form shared by the config file and the CLI.
type Feature struct {
	ID           string             `json:"id" validate:"required"`
	Name         string             `json:"name"`
	Type         FeatureType        `json:"type" validate:"required,oneof=boolean metered credit_system"`
	Consumable   *bool              `json:"consumable,omitempty"`
	CreditSchema []CreditSchemaItem `json:"credit_schema,omitempty" validate:"dive"`

	// Archived is reported by the remote API only and never written to source.
	Archived bool `json:"archived,omitempty"`
}

func (f Feature) IsCreditSystem() bool {
	return f.Type == FeatureTypeCreditSystem
}

// References reports whether the credit schema prices featureID.
func (f Feature) References(featureID string) bool {
	for _, item := range f.CreditSchema {
		if item.MeteredFeatureID == featureID {
			return true
		}
	}
	return false
}

// Canonical returns the comparable form of f: archive state cleared and
// consumable/credit_schema normalized per feature type. Credit systems are
// always consumable.
func (f Feature) Canonical() Feature {
	out := f
	out.Archived = false

	switch f.Type {
	case FeatureTypeMetered:
		if f.Consumable != nil {
			out.Consumable = boolPtr(*f.Consumable)
		}
	case FeatureTypeCreditSystem:
		out.Consumable = boolPtr(true)
	default:
		out.Consumable = nil
	}

	if f.Type != FeatureTypeCreditSystem || len(f.CreditSchema) == 0 {
		out.CreditSchema = nil
	} else {
		out.CreditSchema = slices.Clone(f.CreditSchema)
	}
	return out
}

func boolPtr(v bool) *bool { return &v }
