package mapping

import "github.com/smallbiznis/atmn/internal/shape"

// The source shapes decide which internal fields appear in generated code.
// Defaults (empty group, add_on false, auto_enable false) are left out so a
// generated block stays as small as the entity allows.

var featureSource = &shape.Transformer{
	Name:          "feature_source",
	Copy:          []string{"id", "name", "type"},
	Omit:          map[string]shape.Predicate{"name": shape.IsZero("name")},
	Required:      []string{"id", "type"},
	Discriminator: "type",
	Cases: map[string]*shape.Transformer{
		"boolean": {Name: "feature_source.boolean"},
		"metered": {
			Name:     "feature_source.metered",
			Copy:     []string{"consumable"},
			Required: []string{"consumable"},
		},
		"credit_system": {
			Name: "feature_source.credit_system",
			Compute: map[string]shape.ComputeFunc{
				"credit_schema": shape.Each("credit_schema", creditSchemaItemShape),
			},
		},
	},
}

var planFeatureSource = &shape.Transformer{
	Name: "plan_feature_source",
	Copy: []string{"feature_id", "included", "unlimited", "reset", "price", "proration", "rollover"},
	Omit: map[string]shape.Predicate{
		"included":  shape.Truthy("unlimited"),
		"unlimited": shape.IsZero("unlimited"),
	},
	Required: []string{"feature_id"},
}

var planSource = &shape.Transformer{
	Name: "plan_source",
	Copy: []string{"id", "name", "description", "group", "add_on", "auto_enable", "price", "free_trial"},
	Compute: map[string]shape.ComputeFunc{
		"features": shape.Each("features", planFeatureSource),
	},
	Defaults: map[string]any{"features": []any{}},
	Omit: map[string]shape.Predicate{
		"name":        shape.IsZero("name"),
		"description": shape.IsZero("description"),
		"group":       shape.IsZero("group"),
		"add_on":      shape.IsZero("add_on"),
		"auto_enable": shape.IsZero("auto_enable"),
	},
	Required: []string{"id"},
}
