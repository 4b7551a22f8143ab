package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	customerdomain "github.com/smallbiznis/atmn/internal/customer/domain"
	featuredomain "github.com/smallbiznis/atmn/internal/feature/domain"
	plandomain "github.com/smallbiznis/atmn/internal/plan/domain"
	"github.com/smallbiznis/atmn/internal/shape"
)

func FeatureFromWire(obj shape.Object) (featuredomain.Feature, error) {
	var out featuredomain.Feature
	err := transformInto(featureFromWire, obj, &out)
	return out, err
}

func FeaturesFromWire(items []shape.Object) ([]featuredomain.Feature, error) {
	out := make([]featuredomain.Feature, 0, len(items))
	for _, item := range items {
		f, err := FeatureFromWire(item)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func FeatureToWire(f featuredomain.Feature) (shape.Object, error) {
	return transformFrom(featureToWire, f)
}

func PlanFromWire(obj shape.Object) (plandomain.Plan, error) {
	var out plandomain.Plan
	err := transformInto(planFromWire, obj, &out)
	return out, err
}

func PlansFromWire(items []shape.Object) ([]plandomain.Plan, error) {
	out := make([]plandomain.Plan, 0, len(items))
	for _, item := range items {
		p, err := PlanFromWire(item)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func PlanToWire(p plandomain.Plan) (shape.Object, error) {
	return transformFrom(planToWire, p)
}

func DeletionInfoFromWire(obj shape.Object) (plandomain.DeletionInfo, error) {
	var out plandomain.DeletionInfo
	err := transformInto(deletionInfoFromWire, obj, &out)
	return out, err
}

func CustomerUsageFromWire(obj shape.Object) (plandomain.CustomerUsage, error) {
	var out plandomain.CustomerUsage
	err := transformInto(customerUsageFromWire, obj, &out)
	return out, err
}

func CustomerFromWire(obj shape.Object) (customerdomain.Customer, error) {
	var out customerdomain.Customer
	err := transformInto(customerFromWire, obj, &out)
	return out, err
}

// FeatureToSource returns the object printed into a feature({...}) call.
func FeatureToSource(f featuredomain.Feature) (shape.Object, error) {
	return transformFrom(featureSource, f)
}

// PlanToSource returns the object printed into a plan({...}) call.
func PlanToSource(p plandomain.Plan) (shape.Object, error) {
	return transformFrom(planSource, p)
}

// FeatureFromSource decodes an object literal read from the config file.
// The literal is already in internal shape; unknown keys are rejected.
func FeatureFromSource(obj shape.Object) (featuredomain.Feature, error) {
	var out featuredomain.Feature
	if err := decode(obj, &out); err != nil {
		return out, &shape.ShapeError{Shape: "feature_source", Value: obj["id"], Reason: err.Error()}
	}
	return out, nil
}

func PlanFromSource(obj shape.Object) (plandomain.Plan, error) {
	var out plandomain.Plan
	if err := decode(obj, &out); err != nil {
		return out, &shape.ShapeError{Shape: "plan_source", Value: obj["id"], Reason: err.Error()}
	}
	if out.Features == nil {
		out.Features = []plandomain.PlanFeature{}
	}
	return out, nil
}

func transformInto(t *shape.Transformer, obj shape.Object, out any) error {
	mapped, err := t.Apply(obj)
	if err != nil {
		return err
	}
	if err := decode(mapped, out); err != nil {
		return &shape.ShapeError{Shape: t.Name, Value: obj["id"], Reason: err.Error()}
	}
	return nil
}

func transformFrom(t *shape.Transformer, in any) (shape.Object, error) {
	obj, err := ToObject(in)
	if err != nil {
		return nil, err
	}
	return t.Apply(obj)
}

// ToObject converts a typed value into its JSON object form.
func ToObject(in any) (shape.Object, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", in, err)
	}
	var obj shape.Object
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("decode %T: %w", in, err)
	}
	return obj, nil
}

func decode(in shape.Object, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
