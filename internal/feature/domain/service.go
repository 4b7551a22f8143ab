package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Service writes features to the remote catalog. Create and Update validate
// before anything is sent.
type Service interface {
	List(ctx context.Context) ([]Feature, error)
	Create(ctx context.Context, feature Feature) (*Feature, error)
	Update(ctx context.Context, feature Feature) (*Feature, error)
	Delete(ctx context.Context, id string) error
	Archive(ctx context.Context, id string) error
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags and the type-dependent invariants:
// consumable is set exactly for metered features and credit_schema is
// only used by credit systems.
func (f Feature) Validate() error {
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "ID":
				return ErrInvalidID
			case "Type":
				return fmt.Errorf("%w: %q", ErrInvalidType, f.Type)
			}
		}
		return fmt.Errorf("feature %q: %w", f.ID, err)
	}

	switch f.Type {
	case FeatureTypeMetered:
		if f.Consumable == nil {
			return fmt.Errorf("feature %q: %w", f.ID, ErrInvalidConsumable)
		}
	case FeatureTypeBoolean:
		if f.Consumable != nil {
			return fmt.Errorf("feature %q: %w", f.ID, ErrInvalidConsumable)
		}
	}
	if len(f.CreditSchema) > 0 && f.Type != FeatureTypeCreditSystem {
		return fmt.Errorf("feature %q: %w", f.ID, ErrInvalidCreditSchema)
	}
	return nil
}

var (
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidType         = errors.New("invalid_feature_type")
	ErrInvalidConsumable   = errors.New("invalid_consumable")
	ErrInvalidCreditSchema = errors.New("invalid_credit_schema")
	ErrNotFound            = errors.New("not_found")
)
