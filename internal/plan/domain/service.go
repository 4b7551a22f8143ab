package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Service writes plans to the remote catalog and answers customer questions
// about them.
type Service interface {
	List(ctx context.Context) ([]Plan, error)
	Create(ctx context.Context, plan Plan) (*Plan, error)
	Update(ctx context.Context, plan Plan) (*Plan, error)
	// Version updates a plan that customers hold; the API keeps the old
	// version for them.
	Version(ctx context.Context, plan Plan) (*Plan, error)
	Delete(ctx context.Context, id string) error
	Archive(ctx context.Context, id string) error
	DeletionInfo(ctx context.Context, id string) (DeletionInfo, error)
	CustomerUsage(ctx context.Context, id string) (CustomerUsage, error)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (p Plan) Validate() error {
	if p.ID == "" {
		return ErrInvalidID
	}
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Included" {
			return fmt.Errorf("plan %q: %w", p.ID, ErrIncludedWithUnlimited)
		}
		return fmt.Errorf("plan %q: %w", p.ID, err)
	}
	return nil
}

var (
	ErrInvalidID             = errors.New("invalid_id")
	ErrIncludedWithUnlimited = errors.New("included_with_unlimited")
	ErrNotFound              = errors.New("not_found")
)
