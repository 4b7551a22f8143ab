package catalog

import (
	"context"
	"fmt"

	featuredomain "github.com/smallbiznis/atmn/internal/feature/domain"
	plandomain "github.com/smallbiznis/atmn/internal/plan/domain"
	"golang.org/x/sync/errgroup"
)

type FeatureLister interface {
	List(ctx context.Context) ([]featuredomain.Feature, error)
}

type PlanLister interface {
	List(ctx context.Context) ([]plandomain.Plan, error)
}

// Fetch lists remote features and plans concurrently. Archived entities are
// included.
func Fetch(ctx context.Context, features FeatureLister, plans PlanLister) (Catalog, error) {
	var out Catalog
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := features.List(ctx)
		if err != nil {
			return fmt.Errorf("fetch features: %w", err)
		}
		out.Features = items
		return nil
	})
	g.Go(func() error {
		items, err := plans.List(ctx)
		if err != nil {
			return fmt.Errorf("fetch plans: %w", err)
		}
		out.Plans = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return Catalog{}, err
	}
	return out, nil
}

// Active drops archived entities.
func (c Catalog) Active() Catalog {
	out := Catalog{
		Features: make([]featuredomain.Feature, 0, len(c.Features)),
		Plans:    make([]plandomain.Plan, 0, len(c.Plans)),
	}
	for _, f := range c.Features {
		if !f.Archived {
			out.Features = append(out.Features, f)
		}
	}
	for _, p := range c.Plans {
		if !p.Archived {
			out.Plans = append(out.Plans, p)
		}
	}
	return out
}
