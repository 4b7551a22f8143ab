package repository

import (
	"context"
	"fmt"

	"github.com/smallbiznis/atmn/internal/api"
	"github.com/smallbiznis/atmn/internal/catalog/mapping"
	"github.com/smallbiznis/atmn/internal/plan/domain"
	"github.com/smallbiznis/atmn/internal/shape"
)

// Client is the part of the API client the plan repository needs.
type Client interface {
	ListPlans(ctx context.Context) ([]shape.Object, error)
	CreatePlan(ctx context.Context, body shape.Object) (shape.Object, error)
	UpdatePlan(ctx context.Context, id string, body shape.Object) (shape.Object, error)
	DeletePlan(ctx context.Context, id string) error
	PlanDeletionInfo(ctx context.Context, id string) (shape.Object, error)
	PlanHasCustomers(ctx context.Context, id string) (shape.Object, error)
}

type repo struct {
	client Client
}

func Provide(client *api.Client) domain.Repository {
	return New(client)
}

func New(client Client) domain.Repository {
	return &repo{client: client}
}

func (r *repo) List(ctx context.Context) ([]domain.Plan, error) {
	items, err := r.client.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	return mapping.PlansFromWire(items)
}

func (r *repo) Create(ctx context.Context, plan domain.Plan) (*domain.Plan, error) {
	body, err := mapping.PlanToWire(plan)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.CreatePlan(ctx, body)
	if err != nil {
		return nil, err
	}
	return r.fromResponse(resp, plan)
}

func (r *repo) Update(ctx context.Context, plan domain.Plan) (*domain.Plan, error) {
	body, err := mapping.PlanToWire(plan)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.UpdatePlan(ctx, plan.ID, body)
	if err != nil {
		return nil, notFound(err, plan.ID)
	}
	return r.fromResponse(resp, plan)
}

func (r *repo) Delete(ctx context.Context, id string) error {
	return notFound(r.client.DeletePlan(ctx, id), id)
}

func (r *repo) Archive(ctx context.Context, id string) error {
	_, err := r.client.UpdatePlan(ctx, id, shape.Object{"archived": true})
	return notFound(err, id)
}

func (r *repo) DeletionInfo(ctx context.Context, id string) (domain.DeletionInfo, error) {
	resp, err := r.client.PlanDeletionInfo(ctx, id)
	if err != nil {
		return domain.DeletionInfo{}, notFound(err, id)
	}
	return mapping.DeletionInfoFromWire(resp)
}

func (r *repo) CustomerUsage(ctx context.Context, id string) (domain.CustomerUsage, error) {
	resp, err := r.client.PlanHasCustomers(ctx, id)
	if err != nil {
		return domain.CustomerUsage{}, notFound(err, id)
	}
	return mapping.CustomerUsageFromWire(resp)
}

func (r *repo) fromResponse(resp shape.Object, sent domain.Plan) (*domain.Plan, error) {
	if len(resp) == 0 || resp["id"] == nil {
		return &sent, nil
	}
	p, err := mapping.PlanFromWire(resp)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func notFound(err error, id string) error {
	if err != nil && api.IsNotFound(err) {
		return fmt.Errorf("plan %q: %w", id, domain.ErrNotFound)
	}
	return err
}
