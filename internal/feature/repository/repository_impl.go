package repository

import (
	"context"
	"fmt"

	"github.com/smallbiznis/atmn/internal/api"
	"github.com/smallbiznis/atmn/internal/catalog/mapping"
	"github.com/smallbiznis/atmn/internal/feature/domain"
	"github.com/smallbiznis/atmn/internal/shape"
)

// Client is the part of the API client the feature repository needs.
type Client interface {
	ListFeatures(ctx context.Context) ([]shape.Object, error)
	CreateFeature(ctx context.Context, body shape.Object) (shape.Object, error)
	UpdateFeature(ctx context.Context, id string, body shape.Object) (shape.Object, error)
	DeleteFeature(ctx context.Context, id string) error
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

func (r *repo) List(ctx context.Context) ([]domain.Feature, error) {
	items, err := r.client.ListFeatures(ctx)
	if err != nil {
		return nil, err
	}
	return mapping.FeaturesFromWire(items)
}

func (r *repo) Create(ctx context.Context, feature domain.Feature) (*domain.Feature, error) {
	body, err := mapping.FeatureToWire(feature)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.CreateFeature(ctx, body)
	if err != nil {
		return nil, err
	}
	return r.fromResponse(resp, feature)
}

func (r *repo) Update(ctx context.Context, feature domain.Feature) (*domain.Feature, error) {
	body, err := mapping.FeatureToWire(feature)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.UpdateFeature(ctx, feature.ID, body)
	if err != nil {
		return nil, notFound(err, feature.ID)
	}
	return r.fromResponse(resp, feature)
}

func (r *repo) Delete(ctx context.Context, id string) error {
	return notFound(r.client.DeleteFeature(ctx, id), id)
}

func (r *repo) Archive(ctx context.Context, id string) error {
	_, err := r.client.UpdateFeature(ctx, id, shape.Object{"archived": true})
	return notFound(err, id)
}

// fromResponse falls back to the sent feature when the API answers without
// a feature body.
func (r *repo) fromResponse(resp shape.Object, sent domain.Feature) (*domain.Feature, error) {
	if len(resp) == 0 || resp["id"] == nil {
		return &sent, nil
	}
	f, err := mapping.FeatureFromWire(resp)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func notFound(err error, id string) error {
	if err != nil && api.IsNotFound(err) {
		return fmt.Errorf("feature %q: %w", id, domain.ErrNotFound)
	}
	return err
}
