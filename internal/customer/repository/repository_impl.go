package repository

import (
	"context"
	"fmt"

	"github.com/smallbiznis/atmn/internal/api"
	"github.com/smallbiznis/atmn/internal/catalog/mapping"
	"github.com/smallbiznis/atmn/internal/customer/domain"
)

// Client is the part of the API client the customer repository needs.
type Client interface {
	ListCustomers(ctx context.Context, limit, offset int) (api.CustomerPage, error)
	DeleteCustomer(ctx context.Context, id string) error
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

func (r *repo) List(ctx context.Context, limit, offset int) ([]domain.Customer, int, error) {
	page, err := r.client.ListCustomers(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	customers := make([]domain.Customer, 0, len(page.List))
	for _, item := range page.List {
		c, err := mapping.CustomerFromWire(item)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, page.Total, nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	err := r.client.DeleteCustomer(ctx, id)
	if err != nil && api.IsNotFound(err) {
		return fmt.Errorf("customer %q: %w", id, domain.ErrNotFound)
	}
	return err
}
