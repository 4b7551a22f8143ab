package domain

import "context"

type Repository interface {
	// List returns one page and the total number of customers.
	List(ctx context.Context, limit, offset int) ([]Customer, int, error)
	Delete(ctx context.Context, id string) error
}
