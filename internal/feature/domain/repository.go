package domain

import "context"

// Repository is the remote feature catalog. List includes archived features.
type Repository interface {
	List(ctx context.Context) ([]Feature, error)
	Create(ctx context.Context, feature Feature) (*Feature, error)
	Update(ctx context.Context, feature Feature) (*Feature, error)
	Delete(ctx context.Context, id string) error
	Archive(ctx context.Context, id string) error
}
