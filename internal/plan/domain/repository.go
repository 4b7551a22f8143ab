package domain

import "context"

// Repository is the remote plan catalog. List includes archived plans.
type Repository interface {
	List(ctx context.Context) ([]Plan, error)
	Create(ctx context.Context, plan Plan) (*Plan, error)
	Update(ctx context.Context, plan Plan) (*Plan, error)
	Delete(ctx context.Context, id string) error
	Archive(ctx context.Context, id string) error
	DeletionInfo(ctx context.Context, id string) (DeletionInfo, error)
	CustomerUsage(ctx context.Context, id string) (CustomerUsage, error)
}
