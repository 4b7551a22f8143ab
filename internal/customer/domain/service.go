package domain

import (
	"context"
	"errors"
)

type Service interface {
	ListAll(ctx context.Context) ([]Customer, error)
	// DeleteAll deletes every customer with bounded concurrency. A failed
	// deletion is reported in the result and does not stop the others.
	DeleteAll(ctx context.Context, customers []Customer) (DeleteAllResult, error)
}

var (
	ErrNotFound           = errors.New("not_found")
	ErrInvalidConcurrency = errors.New("invalid_concurrency")
)
