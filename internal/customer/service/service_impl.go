package service

import (
	"context"
	"sync"

	"github.com/smallbiznis/atmn/internal/config"
	"github.com/smallbiznis/atmn/internal/customer/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const pageSize = 100

type Params struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
	Repo   domain.Repository
}

type Service struct {
	log         *zap.Logger
	repo        domain.Repository
	concurrency int
}

func New(p Params) domain.Service {
	return &Service{
		log:         p.Log.Named("customer.service"),
		repo:        p.Repo,
		concurrency: p.Config.Customers.DeleteConcurrency,
	}
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Customer, error) {
	var all []domain.Customer
	for offset := 0; ; {
		page, total, err := s.repo.List(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		offset += len(page)
		if len(page) == 0 || offset >= total {
			break
		}
	}
	s.log.Debug("listed customers", zap.Int("count", len(all)))
	return all, nil
}

func (s *Service) DeleteAll(ctx context.Context, customers []domain.Customer) (domain.DeleteAllResult, error) {
	if s.concurrency < 1 {
		return domain.DeleteAllResult{}, domain.ErrInvalidConcurrency
	}

	var (
		mu     sync.Mutex
		result = domain.DeleteAllResult{Failed: []domain.DeleteFailure{}}
	)

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, c := range customers {
		g.Go(func() error {
			err := s.repo.Delete(ctx, c.ID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.Warn("delete customer failed", zap.String("customer_id", c.ID), zap.Error(err))
				result.Failed = append(result.Failed, domain.DeleteFailure{Customer: c, Err: err, Message: err.Error()})
				return nil
			}
			result.Deleted++
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return result, err
	}
	s.log.Info("deleted customers", zap.Int("deleted", result.Deleted), zap.Int("failed", len(result.Failed)))
	return result, nil
}
