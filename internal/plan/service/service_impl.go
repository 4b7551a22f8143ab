package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/atmn/internal/plan/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		log:  p.Log.Named("plan.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Plan, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Debug("listed plans", zap.Int("count", len(items)))
	return items, nil
}

func (s *Service) Create(ctx context.Context, plan domain.Plan) (*domain.Plan, error) {
	plan.ID = strings.TrimSpace(plan.ID)
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	s.log.Info("created plan", zap.String("plan_id", plan.ID), zap.Int("features", len(plan.Features)))
	return created, nil
}

func (s *Service) Update(ctx context.Context, plan domain.Plan) (*domain.Plan, error) {
	return s.update(ctx, plan, "updated plan")
}

func (s *Service) Version(ctx context.Context, plan domain.Plan) (*domain.Plan, error) {
	return s.update(ctx, plan, "versioned plan")
}

func (s *Service) update(ctx context.Context, plan domain.Plan, msg string) (*domain.Plan, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, plan)
	if err != nil {
		return nil, err
	}
	s.log.Info(msg, zap.String("plan_id", plan.ID))
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("deleted plan", zap.String("plan_id", id))
	return nil
}

func (s *Service) Archive(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrInvalidID
	}
	if err := s.repo.Archive(ctx, id); err != nil {
		return err
	}
	s.log.Info("archived plan", zap.String("plan_id", id))
	return nil
}

func (s *Service) DeletionInfo(ctx context.Context, id string) (domain.DeletionInfo, error) {
	return s.repo.DeletionInfo(ctx, id)
}

func (s *Service) CustomerUsage(ctx context.Context, id string) (domain.CustomerUsage, error) {
	return s.repo.CustomerUsage(ctx, id)
}
