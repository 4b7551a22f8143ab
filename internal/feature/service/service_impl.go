package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/atmn/internal/feature/domain"
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
		log:  p.Log.Named("feature.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Feature, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Debug("listed features", zap.Int("count", len(items)))
	return items, nil
}

func (s *Service) Create(ctx context.Context, feature domain.Feature) (*domain.Feature, error) {
	feature.ID = strings.TrimSpace(feature.ID)
	if err := feature.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, feature)
	if err != nil {
		return nil, err
	}
	s.log.Info("created feature", zap.String("feature_id", feature.ID), zap.String("type", string(feature.Type)))
	return created, nil
}

func (s *Service) Update(ctx context.Context, feature domain.Feature) (*domain.Feature, error) {
	if err := feature.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, feature)
	if err != nil {
		return nil, err
	}
	s.log.Info("updated feature", zap.String("feature_id", feature.ID))
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("deleted feature", zap.String("feature_id", id))
	return nil
}

func (s *Service) Archive(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrInvalidID
	}
	if err := s.repo.Archive(ctx, id); err != nil {
		return err
	}
	s.log.Info("archived feature", zap.String("feature_id", id))
	return nil
}
