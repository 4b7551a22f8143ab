package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/smallbiznis/atmn/internal/catalog"
	"github.com/smallbiznis/atmn/internal/codegen"
	"github.com/smallbiznis/atmn/internal/configfile"
	featuredomain "github.com/smallbiznis/atmn/internal/feature/domain"
	"github.com/smallbiznis/atmn/internal/fileutil"
	"github.com/smallbiznis/atmn/internal/merge"
	plandomain "github.com/smallbiznis/atmn/internal/plan/domain"
	"github.com/smallbiznis/atmn/internal/pull/domain"
	"github.com/smallbiznis/atmn/internal/shape"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Features  featuredomain.Service
	Plans     plandomain.Service
	Confirmer domain.Confirmer `optional:"true"`
}

type Service struct {
	log       *zap.Logger
	features  featuredomain.Service
	plans     plandomain.Service
	confirmer domain.Confirmer
	writeFile func(path string, data []byte) error
}

func New(p Params) domain.Service {
	return &Service{
		log:       p.Log.Named("pull.service"),
		features:  p.Features,
		plans:     p.Plans,
		confirmer: p.Confirmer,
		writeFile: fileutil.WriteFileAtomic,
	}
}

func (s *Service) Pull(ctx context.Context, req domain.Request) (*domain.Result, error) {
	path := strings.TrimSpace(req.Path)
	if path == "" {
		return nil, domain.ErrInvalidPath
	}

	remote, err := catalog.Fetch(ctx, s.features, s.plans)
	if err != nil {
		return nil, err
	}
	remote = remote.Active()
	s.log.Debug("fetched remote catalog",
		zap.Int("features", len(remote.Features)),
		zap.Int("plans", len(remote.Plans)),
	)

	existing, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s.generate(path, remote, "")
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	case req.Force:
		return s.generate(path, remote, "")
	}

	result, err := s.merge(ctx, path, string(existing), remote)
	if err == nil {
		return result, nil
	}

	var (
		mergeErr *merge.MergeWriteError
		shapeErr *shape.ShapeError
	)
	if !errors.As(err, &mergeErr) || errors.As(err, &shapeErr) {
		return nil, err
	}
	s.log.Warn("merge failed, regenerating the whole file", zap.String("path", path), zap.Error(err))
	return s.generate(path, remote, err.Error())
}

func (s *Service) merge(ctx context.Context, path, existing string, remote catalog.Catalog) (*domain.Result, error) {
	parsed := configfile.Scan(existing)
	for _, amb := range parsed.Ambiguities {
		s.log.Warn("block left untouched", zap.String("path", path), zap.String("reason", amb.Error()))
	}

	rec, err := merge.Reconcile(parsed, remote)
	if err != nil {
		return nil, err
	}

	candidates := rec.DeletionCandidates()
	deleteConfirmed := false
	if len(candidates) > 0 && s.confirmer != nil {
		deleteConfirmed, err = s.confirmer.ConfirmLocalDeletion(ctx, candidates)
		if err != nil {
			return nil, err
		}
	}

	text, update, err := rec.Render(merge.RenderOptions{Delete: deleteConfirmed})
	if err != nil {
		return nil, err
	}

	result := &domain.Result{
		Path:        path,
		Mode:        domain.ModeMerged,
		Update:      update,
		Candidates:  candidates,
		Deleted:     deleteConfirmed,
		Ambiguities: parsed.Ambiguities,
	}
	if text == existing {
		result.Mode = domain.ModeUnchanged
		return result, nil
	}
	if err := s.writeFile(path, []byte(text)); err != nil {
		return nil, err
	}
	s.log.Info("merged config file", zap.String("path", path), zap.Any("update", update))
	return result, nil
}

func (s *Service) generate(path string, remote catalog.Catalog, fallbackReason string) (*domain.Result, error) {
	text, err := codegen.GenerateFile(remote)
	if err != nil {
		return nil, err
	}
	if err := s.writeFile(path, []byte(text)); err != nil {
		return nil, err
	}
	s.log.Info("generated config file", zap.String("path", path))

	return &domain.Result{
		Path: path,
		Mode: domain.ModeGenerated,
		Update: merge.UpdateResult{
			FeaturesAdded: len(remote.Features),
			PlansAdded:    len(remote.Plans),
		},
		Candidates:     []merge.Candidate{},
		FallbackReason: fallbackReason,
	}, nil
}
