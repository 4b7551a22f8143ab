package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/smallbiznis/atmn/internal/catalog"
	"github.com/smallbiznis/atmn/internal/configfile"
	featuredomain "github.com/smallbiznis/atmn/internal/feature/domain"
	plandomain "github.com/smallbiznis/atmn/internal/plan/domain"
	"github.com/smallbiznis/atmn/internal/push/domain"
	"github.com/smallbiznis/atmn/internal/pushplan"
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
}

func New(p Params) domain.Service {
	return &Service{
		log:       p.Log.Named("push.service"),
		features:  p.Features,
		plans:     p.Plans,
		confirmer: p.Confirmer,
	}
}

func (s *Service) Push(ctx context.Context, req domain.Request) (*domain.Result, error) {
	path := strings.TrimSpace(req.Path)
	if path == "" {
		return nil, domain.ErrInvalidPath
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	parsed := configfile.Scan(string(raw))
	for _, amb := range parsed.Ambiguities {
		s.log.Warn("block ignored", zap.String("path", path), zap.String("reason", amb.Error()))
	}
	local, err := parsed.Catalog()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	remote, err := catalog.Fetch(ctx, s.features, s.plans)
	if err != nil {
		return nil, err
	}

	analysis, err := pushplan.Analyze(ctx, local, remote, s.plans)
	if err != nil {
		return nil, err
	}
	for _, f := range analysis.ArchivedFeatures {
		s.log.Warn("feature is archived remotely and will not be pushed", zap.String("feature_id", f.ID))
	}
	for _, p := range analysis.ArchivedPlans {
		s.log.Warn("plan is archived remotely and will not be pushed", zap.String("plan_id", p.ID))
	}

	result := &domain.Result{
		Analysis:    analysis,
		Executed:    []pushplan.Step{},
		DryRun:      req.DryRun,
		Ambiguities: parsed.Ambiguities,
	}
	if req.DryRun || !analysis.HasChanges() {
		return result, nil
	}

	approvals, err := s.approvals(ctx, analysis, req.Yes)
	if err != nil {
		return nil, err
	}
	result.Approvals = approvals

	for _, step := range analysis.Steps(approvals) {
		if err := s.execute(ctx, step); err != nil {
			return result, fmt.Errorf("%s %s %s: %w", step.Action, step.Kind, step.ID, err)
		}
		result.Executed = append(result.Executed, step)
	}
	s.log.Info("push complete", zap.Int("steps", len(result.Executed)))
	return result, nil
}

func (s *Service) approvals(ctx context.Context, a *pushplan.PushAnalysis, yes bool) (pushplan.Approvals, error) {
	if yes {
		return pushplan.Approvals{Delete: true, Archive: true, Version: true}, nil
	}

	var deletable, blocked struct {
		features []pushplan.FeatureDeletion
		plans    []pushplan.PlanDeletion
	}
	for _, d := range a.FeaturesToDelete {
		if d.Blocked == nil {
			deletable.features = append(deletable.features, d)
		} else {
			blocked.features = append(blocked.features, d)
		}
	}
	for _, d := range a.PlansToDelete {
		if d.Blocked == nil {
			deletable.plans = append(deletable.plans, d)
		} else {
			blocked.plans = append(blocked.plans, d)
		}
	}
	versioned := a.VersionedPlans()

	var approvals pushplan.Approvals
	if s.confirmer == nil {
		if a.HasDeletions() || len(versioned) > 0 {
			s.log.Warn("deletions and plan versions need confirmation; rerun with --yes to apply them")
		}
		return approvals, nil
	}

	var err error
	if len(deletable.features)+len(deletable.plans) > 0 {
		if approvals.Delete, err = s.confirmer.ConfirmDeletion(ctx, deletable.features, deletable.plans); err != nil {
			return approvals, err
		}
	}
	if len(blocked.features)+len(blocked.plans) > 0 {
		if approvals.Archive, err = s.confirmer.ConfirmArchive(ctx, blocked.features, blocked.plans); err != nil {
			return approvals, err
		}
	}
	if len(versioned) > 0 {
		if approvals.Version, err = s.confirmer.ConfirmVersion(ctx, versioned); err != nil {
			return approvals, err
		}
	}
	return approvals, nil
}

func (s *Service) execute(ctx context.Context, step pushplan.Step) error {
	if step.Kind == catalog.KindFeature {
		switch step.Action {
		case pushplan.ActionCreate:
			_, err := s.features.Create(ctx, *step.Feature)
			return err
		case pushplan.ActionUpdate:
			_, err := s.features.Update(ctx, *step.Feature)
			return err
		case pushplan.ActionDelete:
			return s.features.Delete(ctx, step.ID)
		case pushplan.ActionArchive:
			return s.features.Archive(ctx, step.ID)
		}
		return fmt.Errorf("unsupported feature action %q", step.Action)
	}

	switch step.Action {
	case pushplan.ActionCreate:
		_, err := s.plans.Create(ctx, *step.Plan)
		return err
	case pushplan.ActionUpdate:
		_, err := s.plans.Update(ctx, *step.Plan)
		return err
	case pushplan.ActionVersion:
		_, err := s.plans.Version(ctx, *step.Plan)
		return err
	case pushplan.ActionDelete:
		return s.plans.Delete(ctx, step.ID)
	case pushplan.ActionArchive:
		return s.plans.Archive(ctx, step.ID)
	}
	return fmt.Errorf("unsupported plan action %q", step.Action)
}
