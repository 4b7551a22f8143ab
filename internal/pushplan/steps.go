package pushplan

import (
	"github.com/smallbiznis/atmn/internal/catalog"
	featuredomain "github.com/smallbiznis/atmn/internal/feature/domain"
	plandomain "github.com/smallbiznis/atmn/internal/plan/domain"
)

type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionVersion Action = "version"
	ActionDelete  Action = "delete"
	ActionArchive Action = "archive"
)

// Step is one remote write. Exactly one of Feature and Plan is set.
type Step struct {
	Action  Action                 `json:"action"`
	Kind    catalog.Kind           `json:"kind"`
	ID      string                 `json:"id"`
	Feature *featuredomain.Feature `json:"-"`
	Plan    *plandomain.Plan       `json:"-"`
}

// Approvals records what the user agreed to. Writes that need an approval
// are left out without it.
type Approvals struct {
	// Delete allows deleting unblocked candidates.
	Delete bool `json:"delete"`
	// Archive allows archiving blocked candidates instead of deleting them.
	Archive bool `json:"archive"`
	// Version allows updates that create a new plan version.
	Version bool `json:"version"`
}

// Steps orders the writes of a push: feature upserts, plan upserts, plan
// removals, then feature removals with credit systems first.
func (a *PushAnalysis) Steps(approvals Approvals) []Step {
	var steps []Step

	for i := range a.FeaturesToCreate {
		steps = append(steps, featureStep(ActionCreate, &a.FeaturesToCreate[i]))
	}
	for i := range a.FeaturesToUpdate {
		steps = append(steps, featureStep(ActionUpdate, &a.FeaturesToUpdate[i]))
	}

	for i := range a.PlansToCreate {
		steps = append(steps, planStep(ActionCreate, &a.PlansToCreate[i]))
	}
	for i := range a.PlansToUpdate {
		u := &a.PlansToUpdate[i]
		switch {
		case !u.WillVersion:
			steps = append(steps, planStep(ActionUpdate, &u.Plan))
		case approvals.Version:
			steps = append(steps, planStep(ActionVersion, &u.Plan))
		}
	}

	for i := range a.PlansToDelete {
		d := &a.PlansToDelete[i]
		if action, ok := removal(d.Blocked, approvals); ok {
			steps = append(steps, planStep(action, &d.Plan))
		}
	}
	for i := range a.FeaturesToDelete {
		d := &a.FeaturesToDelete[i]
		if action, ok := removal(d.Blocked, approvals); ok {
			steps = append(steps, featureStep(action, &d.Feature))
		}
	}
	return steps
}

func removal(blocked *DeletionBlockedError, approvals Approvals) (Action, bool) {
	switch {
	case blocked == nil && approvals.Delete:
		return ActionDelete, true
	case blocked != nil && approvals.Archive:
		return ActionArchive, true
	default:
		return "", false
	}
}

func featureStep(action Action, f *featuredomain.Feature) Step {
	return Step{Action: action, Kind: catalog.KindFeature, ID: f.ID, Feature: f}
}

func planStep(action Action, p *plandomain.Plan) Step {
	return Step{Action: action, Kind: catalog.KindPlan, ID: p.ID, Plan: p}
}
