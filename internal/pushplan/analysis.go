// Package pushplan decides what a push does to the remote catalog: which
// features and plans to create, update, version, delete or archive, and in
// which order.
package pushplan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/smallbiznis/atmn/internal/catalog"
	featuredomain "github.com/smallbiznis/atmn/internal/feature/domain"
	plandomain "github.com/smallbiznis/atmn/internal/plan/domain"
	"golang.org/x/sync/errgroup"
)

// usageLookupLimit bounds concurrent customer lookups against the API.
const usageLookupLimit = 4

// UsageSource answers customer questions about remote plans.
type UsageSource interface {
	DeletionInfo(ctx context.Context, id string) (plandomain.DeletionInfo, error)
	CustomerUsage(ctx context.Context, id string) (plandomain.CustomerUsage, error)
}

// DeletionBlockedError explains why a remote entity cannot be deleted. It
// annotates a candidate and is never returned as a failure.
type DeletionBlockedError struct {
	Kind              catalog.Kind `json:"kind"`
	ID                string       `json:"id"`
	Referrers         []string     `json:"referrers,omitempty"`
	CustomerCount     int          `json:"customer_count,omitempty"`
	FirstCustomerName string       `json:"first_customer_name,omitempty"`
}

func (e *DeletionBlockedError) Error() string {
	if len(e.Referrers) > 0 {
		return fmt.Sprintf("%s %s is referenced by %s", e.Kind, e.ID, strings.Join(e.Referrers, ", "))
	}
	if e.FirstCustomerName != "" {
		return fmt.Sprintf("%s %s has %d customer(s), including %s", e.Kind, e.ID, e.CustomerCount, e.FirstCustomerName)
	}
	return fmt.Sprintf("%s %s has %d customer(s)", e.Kind, e.ID, e.CustomerCount)
}

type FeatureDeletion struct {
	Feature featuredomain.Feature `json:"feature"`
	Blocked *DeletionBlockedError `json:"blocked,omitempty"`
}

type PlanUpdate struct {
	Plan plandomain.Plan `json:"plan"`
	// WillVersion is set when customers hold the plan: the update creates a
	// new version instead of changing it in place.
	WillVersion bool `json:"will_version"`
}

type PlanDeletion struct {
	Plan    plandomain.Plan       `json:"plan"`
	Blocked *DeletionBlockedError `json:"blocked,omitempty"`
}

type PushAnalysis struct {
	FeaturesToCreate []featuredomain.Feature `json:"features_to_create"`
	FeaturesToUpdate []featuredomain.Feature `json:"features_to_update"`
	FeaturesToDelete []FeatureDeletion       `json:"features_to_delete"`
	PlansToCreate    []plandomain.Plan       `json:"plans_to_create"`
	PlansToUpdate    []PlanUpdate            `json:"plans_to_update"`
	PlansToDelete    []PlanDeletion          `json:"plans_to_delete"`

	// Local entities that are archived remotely. They are reported only.
	ArchivedFeatures []featuredomain.Feature `json:"archived_features"`
	ArchivedPlans    []plandomain.Plan       `json:"archived_plans"`
}

// HasChanges reports whether the push would change anything remotely.
func (a *PushAnalysis) HasChanges() bool {
	return len(a.FeaturesToCreate)+len(a.FeaturesToUpdate)+len(a.FeaturesToDelete)+
		len(a.PlansToCreate)+len(a.PlansToUpdate)+len(a.PlansToDelete) > 0
}

// HasDeletions reports whether any entity would be deleted or archived.
func (a *PushAnalysis) HasDeletions() bool {
	return len(a.FeaturesToDelete)+len(a.PlansToDelete) > 0
}

// HasBlockedDeletions reports whether any deletion candidate is blocked.
func (a *PushAnalysis) HasBlockedDeletions() bool {
	return slices.ContainsFunc(a.FeaturesToDelete, func(d FeatureDeletion) bool { return d.Blocked != nil }) ||
		slices.ContainsFunc(a.PlansToDelete, func(d PlanDeletion) bool { return d.Blocked != nil })
}

// VersionedPlans lists the plans whose update creates a new version.
func (a *PushAnalysis) VersionedPlans() []plandomain.Plan {
	var out []plandomain.Plan
	for _, u := range a.PlansToUpdate {
		if u.WillVersion {
			out = append(out, u.Plan)
		}
	}
	return out
}

// Analyze compares the local catalog with the remote one. Only read-only
// usage lookups reach the API.
func Analyze(ctx context.Context, local, remote catalog.Catalog, usage UsageSource) (*PushAnalysis, error) {
	a := &PushAnalysis{
		FeaturesToCreate: []featuredomain.Feature{},
		FeaturesToUpdate: []featuredomain.Feature{},
		FeaturesToDelete: []FeatureDeletion{},
		PlansToCreate:    []plandomain.Plan{},
		PlansToUpdate:    []PlanUpdate{},
		PlansToDelete:    []PlanDeletion{},
		ArchivedFeatures: []featuredomain.Feature{},
		ArchivedPlans:    []plandomain.Plan{},
	}

	for _, f := range local.Features {
		r, ok := remote.Feature(f.ID)
		switch {
		case !ok:
			a.FeaturesToCreate = append(a.FeaturesToCreate, f)
		case r.Archived:
			a.ArchivedFeatures = append(a.ArchivedFeatures, f)
		case !sameCanonical(f.Canonical(), r.Canonical()):
			a.FeaturesToUpdate = append(a.FeaturesToUpdate, f)
		}
	}
	// Credit systems are created after the features they price.
	slices.SortStableFunc(a.FeaturesToCreate, creditSystemsLast)

	var updated []plandomain.Plan
	for _, p := range local.Plans {
		r, ok := remote.Plan(p.ID)
		switch {
		case !ok:
			a.PlansToCreate = append(a.PlansToCreate, p)
		case r.Archived:
			a.ArchivedPlans = append(a.ArchivedPlans, p)
		case !sameCanonical(p.Canonical(), r.Canonical()):
			updated = append(updated, p)
		}
	}

	var removed []plandomain.Plan
	for _, r := range remote.Plans {
		if _, ok := local.Plan(r.ID); !ok && !r.Archived {
			removed = append(removed, r)
		}
	}

	updates, deletions, err := lookupUsage(ctx, usage, updated, removed)
	if err != nil {
		return nil, err
	}
	a.PlansToUpdate = updates
	a.PlansToDelete = deletions

	a.FeaturesToDelete = featureDeletions(local, remote, deletions)
	return a, nil
}

func lookupUsage(ctx context.Context, usage UsageSource, updated, removed []plandomain.Plan) ([]PlanUpdate, []PlanDeletion, error) {
	updates := make([]PlanUpdate, len(updated))
	deletions := make([]PlanDeletion, len(removed))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(usageLookupLimit)

	for i, p := range updated {
		g.Go(func() error {
			u, err := usage.CustomerUsage(ctx, p.ID)
			if err != nil {
				return fmt.Errorf("plan %s customer usage: %w", p.ID, err)
			}
			updates[i] = PlanUpdate{Plan: p, WillVersion: u.HasCustomers}
			return nil
		})
	}
	for i, p := range removed {
		g.Go(func() error {
			info, err := usage.DeletionInfo(ctx, p.ID)
			if err != nil {
				return fmt.Errorf("plan %s deletion info: %w", p.ID, err)
			}
			d := PlanDeletion{Plan: p}
			if info.CustomerCount > 0 {
				d.Blocked = &DeletionBlockedError{
					Kind:              catalog.KindPlan,
					ID:                p.ID,
					CustomerCount:     info.CustomerCount,
					FirstCustomerName: info.FirstCustomerName,
				}
			}
			deletions[i] = d
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return updates, deletions, nil
}

// featureDeletions finds remote features missing locally and blocks those
// still referenced by a remote credit system or plan. A referrer that is
// itself deleted without being blocked does not count; blocking spreads
// until nothing changes.
func featureDeletions(local, remote catalog.Catalog, plans []PlanDeletion) []FeatureDeletion {
	candidates := map[string]bool{}
	var order []featuredomain.Feature
	for _, f := range remote.Features {
		if _, ok := local.Feature(f.ID); !ok && !f.Archived {
			candidates[f.ID] = true
			order = append(order, f)
		}
	}

	deletedPlans := map[string]bool{}
	for _, d := range plans {
		if d.Blocked == nil {
			deletedPlans[d.Plan.ID] = true
		}
	}

	referrers := func(id string) []string {
		var names []string
		for _, f := range remote.Features {
			if f.IsCreditSystem() && f.References(id) && !candidates[f.ID] {
				names = append(names, displayName(f.Name, f.ID))
			}
		}
		for _, p := range remote.Plans {
			if p.References(id) && !deletedPlans[p.ID] {
				names = append(names, displayName(p.Name, p.ID))
			}
		}
		return names
	}

	for changed := true; changed; {
		changed = false
		for _, f := range order {
			if candidates[f.ID] && len(referrers(f.ID)) > 0 {
				candidates[f.ID] = false
				changed = true
			}
		}
	}

	out := make([]FeatureDeletion, 0, len(order))
	for _, f := range order {
		d := FeatureDeletion{Feature: f}
		if !candidates[f.ID] {
			d.Blocked = &DeletionBlockedError{Kind: catalog.KindFeature, ID: f.ID, Referrers: referrers(f.ID)}
		}
		out = append(out, d)
	}
	// Credit systems reference other features, so they go first.
	slices.SortStableFunc(out, func(a, b FeatureDeletion) int {
		return -creditSystemsLast(a.Feature, b.Feature)
	})
	return out
}

func creditSystemsLast(a, b featuredomain.Feature) int {
	switch {
	case a.IsCreditSystem() == b.IsCreditSystem():
		return 0
	case a.IsCreditSystem():
		return 1
	default:
		return -1
	}
}

func displayName(name, id string) string {
	if name == "" {
		return id
	}
	return name
}

func sameCanonical(a, b any) bool {
	x, errX := json.Marshal(a)
	y, errY := json.Marshal(b)
	return errX == nil && errY == nil && bytes.Equal(x, y)
}
