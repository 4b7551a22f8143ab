// Package merge reconciles the blocks of an existing config file with the
// remote catalog and prints the updated file.
//
// Blocks are matched by entity id within each kind. Matched blocks are
// regenerated in place only when their content changed, remote-only entities
// are appended to their section and local-only entities become deletion
// candidates. Every other block passes through untouched.
package merge

import (
	"slices"

	"github.com/smallbiznis/atmn/internal/catalog"
	"github.com/smallbiznis/atmn/internal/codegen"
	"github.com/smallbiznis/atmn/internal/configfile"
	featuredomain "github.com/smallbiznis/atmn/internal/feature/domain"
	plandomain "github.com/smallbiznis/atmn/internal/plan/domain"
)

type UpdateResult struct {
	FeaturesAdded   int `json:"features_added"`
	FeaturesUpdated int `json:"features_updated"`
	FeaturesDeleted int `json:"features_deleted"`
	PlansAdded      int `json:"plans_added"`
	PlansUpdated    int `json:"plans_updated"`
	PlansDeleted    int `json:"plans_deleted"`
}

// Changed reports whether any entity was added, updated or deleted.
func (r UpdateResult) Changed() bool {
	return r != UpdateResult{}
}

// Candidate is a local entity missing from the remote catalog.
type Candidate struct {
	ID      string       `json:"id"`
	Kind    catalog.Kind `json:"kind"`
	VarName string       `json:"var_name"`
	// Line is the 1-based line the block starts on.
	Line int `json:"line"`
}

type RenderOptions struct {
	// Delete removes the blocks of all deletion candidates.
	Delete bool
}

type entry struct {
	kind      configfile.BlockKind
	entity    *configfile.Entity
	lines     []string
	candidate bool
}

// Reconciliation is the outcome of matching a parsed file against the
// remote catalog. Nothing is printed until Render.
type Reconciliation struct {
	entries          []entry
	appendedFeatures [][]string
	appendedPlans    [][]string
	candidates       []Candidate
	result           UpdateResult
}

// Reconcile classifies every entity block of parsed against remote. Any
// generation failure aborts the whole reconciliation.
func Reconcile(parsed *configfile.ParsedConfig, remote catalog.Catalog) (*Reconciliation, error) {
	refs := parsed.Refs()
	namer := codegen.NewNamer(parsed.VarNames()...)

	remoteFeatures := make(map[string]featuredomain.Feature, len(remote.Features))
	for _, f := range remote.Features {
		if _, dup := remoteFeatures[f.ID]; !dup {
			remoteFeatures[f.ID] = f
		}
	}
	remotePlans := make(map[string]plandomain.Plan, len(remote.Plans))
	for _, p := range remote.Plans {
		if _, dup := remotePlans[p.ID]; !dup {
			remotePlans[p.ID] = p
		}
	}

	r := &Reconciliation{}
	matchedFeatures := make(map[string]bool)
	matchedPlans := make(map[string]bool)

	for _, block := range parsed.Blocks {
		e := entry{kind: block.Kind, entity: block.Entity, lines: block.Lines}
		if block.Entity == nil {
			r.entries = append(r.entries, e)
			continue
		}

		entity := block.Entity
		switch entity.Kind {
		case catalog.KindFeature:
			f, ok := remoteFeatures[entity.ID]
			if !ok {
				e.candidate = true
				break
			}
			matchedFeatures[entity.ID] = true
			generated, err := codegen.FeatureBlock(entity.VarName, f)
			if err != nil {
				return nil, &MergeWriteError{Stage: "generate", Err: err}
			}
			if changed(block, generated, f.Canonical(), refs) {
				e.lines = generated
				r.result.FeaturesUpdated++
			}
		case catalog.KindPlan:
			p, ok := remotePlans[entity.ID]
			if !ok {
				e.candidate = true
				break
			}
			matchedPlans[entity.ID] = true
			generated, err := codegen.PlanBlock(entity.VarName, p)
			if err != nil {
				return nil, &MergeWriteError{Stage: "generate", Err: err}
			}
			if changed(block, generated, p.Canonical(), refs) {
				e.lines = generated
				r.result.PlansUpdated++
			}
		}

		if e.candidate {
			r.candidates = append(r.candidates, Candidate{
				ID:      entity.ID,
				Kind:    entity.Kind,
				VarName: entity.VarName,
				Line:    block.Start + 1,
			})
		}
		r.entries = append(r.entries, e)
	}

	// Credit systems follow the features they price.
	added := slices.Clone(remote.Features)
	slices.SortStableFunc(added, func(a, b featuredomain.Feature) int {
		switch {
		case a.IsCreditSystem() == b.IsCreditSystem():
			return 0
		case a.IsCreditSystem():
			return 1
		default:
			return -1
		}
	})
	for _, f := range added {
		if matchedFeatures[f.ID] {
			continue
		}
		matchedFeatures[f.ID] = true
		lines, err := codegen.FeatureBlock(namer.Name(f.ID, catalog.KindFeature), f)
		if err != nil {
			return nil, &MergeWriteError{Stage: "generate", Err: err}
		}
		r.appendedFeatures = append(r.appendedFeatures, lines)
		r.result.FeaturesAdded++
	}
	for _, p := range remote.Plans {
		if matchedPlans[p.ID] {
			continue
		}
		matchedPlans[p.ID] = true
		lines, err := codegen.PlanBlock(namer.Name(p.ID, catalog.KindPlan), p)
		if err != nil {
			return nil, &MergeWriteError{Stage: "generate", Err: err}
		}
		r.appendedPlans = append(r.appendedPlans, lines)
		r.result.PlansAdded++
	}

	return r, nil
}

// DeletionCandidates lists local entities absent from the remote catalog,
// in file order.
func (r *Reconciliation) DeletionCandidates() []Candidate {
	return slices.Clone(r.candidates)
}

// Render prints the merged file. Candidate blocks are kept unless
// opts.Delete is set.
func (r *Reconciliation) Render(opts RenderOptions) (string, UpdateResult, error) {
	result := r.result
	out := make([]entry, 0, len(r.entries)+len(r.appendedFeatures)+len(r.appendedPlans))
	for _, e := range r.entries {
		if e.candidate && opts.Delete {
			if e.entity.Kind == catalog.KindFeature {
				result.FeaturesDeleted++
			} else {
				result.PlansDeleted++
			}
			continue
		}
		out = append(out, e)
	}

	out = slices.Insert(out, featureAnchor(out), exportEntries(catalog.KindFeature, r.appendedFeatures)...)
	out = slices.Insert(out, planAnchor(out), exportEntries(catalog.KindPlan, r.appendedPlans)...)

	text, err := serialize(out)
	if err != nil {
		return "", UpdateResult{}, &MergeWriteError{Stage: "serialize", Err: err}
	}
	return text, result, nil
}

func exportEntries(kind catalog.Kind, blocks [][]string) []entry {
	out := make([]entry, 0, len(blocks))
	for _, lines := range blocks {
		out = append(out, entry{
			kind:   configfile.BlockExport,
			entity: &configfile.Entity{Kind: kind},
			lines:  lines,
		})
	}
	return out
}

func entityKind(e entry) catalog.Kind {
	if e.entity == nil {
		return ""
	}
	return e.entity.Kind
}

// featureAnchor is the position after the last feature block, else before
// the first plan block and the comments attached to it, else the end of the
// file.
func featureAnchor(entries []entry) int {
	for i := len(entries) - 1; i >= 0; i-- {
		if entityKind(entries[i]) == catalog.KindFeature {
			return i + 1
		}
	}
	for i, e := range entries {
		if entityKind(e) == catalog.KindPlan {
			for i > 0 && entries[i-1].kind == configfile.BlockComment {
				i--
			}
			return i
		}
	}
	return len(entries)
}

// planAnchor is the position after the last plan block, else the end of
// the file.
func planAnchor(entries []entry) int {
	for i := len(entries) - 1; i >= 0; i-- {
		if entityKind(entries[i]) == catalog.KindPlan {
			return i + 1
		}
	}
	return len(entries)
}
