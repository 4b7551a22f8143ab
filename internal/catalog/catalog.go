// Package catalog groups the features and plans of one side of a sync, either
// the local config file or the remote API.
package catalog

import (
	featuredomain "github.com/smallbiznis/atmn/internal/feature/domain"
	plandomain "github.com/smallbiznis/atmn/internal/plan/domain"
)

type Kind string

const (
	KindFeature Kind = "feature"
	KindPlan    Kind = "plan"
)

type Catalog struct {
	Features []featuredomain.Feature
	Plans    []plandomain.Plan
}

func (c Catalog) Feature(id string) (featuredomain.Feature, bool) {
	for _, f := range c.Features {
		if f.ID == id {
			return f, true
		}
	}
	return featuredomain.Feature{}, false
}

func (c Catalog) Plan(id string) (plandomain.Plan, bool) {
	for _, p := range c.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return plandomain.Plan{}, false
}

func (c Catalog) Len() int {
	return len(c.Features) + len(c.Plans)
}
