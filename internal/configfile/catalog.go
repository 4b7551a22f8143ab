package configfile

import (
	"fmt"

	"github.com/smallbiznis/atmn/internal/catalog"
	"github.com/smallbiznis/atmn/internal/catalog/mapping"
)

// Catalog decodes and validates every recognized entity of the file.
func (p *ParsedConfig) Catalog() (catalog.Catalog, error) {
	refs := p.Refs()
	out := catalog.Catalog{}

	for _, block := range p.Entities() {
		entity := block.Entity
		obj, err := DecodeExport(block.Text(), refs)
		if err != nil {
			return catalog.Catalog{}, fmt.Errorf("%s %s (line %d): %w", entity.Kind, entity.ID, block.Start+1, err)
		}

		switch entity.Kind {
		case catalog.KindFeature:
			f, err := mapping.FeatureFromSource(obj)
			if err == nil {
				err = f.Validate()
			}
			if err != nil {
				return catalog.Catalog{}, fmt.Errorf("feature %s: %w", entity.ID, err)
			}
			out.Features = append(out.Features, f)
		case catalog.KindPlan:
			pl, err := mapping.PlanFromSource(obj)
			if err == nil {
				err = pl.Validate()
			}
			if err != nil {
				return catalog.Catalog{}, fmt.Errorf("plan %s: %w", entity.ID, err)
			}
			out.Plans = append(out.Plans, pl)
		}
	}
	return out, nil
}
