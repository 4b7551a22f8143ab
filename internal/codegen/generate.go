package codegen

import (
	"fmt"
	"strings"

	"github.com/smallbiznis/atmn/internal/catalog"
	"github.com/smallbiznis/atmn/internal/catalog/mapping"
	featuredomain "github.com/smallbiznis/atmn/internal/feature/domain"
	plandomain "github.com/smallbiznis/atmn/internal/plan/domain"
	"github.com/smallbiznis/atmn/internal/shape"
)

// ImportLine is the first line of every generated file.
const ImportLine = "import { feature, plan } from 'atmn';"

// FeatureBlock returns the source lines of an exported feature.
func FeatureBlock(varName string, f featuredomain.Feature) ([]string, error) {
	src, err := mapping.FeatureToSource(f.Canonical())
	if err != nil {
		return nil, fmt.Errorf("feature %s: %w", f.ID, err)
	}
	return exportBlock(varName, "feature", src)
}

// PlanBlock returns the source lines of an exported plan.
func PlanBlock(varName string, p plandomain.Plan) ([]string, error) {
	src, err := mapping.PlanToSource(p.Canonical())
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", p.ID, err)
	}
	return exportBlock(varName, "plan", src)
}

func exportBlock(varName, call string, src shape.Object) ([]string, error) {
	p := &printer{}
	fmt.Fprintf(&p.sb, "export const %s = %s(", varName, call)
	if err := p.value(src, 0); err != nil {
		return nil, fmt.Errorf("%s %s: %w", call, varName, err)
	}
	p.sb.WriteString(");")
	return strings.Split(p.sb.String(), "\n"), nil
}

// GenerateFile prints a whole config file: the import, then features with
// credit systems last, then plans. Blocks are separated by one blank line.
func GenerateFile(cat catalog.Catalog) (string, error) {
	namer := NewNamer()
	blocks := [][]string{{ImportLine}}

	var creditSystems []featuredomain.Feature
	for _, f := range cat.Features {
		if f.IsCreditSystem() {
			creditSystems = append(creditSystems, f)
			continue
		}
		lines, err := FeatureBlock(namer.Name(f.ID, catalog.KindFeature), f)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, lines)
	}
	for _, f := range creditSystems {
		lines, err := FeatureBlock(namer.Name(f.ID, catalog.KindFeature), f)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, lines)
	}
	for _, p := range cat.Plans {
		lines, err := PlanBlock(namer.Name(p.ID, catalog.KindPlan), p)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, lines)
	}

	var sb strings.Builder
	for i, lines := range blocks {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.Join(lines, "\n"))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
