package configfile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/smallbiznis/atmn/internal/catalog"
)

// Entity identifies the feature or plan defined by an export block.
type Entity struct {
	ID      string
	Kind    catalog.Kind
	VarName string
}

// ParseAmbiguityError describes an export block the extractor could not
// classify. It is recorded, not returned: the block passes through as is.
type ParseAmbiguityError struct {
	Line    int    `json:"line"`
	VarName string `json:"var_name,omitempty"`
	Reason  string `json:"reason"`
}

func (e ParseAmbiguityError) Error() string {
	if e.VarName == "" {
		return fmt.Sprintf("line %d: %s", e.Line+1, e.Reason)
	}
	return fmt.Sprintf("line %d: %s: %s", e.Line+1, e.VarName, e.Reason)
}

var (
	exportPattern = regexp.MustCompile(`^export\s+const\s+([A-Za-z_$][\w$]*)\s*=`)

	// The first id: wins, so a nested object carrying its own id placed
	// before the entity id is misread.
	idPattern = regexp.MustCompile(`\bid:\s*['"]([^'"]+)['"]`)

	featureTypePattern  = regexp.MustCompile(`\btype:\s*['"](boolean|metered|credit_system)['"]`)
	planFeaturesPattern = regexp.MustCompile(`\bfeatures:\s*\[`)
)

// Extract recognizes the entity defined by an export block.
func Extract(lines []string) (*Entity, *ParseAmbiguityError) {
	if len(lines) == 0 {
		return nil, &ParseAmbiguityError{Reason: "empty block"}
	}

	m := exportPattern.FindStringSubmatch(strings.TrimSpace(lines[0]))
	if m == nil {
		return nil, &ParseAmbiguityError{Reason: "not an export const declaration"}
	}
	varName := m[1]
	text := strings.Join(lines, "\n")

	idMatch := idPattern.FindStringSubmatch(text)
	if idMatch == nil {
		return nil, &ParseAmbiguityError{VarName: varName, Reason: "no id field"}
	}

	var kind catalog.Kind
	switch {
	case featureTypePattern.MatchString(text):
		kind = catalog.KindFeature
	case planFeaturesPattern.MatchString(text):
		kind = catalog.KindPlan
	default:
		return nil, &ParseAmbiguityError{VarName: varName, Reason: "neither a feature nor a plan"}
	}

	return &Entity{ID: idMatch[1], Kind: kind, VarName: varName}, nil
}
