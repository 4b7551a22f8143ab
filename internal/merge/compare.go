package merge

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/smallbiznis/atmn/internal/catalog"
	"github.com/smallbiznis/atmn/internal/catalog/mapping"
	"github.com/smallbiznis/atmn/internal/configfile"
)

var (
	lineComment    = regexp.MustCompile(`//[^\n]*`)
	blockComment   = regexp.MustCompile(`(?s)/\*.*?\*/`)
	whitespace     = regexp.MustCompile(`\s+`)
	trailingCommas = regexp.MustCompile(`,([}\])])`)
)

// normalize reduces block text to what matters for comparison: comments,
// whitespace, quote style and trailing commas are ignored.
func normalize(text string) string {
	text = blockComment.ReplaceAllString(text, "")
	text = lineComment.ReplaceAllString(text, "")
	text = whitespace.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, `"`, `'`)
	return trailingCommas.ReplaceAllString(text, "$1")
}

// changed reports whether the regenerated lines differ materially from the
// existing block. Text that normalizes equal is unchanged; otherwise the
// existing block is decoded and compared with the remote entity in
// canonical form.
func changed(existing configfile.Block, generated []string, remote any, refs map[string]string) bool {
	if normalize(existing.Text()) == normalize(strings.Join(generated, "\n")) {
		return false
	}

	obj, err := configfile.DecodeExport(existing.Text(), refs)
	if err != nil {
		return true
	}

	var local any
	switch existing.Entity.Kind {
	case catalog.KindFeature:
		f, err := mapping.FeatureFromSource(obj)
		if err != nil {
			return true
		}
		local = f.Canonical()
	case catalog.KindPlan:
		p, err := mapping.PlanFromSource(obj)
		if err != nil {
			return true
		}
		local = p.Canonical()
	default:
		return true
	}

	a, errA := json.Marshal(local)
	b, errB := json.Marshal(remote)
	if errA != nil || errB != nil {
		return true
	}
	return !bytes.Equal(a, b)
}
