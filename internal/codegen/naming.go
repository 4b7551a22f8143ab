package codegen

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/smallbiznis/atmn/internal/catalog"
)

var (
	invalidIdentChars   = regexp.MustCompile(`[^A-Za-z0-9_$]+`)
	repeatedUnderscores = regexp.MustCompile(`_{2,}`)
)

var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "enum": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "let": true, "new": true, "null": true,
	"return": true, "static": true, "super": true, "switch": true, "this": true,
	"throw": true, "true": true, "try": true, "typeof": true, "var": true,
	"void": true, "while": true, "with": true, "yield": true,
	"feature": true, "plan": true,
}

// VarName derives a valid identifier from an entity id: disallowed runs
// become "_", repeats collapse, edges are trimmed, and names starting with
// a digit or colliding with a keyword get the kind as prefix.
func VarName(id string, kind catalog.Kind) string {
	name := invalidIdentChars.ReplaceAllString(id, "_")
	name = repeatedUnderscores.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")

	switch {
	case name == "":
		return string(kind)
	case name[0] >= '0' && name[0] <= '9', reservedWords[name]:
		return string(kind) + "_" + name
	}
	return name
}

// Namer hands out unique variable names within one file.
type Namer struct {
	used map[string]bool
}

func NewNamer(taken ...string) *Namer {
	n := &Namer{used: make(map[string]bool, len(taken))}
	for _, name := range taken {
		n.used[name] = true
	}
	return n
}

// Reserve marks name as taken.
func (n *Namer) Reserve(name string) {
	n.used[name] = true
}

// Name returns VarName(id, kind), prefixed with the kind and then suffixed
// with a counter until it is unused.
func (n *Namer) Name(id string, kind catalog.Kind) string {
	base := VarName(id, kind)
	candidates := []string{base}
	if prefix := string(kind) + "_"; !strings.HasPrefix(base, prefix) {
		candidates = append(candidates, prefix+base)
	}
	for _, candidate := range candidates {
		if !n.used[candidate] {
			n.used[candidate] = true
			return candidate
		}
	}

	last := candidates[len(candidates)-1]
	for i := 2; ; i++ {
		candidate := last + "_" + strconv.Itoa(i)
		if !n.used[candidate] {
			n.used[candidate] = true
			return candidate
		}
	}
}
