// Package configfile splits an autumn.config.ts source file into blocks and
// recognizes the feature and plan exports among them.
//
// The scanner does not parse TypeScript. Export boundaries are found with a
// character based depth counter over ( { [ and ) } ], which does not know
// about string literals or comments: a bracket inside a string in an entity
// body desynchronizes it. Generated files never contain one.
package configfile

import (
	"regexp"
	"strings"
)

type BlockKind string

const (
	BlockImport  BlockKind = "import"
	BlockComment BlockKind = "comment"
	BlockExport  BlockKind = "export"
	BlockOther   BlockKind = "other"
)

// Block is a run of source lines. Start and End are inclusive, 0-based
// indexes into the scanned file's lines.
type Block struct {
	Kind  BlockKind
	Lines []string
	Start int
	End   int

	// Entity is set for export blocks recognized as a feature or plan.
	Entity *Entity
}

func (b Block) Text() string {
	return strings.Join(b.Lines, "\n")
}

// ParsedConfig is a read-only snapshot of a config file.
type ParsedConfig struct {
	Blocks []Block

	// Ambiguities lists export blocks left as opaque passthrough.
	Ambiguities []ParseAmbiguityError
}

// Entities returns the recognized entity blocks in file order.
func (p *ParsedConfig) Entities() []Block {
	var out []Block
	for _, b := range p.Blocks {
		if b.Entity != nil {
			out = append(out, b)
		}
	}
	return out
}

// Refs maps every recognized variable name to its entity id.
func (p *ParsedConfig) Refs() map[string]string {
	refs := make(map[string]string)
	for _, b := range p.Blocks {
		if b.Entity != nil && b.Entity.VarName != "" {
			if _, seen := refs[b.Entity.VarName]; !seen {
				refs[b.Entity.VarName] = b.Entity.ID
			}
		}
	}
	return refs
}

// VarNames lists the names declared by every export block, recognized or
// not.
func (p *ParsedConfig) VarNames() []string {
	var out []string
	for _, b := range p.Blocks {
		if b.Kind != BlockExport || len(b.Lines) == 0 {
			continue
		}
		if m := exportPattern.FindStringSubmatch(strings.TrimSpace(b.Lines[0])); m != nil {
			out = append(out, m[1])
		}
	}
	return out
}

var (
	importStartPattern = regexp.MustCompile(`^import\b`)
	importEndPattern   = regexp.MustCompile(`from\s+['"][^'"]*['"]\s*$`)

	statementStartPattern = regexp.MustCompile(`^(export|import|const|let|var|function|type|interface)\b|^//|^/\*`)
)

// Scan splits text into blocks. Blank lines between blocks are dropped;
// every other line belongs to exactly one block.
func Scan(text string) *ParsedConfig {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	parsed := &ParsedConfig{}
	seen := make(map[string]bool)

	for i := 0; i < len(lines); {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			i++
			continue
		}

		var kind BlockKind
		end := i
		switch {
		case importStartPattern.MatchString(trimmed):
			kind = BlockImport
			end = scanUntil(lines, i, isImportEnd)
		case strings.HasPrefix(trimmed, "//"):
			kind = BlockComment
		case strings.HasPrefix(trimmed, "/*"):
			kind = BlockComment
			end = scanUntil(lines, i, func(line string) bool { return strings.Contains(line, "*/") })
		case exportPattern.MatchString(trimmed):
			kind = BlockExport
			end = scanExport(lines, i)
		default:
			kind = BlockOther
		}

		block := Block{
			Kind:  kind,
			Lines: append([]string(nil), lines[i:end+1]...),
			Start: i,
			End:   end,
		}
		if kind == BlockExport {
			entity, ambiguity := Extract(block.Lines)
			if nestedExport(block.Lines) {
				ambiguity = &ParseAmbiguityError{Reason: "unbalanced brackets run into the next export"}
				if entity != nil {
					ambiguity.VarName = entity.VarName
				}
				entity = nil
			}
			switch {
			case ambiguity != nil:
				ambiguity.Line = i
				parsed.Ambiguities = append(parsed.Ambiguities, *ambiguity)
			case seen[string(entity.Kind)+":"+entity.ID]:
				parsed.Ambiguities = append(parsed.Ambiguities, ParseAmbiguityError{
					Line:    i,
					VarName: entity.VarName,
					Reason:  "duplicate " + string(entity.Kind) + " id " + entity.ID,
				})
			default:
				seen[string(entity.Kind)+":"+entity.ID] = true
				block.Entity = entity
			}
		}
		parsed.Blocks = append(parsed.Blocks, block)
		i = end + 1
	}
	return parsed
}

func isImportEnd(line string) bool {
	return strings.Contains(line, ";") || importEndPattern.MatchString(line)
}

// scanUntil returns the first line index at or after start for which done
// holds, or the last line when none does.
func scanUntil(lines []string, start int, done func(string) bool) int {
	for i := start; i < len(lines); i++ {
		if done(lines[i]) {
			return i
		}
	}
	return len(lines) - 1
}

// scanExport ends an export at the first line where the depth is back to
// zero and the statement is over: the line has a semicolon, a bracket was
// opened and closed, or the next line starts a new top-level statement.
func scanExport(lines []string, start int) int {
	depth, opened := 0, false
	for i := start; i < len(lines); i++ {
		for _, r := range lines[i] {
			switch r {
			case '(', '{', '[':
				depth++
				opened = true
			case ')', '}', ']':
				depth--
			}
		}
		if depth > 0 {
			continue
		}
		if opened || strings.Contains(lines[i], ";") || statementStartsAfter(lines, i) {
			return i
		}
	}
	return len(lines) - 1
}

func statementStartsAfter(lines []string, i int) bool {
	for _, line := range lines[i+1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		return statementStartPattern.MatchString(trimmed)
	}
	return true
}

// nestedExport reports whether an export block swallowed another export,
// which happens when its brackets never balance.
func nestedExport(lines []string) bool {
	for _, line := range lines[1:] {
		if exportPattern.MatchString(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}
