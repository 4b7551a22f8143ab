package merge

import (
	"fmt"
	"strings"

	"github.com/smallbiznis/atmn/internal/configfile"
)

// serialize joins blocks, regenerating the blank lines the scanner dropped:
// one blank line between blocks of different kinds and between consecutive
// exports. A comment sticks to the block after it.
func serialize(entries []entry) (string, error) {
	var sb strings.Builder
	var prev configfile.BlockKind
	for i, e := range entries {
		if len(e.lines) == 0 {
			return "", fmt.Errorf("block %d is empty", i)
		}
		if i > 0 && blankBefore(prev, e.kind) {
			sb.WriteByte('\n')
		}
		for _, line := range e.lines {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
		prev = e.kind
	}
	return sb.String(), nil
}

func blankBefore(prev, next configfile.BlockKind) bool {
	switch {
	case prev == configfile.BlockComment:
		return false
	case prev == configfile.BlockExport && next == configfile.BlockExport:
		return true
	default:
		return prev != next
	}
}
