package configfile

import (
	"strings"
	"testing"

	"github.com/smallbiznis/atmn/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `import { feature, plan } from 'atmn';

// Seats
export const seats = feature({
	id: 'seats',
	name: 'Seats',
	type: 'metered',
	consumable: false,
});

/*
 * Plans
 */
export const pro = plan({
	id: 'pro',
	name: 'Pro',
	features: [
		{
			feature_id: seats.id,
			included: 5,
		},
	],
});

const helper = 1;
`

func TestScan_Blocks(t *testing.T) {
	parsed := Scan(sampleConfig)

	type span struct {
		kind       BlockKind
		start, end int
	}
	var got []span
	for _, b := range parsed.Blocks {
		got = append(got, span{b.Kind, b.Start, b.End})
	}
	assert.Equal(t, []span{
		{BlockImport, 0, 0},
		{BlockComment, 2, 2},
		{BlockExport, 3, 8},
		{BlockComment, 10, 12},
		{BlockExport, 13, 22},
		{BlockOther, 24, 24},
	}, got)

	entities := parsed.Entities()
	require.Len(t, entities, 2)
	assert.Equal(t, &Entity{ID: "seats", Kind: catalog.KindFeature, VarName: "seats"}, entities[0].Entity)
	assert.Equal(t, &Entity{ID: "pro", Kind: catalog.KindPlan, VarName: "pro"}, entities[1].Entity)
	assert.Empty(t, parsed.Ambiguities)
	assert.Equal(t, map[string]string{"seats": "seats", "pro": "pro"}, parsed.Refs())
}

func TestScan_IsLosslessApartFromBlankLines(t *testing.T) {
	inputs := map[string]string{
		"sample":              sampleConfig,
		"no trailing newline": "// a\nexport const x = 1;\nfoo()",
		"indented and crlf":   "  // note\r\n\r\nexport const a = feature({ id: 'a', type: 'boolean' });\r\n",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			original := strings.Split(strings.TrimSuffix(input, "\n"), "\n")
			rebuilt := make([]string, len(original))
			covered := make([]bool, len(original))

			for _, b := range Scan(input).Blocks {
				require.Equal(t, b.End-b.Start+1, len(b.Lines))
				for i, line := range b.Lines {
					rebuilt[b.Start+i] = line
					covered[b.Start+i] = true
				}
			}
			for i, line := range original {
				if !covered[i] {
					assert.Empty(t, strings.TrimSpace(line), "line %d dropped", i)
					rebuilt[i] = line
				}
			}
			assert.Equal(t, original, rebuilt)
		})
	}
}

func TestScan_MultiLineImportWithoutSemicolon(t *testing.T) {
	parsed := Scan("import {\n\tfeature,\n\tplan,\n} from 'atmn'\n// after\n")

	require.Len(t, parsed.Blocks, 2)
	assert.Equal(t, BlockImport, parsed.Blocks[0].Kind)
	assert.Equal(t, 3, parsed.Blocks[0].End)
	assert.Equal(t, BlockComment, parsed.Blocks[1].Kind)
}

func TestScan_UnterminatedBlockCommentRunsToEOF(t *testing.T) {
	parsed := Scan("/* open\nexport const a = feature({ id: 'a', type: 'boolean' });\n")

	require.Len(t, parsed.Blocks, 1)
	assert.Equal(t, BlockComment, parsed.Blocks[0].Kind)
	assert.Empty(t, parsed.Entities())
}

func TestScan_BlankLinesInsideExportStayInBlock(t *testing.T) {
	parsed := Scan("export const a = feature({\n\tid: 'a',\n\n\ttype: 'boolean',\n});\n")

	require.Len(t, parsed.Blocks, 1)
	assert.Equal(t, []string{"export const a = feature({", "\tid: 'a',", "", "\ttype: 'boolean',", "});"}, parsed.Blocks[0].Lines)
}

// The depth counter does not understand strings. A brace inside a string
// literal keeps the block open and swallows the following export, so the
// block is left opaque.
func TestScan_BracketInsideStringDesynchronizesDepth(t *testing.T) {
	input := `export const weird = feature({
	id: 'weird',
	name: 'Opens { here',
	type: 'boolean',
});
export const next = feature({
	id: 'next',
	type: 'boolean',
});
`
	parsed := Scan(input)

	require.Len(t, parsed.Blocks, 1)
	assert.Equal(t, 0, parsed.Blocks[0].Start)
	assert.Equal(t, 8, parsed.Blocks[0].End)
	assert.Nil(t, parsed.Blocks[0].Entity)
	require.Len(t, parsed.Ambiguities, 1)
	assert.Equal(t, "weird", parsed.Ambiguities[0].VarName)
	assert.Contains(t, parsed.Ambiguities[0].Reason, "next export")
}

func TestScan_ExportsWithoutSemicolons(t *testing.T) {
	input := `import { feature, plan } from 'atmn'

// Feature a
export const a = feature({
	id: 'a',
	type: 'boolean',
})
// Feature b
export const b = feature({ id: 'b', type: 'boolean' })
export const limit = 10
export const label =
	'multi line'
const helper = 1
`
	parsed := Scan(input)

	type span struct {
		kind       BlockKind
		start, end int
	}
	var got []span
	for _, b := range parsed.Blocks {
		got = append(got, span{b.Kind, b.Start, b.End})
	}
	assert.Equal(t, []span{
		{BlockImport, 0, 0},
		{BlockComment, 2, 2},
		{BlockExport, 3, 6},
		{BlockComment, 7, 7},
		{BlockExport, 8, 8},
		{BlockExport, 9, 9},
		{BlockExport, 10, 11},
		{BlockOther, 12, 12},
	}, got)

	entities := parsed.Entities()
	require.Len(t, entities, 2)
	assert.Equal(t, "a", entities[0].Entity.ID)
	assert.Equal(t, "b", entities[1].Entity.ID)
}

func TestScan_UnrecognizedExportIsOpaque(t *testing.T) {
	parsed := Scan("export const helper = { id: 'x', label: 'y' };\n")

	require.Len(t, parsed.Blocks, 1)
	assert.Equal(t, BlockExport, parsed.Blocks[0].Kind)
	assert.Nil(t, parsed.Blocks[0].Entity)
	require.Len(t, parsed.Ambiguities, 1)
	assert.Equal(t, "helper", parsed.Ambiguities[0].VarName)
	assert.Contains(t, parsed.Ambiguities[0].Error(), "line 1")
}

func TestScan_DuplicateIDKeepsFirst(t *testing.T) {
	parsed := Scan(`export const a = feature({ id: 'dup', type: 'boolean' });
export const b = feature({ id: 'dup', type: 'boolean' });
export const c = plan({ id: 'dup', features: [] });
`)

	require.Len(t, parsed.Blocks, 3)
	assert.Equal(t, "a", parsed.Blocks[0].Entity.VarName)
	assert.Nil(t, parsed.Blocks[1].Entity)
	require.NotNil(t, parsed.Blocks[2].Entity)
	assert.Equal(t, catalog.KindPlan, parsed.Blocks[2].Entity.Kind)

	require.Len(t, parsed.Ambiguities, 1)
	assert.Equal(t, 1, parsed.Ambiguities[0].Line)
	assert.Contains(t, parsed.Ambiguities[0].Reason, "duplicate feature id dup")
}
