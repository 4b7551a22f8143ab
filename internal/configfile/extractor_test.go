package configfile

import (
	"strings"
	"testing"

	"github.com/smallbiznis/atmn/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name       string
		block      string
		want       *Entity
		wantReason string
	}{
		{
			name:  "boolean feature",
			block: "export const sso = feature({\n\tid: 'sso',\n\ttype: 'boolean',\n});",
			want:  &Entity{ID: "sso", Kind: catalog.KindFeature, VarName: "sso"},
		},
		{
			name:  "credit system with double quotes",
			block: "export const credits = feature({ id: \"ai-credits\", type: \"credit_system\", credit_schema: [] });",
			want:  &Entity{ID: "ai-credits", Kind: catalog.KindFeature, VarName: "credits"},
		},
		{
			name:  "plan",
			block: "export const pro = plan({\n\tid: 'pro',\n\tfeatures: [],\n});",
			want:  &Entity{ID: "pro", Kind: catalog.KindPlan, VarName: "pro"},
		},
		{
			name:  "feature_id is not an id",
			block: "export const pro = plan({\n\tfeatures: [{ feature_id: 'seats' }],\n\tid: 'pro',\n});",
			want:  &Entity{ID: "pro", Kind: catalog.KindPlan, VarName: "pro"},
		},
		{
			name:  "feature type wins over features array",
			block: "export const odd = feature({ id: 'odd', type: 'metered', features: [] });",
			want:  &Entity{ID: "odd", Kind: catalog.KindFeature, VarName: "odd"},
		},
		{
			name:       "no id",
			block:      "export const x = feature({ type: 'boolean' });",
			wantReason: "no id field",
		},
		{
			name:       "unknown call",
			block:      "export const x = addon({ id: 'x' });",
			wantReason: "neither a feature nor a plan",
		},
		{
			name:       "not an export",
			block:      "const x = feature({ id: 'x', type: 'boolean' });",
			wantReason: "not an export const declaration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ambiguity := Extract(strings.Split(tt.block, "\n"))
			if tt.wantReason != "" {
				require.NotNil(t, ambiguity)
				assert.Nil(t, got)
				assert.Equal(t, tt.wantReason, ambiguity.Reason)
				return
			}
			require.Nil(t, ambiguity)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A nested object carrying its own id ahead of the entity id is picked up
// first. Generated files always put the entity id first.
func TestExtract_NestedIDFirstMatchWins(t *testing.T) {
	got, ambiguity := Extract([]string{
		"export const pro = plan({",
		"\tfeatures: [{ id: 'nested' }],",
		"\tid: 'pro',",
		"});",
	})

	require.Nil(t, ambiguity)
	assert.Equal(t, "nested", got.ID)
}
