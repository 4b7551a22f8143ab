package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	featuredomain "github.com/smallbiznis/atmn/internal/feature/domain"
	"github.com/smallbiznis/atmn/internal/merge"
	plandomain "github.com/smallbiznis/atmn/internal/plan/domain"
	"github.com/smallbiznis/atmn/internal/pull/domain"
	"github.com/smallbiznis/atmn/internal/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Manual Mocks

type mockFeatures struct {
	featuredomain.Service
	items []featuredomain.Feature
}

func (m *mockFeatures) List(ctx context.Context) ([]featuredomain.Feature, error) {
	return m.items, nil
}

type mockPlans struct {
	plandomain.Service
	items []plandomain.Plan
}

func (m *mockPlans) List(ctx context.Context) ([]plandomain.Plan, error) {
	return m.items, nil
}

type mockConfirmer struct {
	answer bool
	asked  [][]merge.Candidate
}

func (m *mockConfirmer) ConfirmLocalDeletion(ctx context.Context, candidates []merge.Candidate) (bool, error) {
	m.asked = append(m.asked, candidates)
	return m.answer, nil
}

func newService(features []featuredomain.Feature, plans []plandomain.Plan, confirmer domain.Confirmer) domain.Service {
	return New(Params{
		Log:       zap.NewNop(),
		Features:  &mockFeatures{items: features},
		Plans:     &mockPlans{items: plans},
		Confirmer: confirmer,
	})
}

func remoteFeatures() []featuredomain.Feature {
	return []featuredomain.Feature{
		{ID: "sso", Name: "SSO", Type: featuredomain.FeatureTypeBoolean},
		{ID: "legacy", Type: featuredomain.FeatureTypeBoolean, Archived: true},
	}
}

func remotePlans() []plandomain.Plan {
	return []plandomain.Plan{{ID: "pro", Name: "Pro", Features: []plandomain.PlanFeature{{FeatureID: "sso"}}}}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(raw)
}

func TestPull_GeneratesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autumn.config.ts")

	result, err := newService(remoteFeatures(), remotePlans(), nil).Pull(context.Background(), domain.Request{Path: path})
	require.NoError(t, err)

	assert.Equal(t, domain.ModeGenerated, result.Mode)
	assert.Equal(t, merge.UpdateResult{FeaturesAdded: 1, PlansAdded: 1}, result.Update)

	text := readFile(t, path)
	assert.Contains(t, text, "export const sso = feature({")
	assert.Contains(t, text, "export const pro = plan({")
	assert.NotContains(t, text, "legacy")
}

func TestPull_MergesAndIsStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autumn.config.ts")
	local := `import { feature, plan } from 'atmn';

// Hand-written note
export const sso = feature({
	id: 'sso',
	name: 'Single sign-on',
	type: 'boolean',
});
`
	require.NoError(t, os.WriteFile(path, []byte(local), 0o644))
	svc := newService(remoteFeatures(), remotePlans(), nil)

	result, err := svc.Pull(context.Background(), domain.Request{Path: path})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeMerged, result.Mode)
	assert.Equal(t, merge.UpdateResult{FeaturesUpdated: 1, PlansAdded: 1}, result.Update)

	text := readFile(t, path)
	assert.Contains(t, text, "// Hand-written note\nexport const sso = feature({\n\tid: 'sso',\n\tname: 'SSO',")
	assert.Contains(t, text, "export const pro = plan({")

	again, err := svc.Pull(context.Background(), domain.Request{Path: path})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeUnchanged, again.Mode)
	assert.Equal(t, text, readFile(t, path))
}

func TestPull_LocalOnlyNeedsConfirmation(t *testing.T) {
	local := `import { feature, plan } from 'atmn';

export const sso = feature({
	id: 'sso',
	name: 'SSO',
	type: 'boolean',
});

export const beta = feature({
	id: 'beta',
	type: 'boolean',
});
`
	tests := []struct {
		name      string
		confirmer *mockConfirmer
		deleted   bool
	}{
		{name: "no confirmer keeps", confirmer: nil},
		{name: "declined keeps", confirmer: &mockConfirmer{answer: false}},
		{name: "confirmed removes", confirmer: &mockConfirmer{answer: true}, deleted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "autumn.config.ts")
			require.NoError(t, os.WriteFile(path, []byte(local), 0o644))

			var confirmer domain.Confirmer
			if tt.confirmer != nil {
				confirmer = tt.confirmer
			}
			result, err := newService(remoteFeatures()[:1], nil, confirmer).Pull(context.Background(), domain.Request{Path: path})
			require.NoError(t, err)

			require.Len(t, result.Candidates, 1)
			assert.Equal(t, "beta", result.Candidates[0].ID)
			assert.Equal(t, tt.deleted, result.Deleted)
			if tt.confirmer != nil {
				assert.Len(t, tt.confirmer.asked, 1)
			}

			text := readFile(t, path)
			if tt.deleted {
				assert.Equal(t, 1, result.Update.FeaturesDeleted)
				assert.NotContains(t, text, "beta")
			} else {
				assert.Equal(t, domain.ModeUnchanged, result.Mode)
				assert.Equal(t, local, text)
			}
		})
	}
}

func TestPull_ForceRegenerates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autumn.config.ts")
	require.NoError(t, os.WriteFile(path, []byte("// only a comment\n"), 0o644))

	result, err := newService(remoteFeatures(), nil, nil).Pull(context.Background(), domain.Request{Path: path, Force: true})
	require.NoError(t, err)

	assert.Equal(t, domain.ModeGenerated, result.Mode)
	assert.NotContains(t, readFile(t, path), "only a comment")
}

func TestPull_ShapeErrorAborts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autumn.config.ts")
	local := "import { feature, plan } from 'atmn';\n"
	require.NoError(t, os.WriteFile(path, []byte(local), 0o644))
	broken := []featuredomain.Feature{{ID: "broken", Type: featuredomain.FeatureTypeMetered}}

	_, err := newService(broken, nil, nil).Pull(context.Background(), domain.Request{Path: path})

	var shapeErr *shape.ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, local, readFile(t, path))
}

func TestPull_RequiresPath(t *testing.T) {
	_, err := newService(nil, nil, nil).Pull(context.Background(), domain.Request{Path: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidPath)
}
