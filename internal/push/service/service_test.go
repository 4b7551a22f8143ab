package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	featuredomain "github.com/smallbiznis/atmn/internal/feature/domain"
	plandomain "github.com/smallbiznis/atmn/internal/plan/domain"
	"github.com/smallbiznis/atmn/internal/push/domain"
	"github.com/smallbiznis/atmn/internal/pushplan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Manual Mocks

type callLog struct {
	calls []string
}

func (l *callLog) add(call string) {
	l.calls = append(l.calls, call)
}

type mockFeatures struct {
	log   *callLog
	items []featuredomain.Feature
	fail  string
}

func (m *mockFeatures) List(ctx context.Context) ([]featuredomain.Feature, error) {
	return m.items, nil
}

func (m *mockFeatures) Create(ctx context.Context, f featuredomain.Feature) (*featuredomain.Feature, error) {
	m.log.add("create feature " + f.ID)
	if f.ID == m.fail {
		return nil, errors.New("rejected")
	}
	return &f, nil
}

func (m *mockFeatures) Update(ctx context.Context, f featuredomain.Feature) (*featuredomain.Feature, error) {
	m.log.add("update feature " + f.ID)
	return &f, nil
}

func (m *mockFeatures) Delete(ctx context.Context, id string) error {
	m.log.add("delete feature " + id)
	return nil
}

func (m *mockFeatures) Archive(ctx context.Context, id string) error {
	m.log.add("archive feature " + id)
	return nil
}

type mockPlans struct {
	log      *callLog
	items    []plandomain.Plan
	deletion map[string]plandomain.DeletionInfo
	usage    map[string]plandomain.CustomerUsage
}

func (m *mockPlans) List(ctx context.Context) ([]plandomain.Plan, error) {
	return m.items, nil
}

func (m *mockPlans) Create(ctx context.Context, p plandomain.Plan) (*plandomain.Plan, error) {
	m.log.add("create plan " + p.ID)
	return &p, nil
}

func (m *mockPlans) Update(ctx context.Context, p plandomain.Plan) (*plandomain.Plan, error) {
	m.log.add("update plan " + p.ID)
	return &p, nil
}

func (m *mockPlans) Version(ctx context.Context, p plandomain.Plan) (*plandomain.Plan, error) {
	m.log.add("version plan " + p.ID)
	return &p, nil
}

func (m *mockPlans) Delete(ctx context.Context, id string) error {
	m.log.add("delete plan " + id)
	return nil
}

func (m *mockPlans) Archive(ctx context.Context, id string) error {
	m.log.add("archive plan " + id)
	return nil
}

func (m *mockPlans) DeletionInfo(ctx context.Context, id string) (plandomain.DeletionInfo, error) {
	return m.deletion[id], nil
}

func (m *mockPlans) CustomerUsage(ctx context.Context, id string) (plandomain.CustomerUsage, error) {
	return m.usage[id], nil
}

type mockConfirmer struct {
	deletion, archive, version bool
	asked                      []string
}

func (m *mockConfirmer) ConfirmDeletion(ctx context.Context, features []pushplan.FeatureDeletion, plans []pushplan.PlanDeletion) (bool, error) {
	m.asked = append(m.asked, "deletion")
	return m.deletion, nil
}

func (m *mockConfirmer) ConfirmArchive(ctx context.Context, features []pushplan.FeatureDeletion, plans []pushplan.PlanDeletion) (bool, error) {
	m.asked = append(m.asked, "archive")
	return m.archive, nil
}

func (m *mockConfirmer) ConfirmVersion(ctx context.Context, plans []plandomain.Plan) (bool, error) {
	m.asked = append(m.asked, "version")
	return m.version, nil
}

const localConfig = `import { feature, plan } from 'atmn';

export const messages = feature({
	id: 'messages',
	name: 'Messages',
	type: 'metered',
	consumable: true,
});

export const credits = feature({
	id: 'credits',
	name: 'Credits',
	type: 'credit_system',
	credit_schema: [
		{
			metered_feature_id: messages.id,
			credit_cost: 2,
		},
	],
});

export const pro = plan({
	id: 'pro',
	name: 'Pro',
	features: [
		{
			feature_id: messages.id,
			included: 100,
		},
	],
});
`

type fixture struct {
	log      *callLog
	features *mockFeatures
	plans    *mockPlans
	path     string
}

func newFixture(t *testing.T, remoteFeatures []featuredomain.Feature, remotePlans []plandomain.Plan) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "autumn.config.ts")
	require.NoError(t, os.WriteFile(path, []byte(localConfig), 0o644))

	log := &callLog{}
	return &fixture{
		log:      log,
		features: &mockFeatures{log: log, items: remoteFeatures},
		plans:    &mockPlans{log: log, items: remotePlans},
		path:     path,
	}
}

func (f *fixture) service(confirmer domain.Confirmer) domain.Service {
	return New(Params{Log: zap.NewNop(), Features: f.features, Plans: f.plans, Confirmer: confirmer})
}

func TestPush_CreatesInDependencyOrder(t *testing.T) {
	f := newFixture(t, nil, nil)

	result, err := f.service(nil).Push(context.Background(), domain.Request{Path: f.path})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"create feature messages",
		"create feature credits",
		"create plan pro",
	}, f.log.calls)
	assert.Len(t, result.Executed, 3)
}

func TestPush_DryRunWritesNothing(t *testing.T) {
	f := newFixture(t, nil, nil)

	result, err := f.service(nil).Push(context.Background(), domain.Request{Path: f.path, DryRun: true})
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Len(t, result.Analysis.FeaturesToCreate, 2)
	assert.Empty(t, f.log.calls)
}

func TestPush_RemovalsAndVersions(t *testing.T) {
	one := true
	remoteFeatures := []featuredomain.Feature{
		{ID: "messages", Name: "Messages", Type: featuredomain.FeatureTypeMetered, Consumable: &one},
		{ID: "credits", Name: "Credits", Type: featuredomain.FeatureTypeCreditSystem, CreditSchema: []featuredomain.CreditSchemaItem{{MeteredFeatureID: "messages", CreditCost: 2}}},
		{ID: "old_credits", Type: featuredomain.FeatureTypeCreditSystem},
		{ID: "seats", Type: featuredomain.FeatureTypeMetered, Consumable: &one},
	}
	remotePlans := []plandomain.Plan{
		{ID: "pro", Name: "Pro v0", Features: []plandomain.PlanFeature{}},
		{ID: "legacy", Features: []plandomain.PlanFeature{{FeatureID: "seats"}}},
		{ID: "gone", Features: []plandomain.PlanFeature{}},
	}

	tests := []struct {
		name      string
		req       domain.Request
		confirmer *mockConfirmer
		want      []string
		asked     []string
	}{
		{
			name: "yes approves everything",
			req:  domain.Request{Yes: true},
			want: []string{
				"version plan pro",
				"archive plan legacy",
				"delete plan gone",
				"delete feature old_credits",
				"archive feature seats",
			},
		},
		{
			name:      "declined prompts skip removals and versions",
			confirmer: &mockConfirmer{},
			asked:     []string{"deletion", "archive", "version"},
		},
		{
			name:      "deletion only",
			confirmer: &mockConfirmer{deletion: true},
			want:      []string{"delete plan gone", "delete feature old_credits"},
			asked:     []string{"deletion", "archive", "version"},
		},
		{
			name: "no confirmer without yes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, remoteFeatures, remotePlans)
			f.plans.deletion = map[string]plandomain.DeletionInfo{"legacy": {CustomerCount: 4, FirstCustomerName: "Acme"}}
			f.plans.usage = map[string]plandomain.CustomerUsage{"pro": {HasCustomers: true}}

			var confirmer domain.Confirmer
			if tt.confirmer != nil {
				confirmer = tt.confirmer
			}
			req := tt.req
			req.Path = f.path

			result, err := f.service(confirmer).Push(context.Background(), req)
			require.NoError(t, err)

			assert.Equal(t, tt.want, f.log.calls)
			if tt.confirmer != nil {
				assert.Equal(t, tt.asked, tt.confirmer.asked)
			}
			require.Len(t, result.Analysis.PlansToDelete, 2)
			assert.True(t, result.Analysis.HasBlockedDeletions())
		})
	}
}

func TestPush_StopsAtFirstFailure(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.features.fail = "credits"

	result, err := f.service(nil).Push(context.Background(), domain.Request{Path: f.path})
	require.Error(t, err)

	assert.Contains(t, err.Error(), "create feature credits")
	assert.Equal(t, []string{"create feature messages", "create feature credits"}, f.log.calls)
	require.Len(t, result.Executed, 1)
	assert.Equal(t, "messages", result.Executed[0].ID)
}

func TestPush_MissingFile(t *testing.T) {
	f := newFixture(t, nil, nil)

	_, err := f.service(nil).Push(context.Background(), domain.Request{Path: f.path + ".missing"})
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestPush_InvalidLocalEntity(t *testing.T) {
	f := newFixture(t, nil, nil)
	require.NoError(t, os.WriteFile(f.path, []byte("export const x = feature({ id: 'x', type: 'metered' });\n"), 0o644))

	_, err := f.service(nil).Push(context.Background(), domain.Request{Path: f.path})
	assert.ErrorIs(t, err, featuredomain.ErrInvalidConsumable)
	assert.Empty(t, f.log.calls)
}
