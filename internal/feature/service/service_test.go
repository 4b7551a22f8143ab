package service

import (
	"context"
	"testing"

	"github.com/smallbiznis/atmn/internal/feature/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Manual Mocks

type mockRepo struct {
	created  []domain.Feature
	updated  []domain.Feature
	deleted  []string
	archived []string
}

func (m *mockRepo) List(ctx context.Context) ([]domain.Feature, error) {
	return nil, nil
}

func (m *mockRepo) Create(ctx context.Context, feature domain.Feature) (*domain.Feature, error) {
	m.created = append(m.created, feature)
	return &feature, nil
}

func (m *mockRepo) Update(ctx context.Context, feature domain.Feature) (*domain.Feature, error) {
	m.updated = append(m.updated, feature)
	return &feature, nil
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockRepo) Archive(ctx context.Context, id string) error {
	m.archived = append(m.archived, id)
	return nil
}

func newService(repo *mockRepo) domain.Service {
	return New(Params{Log: zap.NewNop(), Repo: repo})
}

func TestService_CreateValidates(t *testing.T) {
	yes := true
	tests := []struct {
		name    string
		feature domain.Feature
		err     error
	}{
		{name: "missing id", feature: domain.Feature{Type: domain.FeatureTypeBoolean}, err: domain.ErrInvalidID},
		{name: "bad type", feature: domain.Feature{ID: "x", Type: "single_use"}, err: domain.ErrInvalidType},
		{name: "boolean with consumable", feature: domain.Feature{ID: "x", Type: domain.FeatureTypeBoolean, Consumable: &yes}, err: domain.ErrInvalidConsumable},
		{name: "metered without consumable", feature: domain.Feature{ID: "x", Type: domain.FeatureTypeMetered}, err: domain.ErrInvalidConsumable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			_, err := newService(repo).Create(context.Background(), tt.feature)
			assert.ErrorIs(t, err, tt.err)
			assert.Empty(t, repo.created)
		})
	}
}

func TestService_Writes(t *testing.T) {
	repo := &mockRepo{}
	svc := newService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.Feature{ID: " sso ", Type: domain.FeatureTypeBoolean})
	require.NoError(t, err)
	_, err = svc.Update(ctx, domain.Feature{ID: "sso", Name: "SSO", Type: domain.FeatureTypeBoolean})
	require.NoError(t, err)
	require.NoError(t, svc.Archive(ctx, "legacy"))
	require.NoError(t, svc.Delete(ctx, "old"))

	assert.Equal(t, "sso", repo.created[0].ID)
	assert.Equal(t, "SSO", repo.updated[0].Name)
	assert.Equal(t, []string{"legacy"}, repo.archived)
	assert.Equal(t, []string{"old"}, repo.deleted)
	assert.ErrorIs(t, svc.Delete(ctx, " "), domain.ErrInvalidID)
}
