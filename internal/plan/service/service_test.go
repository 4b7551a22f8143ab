package service

import (
	"context"
	"testing"

	"github.com/smallbiznis/atmn/internal/plan/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Manual Mocks

type mockRepo struct {
	created []domain.Plan
	updated []domain.Plan
	deleted []string
}

func (m *mockRepo) List(ctx context.Context) ([]domain.Plan, error) {
	return []domain.Plan{{ID: "free"}}, nil
}

func (m *mockRepo) Create(ctx context.Context, plan domain.Plan) (*domain.Plan, error) {
	m.created = append(m.created, plan)
	return &plan, nil
}

func (m *mockRepo) Update(ctx context.Context, plan domain.Plan) (*domain.Plan, error) {
	m.updated = append(m.updated, plan)
	return &plan, nil
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockRepo) Archive(ctx context.Context, id string) error {
	return nil
}

func (m *mockRepo) DeletionInfo(ctx context.Context, id string) (domain.DeletionInfo, error) {
	return domain.DeletionInfo{CustomerCount: 1}, nil
}

func (m *mockRepo) CustomerUsage(ctx context.Context, id string) (domain.CustomerUsage, error) {
	return domain.CustomerUsage{HasCustomers: true}, nil
}

func TestService_CreateRejectsIncludedWithUnlimited(t *testing.T) {
	repo := &mockRepo{}
	svc := New(Params{Log: zap.NewNop(), Repo: repo})
	included := 10.0

	_, err := svc.Create(context.Background(), domain.Plan{
		ID:       "pro",
		Features: []domain.PlanFeature{{FeatureID: "messages", Included: &included, Unlimited: true}},
	})
	assert.ErrorIs(t, err, domain.ErrIncludedWithUnlimited)
	assert.Empty(t, repo.created)

	_, err = svc.Create(context.Background(), domain.Plan{Name: "nameless"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestService_UpdateAndVersionShareThePath(t *testing.T) {
	repo := &mockRepo{}
	svc := New(Params{Log: zap.NewNop(), Repo: repo})
	ctx := context.Background()

	_, err := svc.Update(ctx, domain.Plan{ID: "pro", Features: []domain.PlanFeature{}})
	require.NoError(t, err)
	_, err = svc.Version(ctx, domain.Plan{ID: "team", Features: []domain.PlanFeature{}})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "old"))

	require.Len(t, repo.updated, 2)
	assert.Equal(t, "team", repo.updated[1].ID)
	assert.Equal(t, []string{"old"}, repo.deleted)

	usage, err := svc.CustomerUsage(ctx, "pro")
	require.NoError(t, err)
	assert.True(t, usage.HasCustomers)
}
