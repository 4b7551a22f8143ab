package repository

import (
	"context"
	"net/http"
	"testing"

	"github.com/smallbiznis/atmn/internal/api"
	"github.com/smallbiznis/atmn/internal/plan/domain"
	"github.com/smallbiznis/atmn/internal/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Manual Mocks

type mockClient struct {
	list     []shape.Object
	deletion shape.Object
	usage    shape.Object
	err      error
	sent     []shape.Object
}

func (m *mockClient) ListPlans(ctx context.Context) ([]shape.Object, error) {
	return m.list, m.err
}

func (m *mockClient) CreatePlan(ctx context.Context, body shape.Object) (shape.Object, error) {
	m.sent = append(m.sent, body)
	return nil, m.err
}

func (m *mockClient) UpdatePlan(ctx context.Context, id string, body shape.Object) (shape.Object, error) {
	m.sent = append(m.sent, body)
	return body, m.err
}

func (m *mockClient) DeletePlan(ctx context.Context, id string) error {
	return m.err
}

func (m *mockClient) PlanDeletionInfo(ctx context.Context, id string) (shape.Object, error) {
	return m.deletion, m.err
}

func (m *mockClient) PlanHasCustomers(ctx context.Context, id string) (shape.Object, error) {
	return m.usage, m.err
}

func TestRepo_ListDerivesResets(t *testing.T) {
	client := &mockClient{list: []shape.Object{{
		"id":      "pro",
		"default": true,
		"features": []any{
			map[string]any{
				"feature_id":      "messages",
				"granted_balance": 100.0,
				"price":           map[string]any{"amount": 0.5, "interval": "month", "usage_model": "usage_based"},
			},
		},
	}}}

	plans, err := New(client).List(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 1)

	p := plans[0]
	assert.True(t, p.AutoEnable)
	require.Len(t, p.Features, 1)
	require.NotNil(t, p.Features[0].Reset)
	assert.Equal(t, "month", p.Features[0].Reset.Interval)
	assert.Equal(t, "usage_based", p.Features[0].Price.BillingMethod)
}

func TestRepo_UpdateSendsWireShape(t *testing.T) {
	included := 5.0
	client := &mockClient{}

	updated, err := New(client).Update(context.Background(), domain.Plan{
		ID:         "team",
		Name:       "Team",
		AutoEnable: true,
		Features:   []domain.PlanFeature{{FeatureID: "seats", Included: &included}},
	})
	require.NoError(t, err)
	assert.Equal(t, "team", updated.ID)

	require.Len(t, client.sent, 1)
	body := client.sent[0]
	assert.Equal(t, true, body["default"])
	assert.NotContains(t, body, "auto_enable")
	features := body["features"].([]any)
	assert.Equal(t, 5.0, features[0].(shape.Object)["granted_balance"])
}

func TestRepo_UsageLookups(t *testing.T) {
	client := &mockClient{
		deletion: shape.Object{"customer_count": 3.0, "customer": shape.Object{"id": "cus_1", "email": "ops@acme.test"}},
		usage:    shape.Object{"has_customers": true, "customer_count": 3.0},
	}
	repo := New(client)

	info, err := repo.DeletionInfo(context.Background(), "pro")
	require.NoError(t, err)
	assert.Equal(t, domain.DeletionInfo{CustomerCount: 3, FirstCustomerName: "ops@acme.test"}, info)

	usage, err := repo.CustomerUsage(context.Background(), "pro")
	require.NoError(t, err)
	assert.True(t, usage.HasCustomers)
}

func TestRepo_NotFound(t *testing.T) {
	client := &mockClient{err: &api.APIError{StatusCode: http.StatusNotFound}}

	assert.ErrorIs(t, New(client).Archive(context.Background(), "gone"), domain.ErrNotFound)
	_, err := New(client).DeletionInfo(context.Background(), "gone")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
