package catalog

import (
	"context"
	"errors"
	"testing"

	featuredomain "github.com/smallbiznis/atmn/internal/feature/domain"
	plandomain "github.com/smallbiznis/atmn/internal/plan/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Manual Mocks

type featureLister struct {
	items []featuredomain.Feature
	err   error
}

func (l featureLister) List(ctx context.Context) ([]featuredomain.Feature, error) {
	return l.items, l.err
}

type planLister struct {
	items []plandomain.Plan
	err   error
}

func (l planLister) List(ctx context.Context) ([]plandomain.Plan, error) {
	return l.items, l.err
}

func TestFetch(t *testing.T) {
	cat, err := Fetch(context.Background(),
		featureLister{items: []featuredomain.Feature{{ID: "a"}, {ID: "old", Archived: true}}},
		planLister{items: []plandomain.Plan{{ID: "pro"}}},
	)
	require.NoError(t, err)
	assert.Equal(t, 3, cat.Len())

	active := cat.Active()
	assert.Equal(t, 2, active.Len())
	_, ok := active.Feature("old")
	assert.False(t, ok)
	p, ok := active.Plan("pro")
	assert.True(t, ok)
	assert.Equal(t, "pro", p.ID)
}

func TestFetch_Error(t *testing.T) {
	boom := errors.New("unauthorized")

	_, err := Fetch(context.Background(), featureLister{}, planLister{err: boom})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "fetch plans")
}
