package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibilityIsSymmetric(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob, carol := f.signup(t, "alice"), f.signup(t, "bob"), f.signup(t, "carol")
	require.NoError(t, f.graph.Block(ctx, alice, bob))
	require.NoError(t, f.graph.Block(ctx, carol, alice))

	v := NewVisibility(f.store)

	blocked, err := v.IsBlocked(ctx, bob, alice)
	require.NoError(t, err)
	assert.True(t, blocked)

	blocked, err = v.IsBlocked(ctx, bob, carol)
	require.NoError(t, err)
	assert.False(t, blocked)

	blocked, err = v.IsBlocked(ctx, alice, alice)
	require.NoError(t, err)
	assert.False(t, blocked)

	excluded, err := v.ExcludedActors(ctx, alice)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{bob, carol}, excluded)

	excluded, err = v.ExcludedActors(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, excluded, 1)
	assert.Equal(t, alice, excluded[0])
}
