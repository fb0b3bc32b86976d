package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/models"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func following(t *testing.T, f *fixture, a, b uuid.UUID) bool {
	t.Helper()
	_, err := f.store.FindFollow(context.Background(), a, b)
	if errors.Is(err, repository.ErrNotFound) {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestFollowRecordsActivity(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.signup(t, "alice"), f.signup(t, "bob")

	require.NoError(t, f.graph.Follow(context.Background(), alice, bob))
	assert.True(t, following(t, f, alice, bob))

	acts := f.activities(t)
	require.Len(t, acts, 1)
	assert.Equal(t, models.ActivityUserFollowed, acts[0].Type)
	assert.Equal(t, alice, acts[0].ActorID)
	require.NotNil(t, acts[0].FollowID)

	meta, err := acts[0].DecodeMetadata()
	require.NoError(t, err)
	assert.Equal(t, &models.UserFollowedMeta{FollowingUsername: "bob"}, meta)
}

func TestFollowErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.signup(t, "alice"), f.signup(t, "bob")

	requireAppErr(t, f.graph.Follow(ctx, alice, alice), apperr.KindForbidden, "Cannot follow yourself")
	requireAppErr(t, f.graph.Follow(ctx, alice, uuid.New()), apperr.KindNotFound, "User not found")

	require.NoError(t, f.graph.Follow(ctx, alice, bob))
	requireAppErr(t, f.graph.Follow(ctx, alice, bob), apperr.KindConflict, "Already following this user")
	assert.Len(t, f.activities(t), 1)

	requireAppErr(t, f.graph.Unfollow(ctx, bob, alice), apperr.KindConflict, "Not following this user")
}

func TestUnfollow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.signup(t, "alice"), f.signup(t, "bob")

	require.NoError(t, f.graph.Follow(ctx, alice, bob))
	require.NoError(t, f.graph.Unfollow(ctx, alice, bob))
	assert.False(t, following(t, f, alice, bob))
	assert.Len(t, f.activities(t), 1, "unfollow records nothing")
}

func TestBlockRemovesFollowsBothWays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.signup(t, "alice"), f.signup(t, "bob")

	require.NoError(t, f.graph.Follow(ctx, alice, bob))
	require.NoError(t, f.graph.Follow(ctx, bob, alice))
	require.NoError(t, f.graph.Block(ctx, alice, bob))

	assert.False(t, following(t, f, alice, bob))
	assert.False(t, following(t, f, bob, alice))

	requireAppErr(t, f.graph.Follow(ctx, alice, bob), apperr.KindForbidden, "Cannot follow this user")
	requireAppErr(t, f.graph.Follow(ctx, bob, alice), apperr.KindForbidden, "Cannot follow this user")
}

func TestBlockErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.signup(t, "alice"), f.signup(t, "bob")

	requireAppErr(t, f.graph.Block(ctx, alice, alice), apperr.KindForbidden, "Cannot block yourself")
	requireAppErr(t, f.graph.Block(ctx, alice, uuid.New()), apperr.KindNotFound, "User not found")

	require.NoError(t, f.graph.Block(ctx, alice, bob))
	requireAppErr(t, f.graph.Block(ctx, alice, bob), apperr.KindConflict, "User already blocked")
	requireAppErr(t, f.graph.Unblock(ctx, bob, alice), apperr.KindConflict, "User is not blocked")
}

func TestUnblockDoesNotRestoreFollows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.signup(t, "alice"), f.signup(t, "bob")

	require.NoError(t, f.graph.Follow(ctx, bob, alice))
	require.NoError(t, f.graph.Block(ctx, alice, bob))
	require.NoError(t, f.graph.Unblock(ctx, alice, bob))

	assert.False(t, following(t, f, bob, alice))
	require.NoError(t, f.graph.Follow(ctx, bob, alice))
}

func TestBlockIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.signup(t, "alice"), f.signup(t, "bob")
	require.NoError(t, f.graph.Follow(ctx, bob, alice))

	f.store.SetFailFunc(func(op string) error {
		if op == "DeleteFollowsBetween" {
			return assert.AnError
		}
		return nil
	})
	requireAppErr(t, f.graph.Block(ctx, alice, bob), apperr.KindInternal, "")
	f.store.SetFailFunc(nil)

	_, err := f.store.FindBlock(ctx, alice, bob)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.True(t, following(t, f, bob, alice))
}

// A duplicate that only the unique index catches, as when two requests race
// past the existence check, still reads as Conflict and records nothing.
func TestDuplicateInsertIsConflict(t *testing.T) {
	tests := []struct {
		op      string
		message string
		call    func(f *fixture, alice, bob, postID uuid.UUID) error
	}{
		{"CreateFollow", "Already following this user", func(f *fixture, alice, bob, _ uuid.UUID) error {
			return f.graph.Follow(context.Background(), bob, alice)
		}},
		{"CreateBlock", "User already blocked", func(f *fixture, alice, bob, _ uuid.UUID) error {
			return f.graph.Block(context.Background(), bob, alice)
		}},
		{"CreateLike", "Post already liked", func(f *fixture, _, bob, postID uuid.UUID) error {
			return f.posts.LikePost(context.Background(), bob, postID)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			f := newFixture(t)
			alice, bob := f.signup(t, "alice"), f.signup(t, "bob")
			postID := f.post(t, alice, "hello")
			before := len(f.activities(t))

			f.store.SetFailFunc(func(op string) error {
				if op == tt.op {
					return repository.ErrDuplicate
				}
				return nil
			})
			requireAppErr(t, tt.call(f, alice, bob, postID), apperr.KindConflict, tt.message)
			f.store.SetFailFunc(nil)

			assert.Len(t, f.activities(t), before)
		})
	}
}
