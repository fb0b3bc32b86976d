package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/models"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(t *testing.T, s *Store, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", Password: "x", Role: models.RoleUser}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func TestTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := newUser(t, s, "alice")

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx repository.Store) error {
		require.NoError(t, tx.CreatePost(ctx, &models.Post{UserID: alice.ID, Content: "hello"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	total, err := s.CountPosts(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestTransactionCommits(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := newUser(t, s, "alice")

	err := s.Transaction(ctx, func(tx repository.Store) error {
		post := &models.Post{UserID: alice.ID, Content: "hello"}
		if err := tx.CreatePost(ctx, post); err != nil {
			return err
		}
		return tx.CreateActivity(ctx, &models.Activity{Type: models.ActivityPostCreated, ActorID: alice.ID, PostID: &post.ID})
	})
	require.NoError(t, err)

	posts, err := s.CountPosts(ctx, nil)
	require.NoError(t, err)
	activities, err := s.CountActivities(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), posts)
	assert.Equal(t, int64(1), activities)
}

func TestUniqueConstraints(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := newUser(t, s, "alice")
	bob := newUser(t, s, "bob")

	err := s.CreateUser(ctx, &models.User{Username: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	require.NoError(t, s.CreateFollow(ctx, &models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}))
	assert.ErrorIs(t, s.CreateFollow(ctx, &models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}), repository.ErrDuplicate)

	require.NoError(t, s.CreateBlock(ctx, &models.Block{BlockerID: alice.ID, BlockedID: bob.ID}))
	assert.ErrorIs(t, s.CreateBlock(ctx, &models.Block{BlockerID: alice.ID, BlockedID: bob.ID}), repository.ErrDuplicate)

	post := &models.Post{UserID: bob.ID, Content: "hi"}
	require.NoError(t, s.CreatePost(ctx, post))
	require.NoError(t, s.CreateLike(ctx, &models.Like{UserID: alice.ID, PostID: post.ID}))
	assert.ErrorIs(t, s.CreateLike(ctx, &models.Like{UserID: alice.ID, PostID: post.ID}), repository.ErrDuplicate)
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := newUser(t, s, "alice")
	bob := newUser(t, s, "bob")

	post := &models.Post{UserID: alice.ID, Content: "mine"}
	require.NoError(t, s.CreatePost(ctx, post))
	require.NoError(t, s.CreateLike(ctx, &models.Like{UserID: bob.ID, PostID: post.ID}))
	require.NoError(t, s.CreateFollow(ctx, &models.Follow{FollowerID: bob.ID, FollowingID: alice.ID}))
	require.NoError(t, s.CreateActivity(ctx, &models.Activity{Type: models.ActivityPostCreated, ActorID: alice.ID}))
	require.NoError(t, s.CreateActivity(ctx, &models.Activity{Type: models.ActivityUserFollowed, ActorID: bob.ID}))

	require.NoError(t, s.DeleteUser(ctx, alice.ID))

	_, err := s.FindUserByID(ctx, alice.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.FindPost(ctx, post.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	stats, err := s.UserStats(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.Following)

	activities, err := s.ListActivities(ctx, nil, 0, 10)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, bob.ID, activities[0].ActorID)
}

func TestListPostsNewestFirstWithExclusion(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := newUser(t, s, "alice")
	bob := newUser(t, s, "bob")

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		p := &models.Post{UserID: alice.ID, Content: "a"}
		require.NoError(t, s.CreatePost(ctx, p))
		ids = append(ids, p.ID)
	}
	require.NoError(t, s.CreatePost(ctx, &models.Post{UserID: bob.ID, Content: "b"}))

	views, err := s.ListPosts(ctx, []uuid.UUID{bob.ID}, 0, 2)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, ids[2], views[0].ID)
	assert.Equal(t, ids[1], views[1].ID)
	assert.Equal(t, "alice", views[0].Username)

	total, err := s.CountPosts(ctx, []uuid.UUID{bob.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestFailFunc(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("disk full")
	s.SetFailFunc(func(op string) error {
		if op == "CreateUser" {
			return boom
		}
		return nil
	})

	err := s.CreateUser(ctx, &models.User{Username: "x", Email: "x@example.com"})
	assert.ErrorIs(t, err, boom)
}
