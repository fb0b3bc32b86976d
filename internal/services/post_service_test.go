package services

import (
	"context"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/models"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	f := newFixture(t)
	alice := f.signup(t, "alice")

	resp, err := f.posts.CreatePost(context.Background(), alice, &dto.CreatePostRequest{Content: "  hello world  "})
	require.NoError(t, err)
	assert.Equal(t, "hello world", resp.Content)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Zero(t, resp.LikesCount)

	acts := f.activities(t)
	require.Len(t, acts, 1)
	assert.Equal(t, models.ActivityPostCreated, acts[0].Type)
	require.NotNil(t, acts[0].PostID)
	assert.Equal(t, resp.ID, *acts[0].PostID)
}

func TestCreatePostValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{name: "empty", content: "", message: "Post content is required"},
		{name: "whitespace", content: "   \n\t", message: "Post content is required"},
		{name: "too_long", content: strings.Repeat("x", 1001), message: "Post content must not exceed 1000 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			alice := f.signup(t, "alice")
			_, err := f.posts.CreatePost(context.Background(), alice, &dto.CreatePostRequest{Content: tt.content})
			requireAppErr(t, err, apperr.KindValidation, tt.message)
			assert.Empty(t, f.activities(t))
		})
	}
}

func TestCreatePostAcceptsMultibyteAtLimit(t *testing.T) {
	f := newFixture(t)
	alice := f.signup(t, "alice")

	_, err := f.posts.CreatePost(context.Background(), alice, &dto.CreatePostRequest{Content: strings.Repeat("é", 1000)})
	require.NoError(t, err)
}

func TestGetPostHiddenByBlock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.signup(t, "alice"), f.signup(t, "bob")
	postID := f.post(t, alice, "hello")

	_, err := f.posts.GetPost(ctx, bob, postID)
	require.NoError(t, err)

	require.NoError(t, f.graph.Block(ctx, alice, bob))
	_, err = f.posts.GetPost(ctx, bob, postID)
	requireAppErr(t, err, apperr.KindNotFound, "Post not found")

	_, err = f.posts.GetPost(ctx, bob, uuid.New())
	requireAppErr(t, err, apperr.KindNotFound, "Post not found")

	own, err := f.posts.GetPost(ctx, alice, postID)
	require.NoError(t, err)
	assert.Equal(t, postID, own.ID)
}

func TestLikeScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.signup(t, "alice"), f.signup(t, "bob")
	postID := f.post(t, alice, "hello")

	require.NoError(t, f.posts.LikePost(ctx, bob, postID))

	post, err := f.posts.GetPost(ctx, alice, postID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.LikesCount)

	acts := f.activities(t)
	require.Len(t, acts, 2)
	assert.Equal(t, models.ActivityPostLiked, acts[0].Type)
	assert.Equal(t, models.ActivityPostCreated, acts[1].Type)
	meta, err := acts[0].DecodeMetadata()
	require.NoError(t, err)
	assert.Equal(t, &models.PostLikedMeta{PostAuthor: "alice"}, meta)

	requireAppErr(t, f.posts.LikePost(ctx, bob, postID), apperr.KindConflict, "Post already liked")

	require.NoError(t, f.posts.UnlikePost(ctx, bob, postID))
	assert.Len(t, f.activities(t), 2, "unlike records nothing")
	requireAppErr(t, f.posts.UnlikePost(ctx, bob, postID), apperr.KindConflict, "Post not liked yet")
}

func TestLikeBlockedPost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.signup(t, "alice"), f.signup(t, "bob")
	postID := f.post(t, alice, "hello")

	require.NoError(t, f.graph.Block(ctx, bob, alice))
	requireAppErr(t, f.posts.LikePost(ctx, bob, postID), apperr.KindNotFound, "Post not found")
	requireAppErr(t, f.posts.LikePost(ctx, bob, uuid.New()), apperr.KindNotFound, "Post not found")
}

func TestLikeIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.signup(t, "alice"), f.signup(t, "bob")
	postID := f.post(t, alice, "hello")

	f.store.SetFailFunc(func(op string) error {
		if op == "CreateActivity" {
			return assert.AnError
		}
		return nil
	})
	requireAppErr(t, f.posts.LikePost(ctx, bob, postID), apperr.KindInternal, "")
	f.store.SetFailFunc(nil)

	_, err := f.store.FindLike(ctx, bob, postID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Len(t, f.activities(t), 1)
}

func TestDeletePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob, admin := f.signup(t, "alice"), f.signup(t, "bob"), f.signup(t, "admin")
	f.setRole(t, admin, models.RoleAdmin)
	postID := f.post(t, alice, "a post worth deleting")
	require.NoError(t, f.posts.LikePost(ctx, bob, postID))

	requireAppErr(t, f.posts.DeletePost(ctx, alice, postID), apperr.KindForbidden, "Only admins can delete posts")
	requireAppErr(t, f.posts.DeletePost(ctx, admin, uuid.New()), apperr.KindNotFound, "Post not found")

	require.NoError(t, f.posts.DeletePost(ctx, admin, postID))
	_, err := f.posts.GetPost(ctx, alice, postID)
	requireAppErr(t, err, apperr.KindNotFound, "Post not found")

	_, err = f.store.FindLike(ctx, bob, postID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	acts := f.activities(t)
	require.Len(t, acts, 3)
	assert.Equal(t, models.ActivityPostDeleted, acts[0].Type)
	assert.Equal(t, admin, acts[0].ActorID)
	assert.Nil(t, acts[0].PostContent, "deleted post no longer resolves")

	meta, err := acts[0].DecodeMetadata()
	require.NoError(t, err)
	assert.Equal(t, &models.PostDeletedMeta{
		PostContent:    "a post worth deleting",
		OriginalAuthor: "alice",
		DeletedBy:      models.RoleAdmin,
	}, meta)
}
