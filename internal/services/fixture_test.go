package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/models"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type fixture struct {
	store *memory.Store
	creds *Credentials
	auth  *AuthService
	users *UserService
	graph *GraphService
	posts *PostService
	feed  *FeedService
	admin *AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	creds := NewCredentials(testSecret, time.Hour, bcrypt.MinCost)
	set := NewSet(store, creds)

	return &fixture{
		store: store,
		creds: creds,
		auth:  set.Auth,
		users: set.Users,
		graph: set.Graph,
		posts: set.Posts,
		feed:  set.Feed,
		admin: set.Admin,
	}
}

func (f *fixture) signup(t *testing.T, username string) uuid.UUID {
	t.Helper()
	resp, err := f.auth.Signup(context.Background(), &dto.SignupRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return resp.User.ID
}

func (f *fixture) setRole(t *testing.T, id uuid.UUID, role models.Role) {
	t.Helper()
	require.NoError(t, f.store.UpdateUserRole(context.Background(), id, role))
}

func (f *fixture) post(t *testing.T, author uuid.UUID, content string) uuid.UUID {
	t.Helper()
	resp, err := f.posts.CreatePost(context.Background(), author, &dto.CreatePostRequest{Content: content})
	require.NoError(t, err)
	return resp.ID
}

func (f *fixture) activities(t *testing.T) []models.ActivityView {
	t.Helper()
	views, err := f.store.ListActivities(context.Background(), nil, 0, 1000)
	require.NoError(t, err)
	return views
}

func requireAppErr(t *testing.T, err error, kind apperr.Kind, message string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok, "expected app error, got %v", err)
	require.Equal(t, kind, appErr.Kind)
	if message != "" {
		require.Equal(t, message, appErr.Message)
	}
}
