package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/models"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/repository"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/services"
	"github.com/google/uuid"
)

type seedUser struct {
	Username string
	Role     models.Role
	Bio      string
}

var seedUsers = []seedUser{
	{"owner", models.RoleOwner, "I am the owner of this platform"},
	{"admin", models.RoleAdmin, "I am an administrator"},
	{"alice", models.RoleUser, "Hello! I love coding and technology"},
	{"bob", models.RoleUser, "Software developer and coffee enthusiast"},
	{"charlie", models.RoleUser, "Learning new things every day"},
}

var seedPosts = []struct {
	Author  string
	Content string
}{
	{"alice", "Just joined this amazing platform! Looking forward to connecting with everyone."},
	{"bob", "Working on a new Go project. Any tips for best practices?"},
	{"charlie", "Beautiful day for coding!"},
}

// follower -> following
var seedFollows = [][2]string{
	{"alice", "bob"},
	{"bob", "charlie"},
	{"charlie", "alice"},
}

// liker -> index into seedPosts
var seedLikes = []struct {
	User string
	Post int
}{
	{"bob", 0},
	{"charlie", 0},
	{"alice", 1},
}

func seedEmail(username string) string {
	return username + "@example.com"
}

// seed goes through the services so every post, follow and like records
// its activity the same way live traffic does.
func seed(ctx context.Context, store repository.Store, svc *services.Set, password string, out io.Writer) error {
	if _, err := store.FindUserByEmail(ctx, seedEmail(seedUsers[0].Username)); err == nil {
		slog.Info("sample data already present, skipping")
		fmt.Fprintln(out, "Sample accounts already exist; run with --reset to recreate them.")
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	ids := make(map[string]uuid.UUID, len(seedUsers))
	for _, u := range seedUsers {
		resp, err := svc.Auth.Signup(ctx, &dto.SignupRequest{
			Username: u.Username,
			Email:    seedEmail(u.Username),
			Password: password,
			Bio:      u.Bio,
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", u.Username, err)
		}
		ids[u.Username] = resp.User.ID
		if u.Role != models.RoleUser {
			if err := store.UpdateUserRole(ctx, resp.User.ID, u.Role); err != nil {
				return fmt.Errorf("set role for %s: %w", u.Username, err)
			}
		}
	}

	postIDs := make([]uuid.UUID, len(seedPosts))
	for i, p := range seedPosts {
		resp, err := svc.Posts.CreatePost(ctx, ids[p.Author], &dto.CreatePostRequest{Content: p.Content})
		if err != nil {
			return fmt.Errorf("create post for %s: %w", p.Author, err)
		}
		postIDs[i] = resp.ID
	}

	for _, f := range seedFollows {
		if err := svc.Graph.Follow(ctx, ids[f[0]], ids[f[1]]); err != nil {
			return fmt.Errorf("%s follow %s: %w", f[0], f[1], err)
		}
	}

	for _, l := range seedLikes {
		if err := svc.Posts.LikePost(ctx, ids[l.User], postIDs[l.Post]); err != nil {
			return fmt.Errorf("%s like post %d: %w", l.User, l.Post, err)
		}
	}

	slog.Info("database seeded", "users", len(seedUsers), "posts", len(seedPosts), "follows", len(seedFollows), "likes", len(seedLikes))

	fmt.Fprintln(out, "Test accounts:")
	for _, u := range seedUsers {
		fmt.Fprintf(out, "  %-7s %-22s %s\n", u.Role, seedEmail(u.Username), password)
	}
	return nil
}
