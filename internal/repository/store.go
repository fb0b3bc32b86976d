// Package repository is the relational store behind every service. Services
// receive a Store and never touch *gorm.DB directly, so an in-memory Store
// can stand in for PostgreSQL.
package repository

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	// UserExists reports whether any user holds the email or the username.
	UserExists(ctx context.Context, email, username string) (bool, error)
	UpdateUserProfile(ctx context.Context, id uuid.UUID, username, bio *string) error
	UpdateUserRole(ctx context.Context, id uuid.UUID, role models.Role) error
	// DeleteUser removes the user together with their posts, likes, follows,
	// blocks and activities.
	DeleteUser(ctx context.Context, id uuid.UUID) error
	UserStats(ctx context.Context, id uuid.UUID) (models.UserStats, error)
}

type GraphStore interface {
	FindFollow(ctx context.Context, followerID, followingID uuid.UUID) (*models.Follow, error)
	CreateFollow(ctx context.Context, follow *models.Follow) error
	DeleteFollow(ctx context.Context, followerID, followingID uuid.UUID) error
	// DeleteFollowsBetween removes follow edges in both directions.
	DeleteFollowsBetween(ctx context.Context, a, b uuid.UUID) (int64, error)

	FindBlock(ctx context.Context, blockerID, blockedID uuid.UUID) (*models.Block, error)
	// BlockExistsBetween is true if either user blocks the other.
	BlockExistsBetween(ctx context.Context, a, b uuid.UUID) (bool, error)
	// ListBlocksInvolving returns every block row where userID is either side.
	ListBlocksInvolving(ctx context.Context, userID uuid.UUID) ([]models.Block, error)
	CreateBlock(ctx context.Context, block *models.Block) error
	DeleteBlock(ctx context.Context, blockerID, blockedID uuid.UUID) error
}

type ContentStore interface {
	CreatePost(ctx context.Context, post *models.Post) error
	FindPost(ctx context.Context, id uuid.UUID) (*models.PostView, error)
	ListPosts(ctx context.Context, excludeAuthors []uuid.UUID, offset, limit int) ([]models.PostView, error)
	CountPosts(ctx context.Context, excludeAuthors []uuid.UUID) (int64, error)
	DeletePost(ctx context.Context, id uuid.UUID) error

	FindLike(ctx context.Context, userID, postID uuid.UUID) (*models.Like, error)
	FindLikeByID(ctx context.Context, id uuid.UUID) (*models.Like, error)
	CreateLike(ctx context.Context, like *models.Like) error
	DeleteLike(ctx context.Context, id uuid.UUID) error
}

type ActivityStore interface {
	CreateActivity(ctx context.Context, activity *models.Activity) error
	ListActivities(ctx context.Context, excludeActors []uuid.UUID, offset, limit int) ([]models.ActivityView, error)
	CountActivities(ctx context.Context, excludeActors []uuid.UUID) (int64, error)
}

// Store is the full repository surface. Transaction runs fn against a
// Store bound to one database transaction: everything fn writes commits
// together or not at all.
type Store interface {
	UserStore
	GraphStore
	ContentStore
	ActivityStore

	Transaction(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}
