package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GormStore implements Store on PostgreSQL. The *gorm.DB must be opened
// with TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

func excludeColumn(db *gorm.DB, column string, ids []uuid.UUID) *gorm.DB {
	if len(ids) == 0 {
		return db
	}
	return db.Where(column+" NOT IN ?", ids)
}

// --- users ---

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

func (s *GormStore) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) UserExists(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	return count > 0, translate(err)
}

func (s *GormStore) UpdateUserProfile(ctx context.Context, id uuid.UUID, username, bio *string) error {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if username != nil {
		updates["username"] = *username
	}
	if bio != nil {
		updates["bio"] = *bio
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) UpdateUserRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"role": role, "updated_at": time.Now()})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser deletes dependents explicitly rather than relying on FK
// cascades, so the result is the same on databases migrated before the
// constraints existed. Callers wrap it in Transaction.
func (s *GormStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	ownPosts := db.Model(&models.Post{}).Select("id").Where("user_id = ?", id)

	steps := []func() error{
		func() error {
			return db.Where("user_id = ? OR post_id IN (?)", id, ownPosts).Delete(&models.Like{}).Error
		},
		func() error {
			return db.Where("follower_id = ? OR following_id = ?", id, id).Delete(&models.Follow{}).Error
		},
		func() error {
			return db.Where("blocker_id = ? OR blocked_id = ?", id, id).Delete(&models.Block{}).Error
		},
		func() error { return db.Where("actor_id = ?", id).Delete(&models.Activity{}).Error },
		func() error { return db.Where("user_id = ?", id).Delete(&models.Post{}).Error },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return translate(err)
		}
	}

	result := db.Where("id = ?", id).Delete(&models.User{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) UserStats(ctx context.Context, id uuid.UUID) (models.UserStats, error) {
	var stats models.UserStats
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Post{}).Where("user_id = ?", id).Count(&stats.Posts).Error; err != nil {
		return stats, translate(err)
	}
	if err := db.Model(&models.Follow{}).Where("following_id = ?", id).Count(&stats.Followers).Error; err != nil {
		return stats, translate(err)
	}
	if err := db.Model(&models.Follow{}).Where("follower_id = ?", id).Count(&stats.Following).Error; err != nil {
		return stats, translate(err)
	}
	return stats, nil
}

// --- follows & blocks ---

func (s *GormStore) FindFollow(ctx context.Context, followerID, followingID uuid.UUID) (*models.Follow, error) {
	var follow models.Follow
	err := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&follow).Error
	if err != nil {
		return nil, translate(err)
	}
	return &follow, nil
}

func (s *GormStore) CreateFollow(ctx context.Context, follow *models.Follow) error {
	return translate(s.db.WithContext(ctx).Create(follow).Error)
}

func (s *GormStore) DeleteFollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteFollowsBetween(ctx context.Context, a, b uuid.UUID) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("(follower_id = ? AND following_id = ?) OR (follower_id = ? AND following_id = ?)", a, b, b, a).
		Delete(&models.Follow{})
	return result.RowsAffected, translate(result.Error)
}

func (s *GormStore) FindBlock(ctx context.Context, blockerID, blockedID uuid.UUID) (*models.Block, error) {
	var block models.Block
	err := s.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		First(&block).Error
	if err != nil {
		return nil, translate(err)
	}
	return &block, nil
}

func (s *GormStore) BlockExistsBetween(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, translate(err)
}

func (s *GormStore) ListBlocksInvolving(ctx context.Context, userID uuid.UUID) ([]models.Block, error) {
	var blocks []models.Block
	err := s.db.WithContext(ctx).
		Select("id", "blocker_id", "blocked_id", "created_at").
		Where("blocker_id = ? OR blocked_id = ?", userID, userID).
		Find(&blocks).Error
	return blocks, translate(err)
}

func (s *GormStore) CreateBlock(ctx context.Context, block *models.Block) error {
	return translate(s.db.WithContext(ctx).Create(block).Error)
}

func (s *GormStore) DeleteBlock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.Block{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- posts & likes ---

const postViewColumns = "posts.id, posts.content, posts.user_id, users.username, posts.created_at, " +
	"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count"

func (s *GormStore) postViews(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table("posts").
		Select(postViewColumns).
		Joins("JOIN users ON users.id = posts.user_id")
}

func (s *GormStore) CreatePost(ctx context.Context, post *models.Post) error {
	return translate(s.db.WithContext(ctx).Create(post).Error)
}

func (s *GormStore) FindPost(ctx context.Context, id uuid.UUID) (*models.PostView, error) {
	var views []models.PostView
	if err := s.postViews(ctx).Where("posts.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		return nil, translate(err)
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &views[0], nil
}

func (s *GormStore) ListPosts(ctx context.Context, excludeAuthors []uuid.UUID, offset, limit int) ([]models.PostView, error) {
	var views []models.PostView
	err := excludeColumn(s.postViews(ctx), "posts.user_id", excludeAuthors).
		Order("posts.created_at DESC, posts.id DESC").
		Offset(offset).
		Limit(limit).
		Scan(&views).Error
	return views, translate(err)
}

func (s *GormStore) CountPosts(ctx context.Context, excludeAuthors []uuid.UUID) (int64, error) {
	var total int64
	err := excludeColumn(s.db.WithContext(ctx).Model(&models.Post{}), "user_id", excludeAuthors).
		Count(&total).Error
	return total, translate(err)
}

func (s *GormStore) DeletePost(ctx context.Context, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	if err := db.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
		return translate(err)
	}
	result := db.Where("id = ?", id).Delete(&models.Post{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) FindLike(ctx context.Context, userID, postID uuid.UUID) (*models.Like, error) {
	var like models.Like
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&like).Error
	if err != nil {
		return nil, translate(err)
	}
	return &like, nil
}

func (s *GormStore) FindLikeByID(ctx context.Context, id uuid.UUID) (*models.Like, error) {
	var like models.Like
	if err := s.db.WithContext(ctx).First(&like, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &like, nil
}

func (s *GormStore) CreateLike(ctx context.Context, like *models.Like) error {
	return translate(s.db.WithContext(ctx).Create(like).Error)
}

func (s *GormStore) DeleteLike(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Like{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- activities ---

type activityRow struct {
	ID            uuid.UUID
	Type          models.ActivityType
	ActorID       uuid.UUID
	PostID        *uuid.UUID
	LikeID        *uuid.UUID
	FollowID      *uuid.UUID
	Metadata      datatypes.JSON
	CreatedAt     time.Time
	ActorUsername string
	PostContent   *string
}

func (s *GormStore) CreateActivity(ctx context.Context, activity *models.Activity) error {
	return translate(s.db.WithContext(ctx).Create(activity).Error)
}

func (s *GormStore) ListActivities(ctx context.Context, excludeActors []uuid.UUID, offset, limit int) ([]models.ActivityView, error) {
	var rows []activityRow
	query := s.db.WithContext(ctx).Table("activities").
		Select("activities.id, activities.type, activities.actor_id, activities.post_id, " +
			"activities.like_id, activities.follow_id, activities.metadata, activities.created_at, " +
			"users.username AS actor_username, posts.content AS post_content").
		Joins("JOIN users ON users.id = activities.actor_id").
		Joins("LEFT JOIN posts ON posts.id = activities.post_id")

	err := excludeColumn(query, "activities.actor_id", excludeActors).
		Order("activities.created_at DESC, activities.id DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}

	views := make([]models.ActivityView, len(rows))
	for i, r := range rows {
		views[i] = models.ActivityView{
			Activity: models.Activity{
				ID:        r.ID,
				Type:      r.Type,
				ActorID:   r.ActorID,
				PostID:    r.PostID,
				LikeID:    r.LikeID,
				FollowID:  r.FollowID,
				Metadata:  r.Metadata,
				CreatedAt: r.CreatedAt,
			},
			ActorUsername: r.ActorUsername,
			PostContent:   r.PostContent,
		}
	}
	return views, nil
}

func (s *GormStore) CountActivities(ctx context.Context, excludeActors []uuid.UUID) (int64, error) {
	var total int64
	err := excludeColumn(s.db.WithContext(ctx).Model(&models.Activity{}), "actor_id", excludeActors).
		Count(&total).Error
	return total, translate(err)
}
