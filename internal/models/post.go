package models

import (
	"time"

	"github.com/google/uuid"
)

const MaxPostContentLength = 1000

// Post is owned by its author; only privileged users delete posts.
type Post struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Post) TableName() string {
	return "posts"
}

// PostView is a post joined with its author and like count.
type PostView struct {
	ID         uuid.UUID `json:"id"`
	Content    string    `json:"content"`
	UserID     uuid.UUID `json:"userId"`
	Username   string    `json:"-"`
	LikesCount int64     `json:"likesCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Like is unique per (user, post).
type Like struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_post,priority:1" json:"userId"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_post,priority:2;index" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Post      Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Like) TableName() string {
	return "likes"
}
