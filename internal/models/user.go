package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account on the network. Username and email are unique store-wide.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username  string    `gorm:"size:30;not null;uniqueIndex:idx_users_username" json:"username"`
	Email     string    `gorm:"size:255;not null;uniqueIndex:idx_users_email" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      Role      `gorm:"size:10;not null;default:'USER'" json:"role"`
	Bio       string    `gorm:"size:200" json:"bio"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserStats holds the derived counters shown on a profile.
type UserStats struct {
	Posts     int64 `json:"posts"`
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}
