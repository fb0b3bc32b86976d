package models

import (
	"time"

	"github.com/google/uuid"
)

// Block is stored one-directional but hides content both ways.
type Block struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BlockerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_blocks_pair,priority:1" json:"blockerId"`
	BlockedID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_blocks_pair,priority:2;index" json:"blockedId"`
	CreatedAt time.Time `json:"createdAt"`
	Blocker   User      `gorm:"foreignKey:BlockerID;constraint:OnDelete:CASCADE" json:"-"`
	Blocked   User      `gorm:"foreignKey:BlockedID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Block) TableName() string {
	return "blocks"
}

// Follow is a directed edge: FollowerID follows FollowingID.
type Follow struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FollowerID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair,priority:1" json:"followerId"`
	FollowingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair,priority:2;index" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
	Follower    User      `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Following   User      `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Follow) TableName() string {
	return "follows"
}
