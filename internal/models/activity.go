package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActivityType string

const (
	ActivityPostCreated  ActivityType = "POST_CREATED"
	ActivityPostDeleted  ActivityType = "POST_DELETED"
	ActivityPostLiked    ActivityType = "POST_LIKED"
	ActivityLikeDeleted  ActivityType = "LIKE_DELETED"
	ActivityUserFollowed ActivityType = "USER_FOLLOWED"
	ActivityUserDeleted  ActivityType = "USER_DELETED"
)

// Activity is an append-only record of a committed mutation. PostID, LikeID
// and FollowID carry no foreign keys so the row outlives what it references.
type Activity struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Type      ActivityType   `gorm:"size:30;not null;index" json:"type"`
	ActorID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"actorId"`
	PostID    *uuid.UUID     `gorm:"type:uuid" json:"postId,omitempty"`
	LikeID    *uuid.UUID     `gorm:"type:uuid" json:"likeId,omitempty"`
	FollowID  *uuid.UUID     `gorm:"type:uuid" json:"followId,omitempty"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
	Actor     User           `gorm:"foreignKey:ActorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Activity) TableName() string {
	return "activities"
}

// ActivityView is an activity joined with its actor and, when the post
// still exists, the referenced post.
type ActivityView struct {
	Activity
	ActorUsername string
	PostContent   *string
}

// ActivityMetadata is the typed snapshot stored with an activity. Each
// activity type has exactly one payload shape.
type ActivityMetadata interface {
	ActivityType() ActivityType
}

type PostCreatedMeta struct {
	ContentPreview string `json:"contentPreview,omitempty"`
}

type PostDeletedMeta struct {
	PostContent    string `json:"postContent,omitempty"`
	OriginalAuthor string `json:"originalAuthor,omitempty"`
	DeletedBy      Role   `json:"deletedBy,omitempty"`
}

type PostLikedMeta struct {
	PostAuthor string `json:"postAuthor,omitempty"`
}

type LikeDeletedMeta struct {
	LikeOwner string     `json:"likeOwner,omitempty"`
	PostID    *uuid.UUID `json:"postId,omitempty"`
	DeletedBy Role       `json:"deletedBy,omitempty"`
}

type UserFollowedMeta struct {
	FollowingUsername string `json:"followingUsername,omitempty"`
}

type UserDeletedMeta struct {
	DeletedUsername string     `json:"deletedUsername,omitempty"`
	DeletedUserID   *uuid.UUID `json:"deletedUserId,omitempty"`
}

func (PostCreatedMeta) ActivityType() ActivityType  { return ActivityPostCreated }
func (PostDeletedMeta) ActivityType() ActivityType  { return ActivityPostDeleted }
func (PostLikedMeta) ActivityType() ActivityType    { return ActivityPostLiked }
func (LikeDeletedMeta) ActivityType() ActivityType  { return ActivityLikeDeleted }
func (UserFollowedMeta) ActivityType() ActivityType { return ActivityUserFollowed }
func (UserDeletedMeta) ActivityType() ActivityType  { return ActivityUserDeleted }

// EncodeMetadata serializes a payload for the jsonb column.
func EncodeMetadata(meta ActivityMetadata) (datatypes.JSON, error) {
	if meta == nil {
		return nil, nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encode %s metadata: %w", meta.ActivityType(), err)
	}
	return datatypes.JSON(b), nil
}

// DecodeMetadata returns the payload variant matching a.Type. Unknown keys
// are ignored; a nil payload decodes to nil.
func (a *Activity) DecodeMetadata() (ActivityMetadata, error) {
	if len(a.Metadata) == 0 || string(a.Metadata) == "null" {
		return nil, nil
	}

	var meta ActivityMetadata
	switch a.Type {
	case ActivityPostCreated:
		meta = &PostCreatedMeta{}
	case ActivityPostDeleted:
		meta = &PostDeletedMeta{}
	case ActivityPostLiked:
		meta = &PostLikedMeta{}
	case ActivityLikeDeleted:
		meta = &LikeDeletedMeta{}
	case ActivityUserFollowed:
		meta = &UserFollowedMeta{}
	case ActivityUserDeleted:
		meta = &UserDeletedMeta{}
	default:
		return nil, fmt.Errorf("unknown activity type %q", a.Type)
	}

	if err := json.Unmarshal(a.Metadata, meta); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", a.Type, err)
	}
	return meta, nil
}
