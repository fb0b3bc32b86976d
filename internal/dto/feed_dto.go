package dto

import (
	"math"
	"time"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/models"
	"github.com/google/uuid"
)

const (
	DefaultPage          = 1
	DefaultPostLimit     = 20
	DefaultActivityLimit = 50
	MaxLimit             = 100

	// MaxPage keeps (page-1)*limit within int for any allowed limit.
	MaxPage = math.MaxInt/MaxLimit + 1
)

// PageRequest is a clamped page/limit pair. Build it with NewPageRequest.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest applies the feed rules: a zero page or limit means the
// default, page is kept within [1, MaxPage], limit within [1, MaxLimit].
func NewPageRequest(page, limit, defaultLimit int) PageRequest {
	if page == 0 {
		page = DefaultPage
	}
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

func NewPagination(req PageRequest, total int64) Pagination {
	totalPages := (total + int64(req.Limit) - 1) / int64(req.Limit)
	return Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    int64(req.Page) < totalPages,
		HasPrev:    req.Page > 1,
	}
}

type UserRef struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

type PostResponse struct {
	ID         uuid.UUID `json:"id"`
	Content    string    `json:"content"`
	UserID     uuid.UUID `json:"userId"`
	User       UserRef   `json:"user"`
	LikesCount int64     `json:"likesCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewPostResponse(v *models.PostView) PostResponse {
	return PostResponse{
		ID:         v.ID,
		Content:    v.Content,
		UserID:     v.UserID,
		User:       UserRef{ID: v.UserID, Username: v.Username},
		LikesCount: v.LikesCount,
		CreatedAt:  v.CreatedAt,
	}
}

type PostRef struct {
	ID      uuid.UUID `json:"id"`
	Content string    `json:"content"`
}

type ActivityResponse struct {
	ID        uuid.UUID               `json:"id"`
	Type      models.ActivityType     `json:"type"`
	Actor     UserRef                 `json:"actor"`
	Post      *PostRef                `json:"post,omitempty"`
	LikeID    *uuid.UUID              `json:"likeId,omitempty"`
	FollowID  *uuid.UUID              `json:"followId,omitempty"`
	Metadata  models.ActivityMetadata `json:"metadata,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
}

type PostPage struct {
	Posts      []PostResponse `json:"posts"`
	Pagination Pagination     `json:"pagination"`
}

type ActivityPage struct {
	Activities []ActivityResponse `json:"activities"`
	Pagination Pagination         `json:"pagination"`
}
