package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/models"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/repository"
	"github.com/google/uuid"
)

// FeedService serves the two paginated, newest-first feeds. Both drop
// anything authored by a user blocked either way, and the total is counted
// under the same filter.
type FeedService struct {
	store      repository.Store
	visibility *Visibility
}

func NewFeedService(store repository.Store, visibility *Visibility) *FeedService {
	return &FeedService{store: store, visibility: visibility}
}

func (s *FeedService) ListPosts(ctx context.Context, viewerID uuid.UUID, page dto.PageRequest) (*dto.PostPage, error) {
	defer observe("posts", time.Now())

	excluded, err := s.visibility.ExcludedActors(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	views, err := s.store.ListPosts(ctx, excluded, page.Offset(), page.Limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	total, err := s.store.CountPosts(ctx, excluded)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	posts := make([]dto.PostResponse, 0, len(views))
	for i := range views {
		posts = append(posts, dto.NewPostResponse(&views[i]))
	}
	return &dto.PostPage{Posts: posts, Pagination: dto.NewPagination(page, total)}, nil
}

func (s *FeedService) ListActivities(ctx context.Context, viewerID uuid.UUID, page dto.PageRequest) (*dto.ActivityPage, error) {
	defer observe("activities", time.Now())

	excluded, err := s.visibility.ExcludedActors(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	views, err := s.store.ListActivities(ctx, excluded, page.Offset(), page.Limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	total, err := s.store.CountActivities(ctx, excluded)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	activities := make([]dto.ActivityResponse, 0, len(views))
	for i := range views {
		activities = append(activities, activityResponse(&views[i]))
	}
	return &dto.ActivityPage{Activities: activities, Pagination: dto.NewPagination(page, total)}, nil
}

func activityResponse(v *models.ActivityView) dto.ActivityResponse {
	resp := dto.ActivityResponse{
		ID:        v.ID,
		Type:      v.Type,
		Actor:     dto.UserRef{ID: v.ActorID, Username: v.ActorUsername},
		LikeID:    v.LikeID,
		FollowID:  v.FollowID,
		CreatedAt: v.CreatedAt,
	}
	// The referenced post is shown only while it still exists.
	if v.PostID != nil && v.PostContent != nil {
		resp.Post = &dto.PostRef{ID: *v.PostID, Content: *v.PostContent}
	}

	meta, err := v.DecodeMetadata()
	if err != nil {
		slog.Warn("unreadable activity metadata", "activity_id", v.ID.String(), "error", err)
	} else {
		resp.Metadata = meta
	}
	return resp
}

func observe(feed string, start time.Time) {
	metrics.FeedQueryDuration.WithLabelValues(feed).Observe(time.Since(start).Seconds())
}
