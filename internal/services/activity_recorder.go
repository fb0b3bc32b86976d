package services

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/models"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/repository"
	"github.com/google/uuid"
)

type ActivityInput struct {
	Type     models.ActivityType
	ActorID  uuid.UUID
	PostID   *uuid.UUID
	LikeID   *uuid.UUID
	FollowID *uuid.UUID
	Metadata models.ActivityMetadata
}

// ActivityRecorder writes activity rows inside the caller's transaction, so
// an activity exists exactly when its mutation commits.
type ActivityRecorder struct{}

func NewActivityRecorder() *ActivityRecorder {
	return &ActivityRecorder{}
}

func (r *ActivityRecorder) Record(ctx context.Context, tx repository.ActivityStore, in ActivityInput) (*models.Activity, error) {
	if in.Metadata != nil && in.Metadata.ActivityType() != in.Type {
		return nil, apperr.Internal(fmt.Errorf("activity %s given %s metadata", in.Type, in.Metadata.ActivityType()))
	}
	meta, err := models.EncodeMetadata(in.Metadata)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	activity := &models.Activity{
		ID:       uuid.New(),
		Type:     in.Type,
		ActorID:  in.ActorID,
		PostID:   in.PostID,
		LikeID:   in.LikeID,
		FollowID: in.FollowID,
		Metadata: meta,
	}
	if err := tx.CreateActivity(ctx, activity); err != nil {
		return nil, apperr.Internal(fmt.Errorf("record %s activity: %w", in.Type, err))
	}
	return activity, nil
}

// Committed counts an activity once its transaction has committed.
func (r *ActivityRecorder) Committed(t models.ActivityType) {
	metrics.ActivitiesRecorded.WithLabelValues(string(t)).Inc()
}
