package services

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/models"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/repository"
	"github.com/google/uuid"
)

// GraphService owns follow and block edges. Blocking removes follows in
// both directions and stops new ones until unblocked.
type GraphService struct {
	store      repository.Store
	visibility *Visibility
	recorder   *ActivityRecorder
}

func NewGraphService(store repository.Store, visibility *Visibility, recorder *ActivityRecorder) *GraphService {
	return &GraphService{store: store, visibility: visibility, recorder: recorder}
}

func (s *GraphService) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	if followerID == followingID {
		return apperr.Forbidden(msgCannotFollowSelf)
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		target, err := tx.FindUserByID(ctx, followingID)
		if err != nil {
			return storeErr(err, msgUserNotFound)
		}

		blocked, err := s.visibility.In(tx).IsBlocked(ctx, followerID, followingID)
		if err != nil {
			return err
		}
		if blocked {
			return apperr.Forbidden(msgCannotFollowUser)
		}

		found, err := exists(findErr(tx.FindFollow(ctx, followerID, followingID)))
		if err != nil {
			return err
		}
		if found {
			return apperr.Conflict(msgAlreadyFollowing)
		}

		follow := models.Follow{ID: uuid.New(), FollowerID: followerID, FollowingID: followingID}
		if err := tx.CreateFollow(ctx, &follow); err != nil {
			return conflictOr(err, msgAlreadyFollowing, msgUserNotFound)
		}

		_, err = s.recorder.Record(ctx, tx, ActivityInput{
			Type:     models.ActivityUserFollowed,
			ActorID:  followerID,
			FollowID: &follow.ID,
			Metadata: models.UserFollowedMeta{FollowingUsername: target.Username},
		})
		return err
	})
	if err != nil {
		return err
	}

	s.recorder.Committed(models.ActivityUserFollowed)
	s.transition("follow", followerID, followingID)
	return nil
}

func (s *GraphService) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		found, err := exists(findErr(tx.FindFollow(ctx, followerID, followingID)))
		if err != nil {
			return err
		}
		if !found {
			return apperr.Conflict(msgNotFollowing)
		}
		return storeErr(tx.DeleteFollow(ctx, followerID, followingID), msgNotFollowing)
	})
	if err != nil {
		return err
	}

	s.transition("unfollow", followerID, followingID)
	return nil
}

// Block inserts the block edge and drops follows both ways in one
// transaction.
func (s *GraphService) Block(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if blockerID == blockedID {
		return apperr.Forbidden(msgCannotBlockSelf)
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.FindUserByID(ctx, blockedID); err != nil {
			return storeErr(err, msgUserNotFound)
		}

		found, err := exists(findErr(tx.FindBlock(ctx, blockerID, blockedID)))
		if err != nil {
			return err
		}
		if found {
			return apperr.Conflict(msgAlreadyBlocked)
		}

		block := models.Block{ID: uuid.New(), BlockerID: blockerID, BlockedID: blockedID}
		if err := tx.CreateBlock(ctx, &block); err != nil {
			return conflictOr(err, msgAlreadyBlocked, msgUserNotFound)
		}

		removed, err := tx.DeleteFollowsBetween(ctx, blockerID, blockedID)
		if err != nil {
			return apperr.Internal(err)
		}
		if removed > 0 {
			slog.Info("follows removed by block", "action", "block", "user_id", blockerID.String(), "target_id", blockedID.String(), "removed", removed)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.transition("block", blockerID, blockedID)
	return nil
}

// Unblock removes the edge only. Follows dropped by the block stay gone.
func (s *GraphService) Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		found, err := exists(findErr(tx.FindBlock(ctx, blockerID, blockedID)))
		if err != nil {
			return err
		}
		if !found {
			return apperr.Conflict(msgNotBlocked)
		}
		return storeErr(tx.DeleteBlock(ctx, blockerID, blockedID), msgNotBlocked)
	})
	if err != nil {
		return err
	}

	s.transition("unblock", blockerID, blockedID)
	return nil
}

func (s *GraphService) transition(name string, actor, target uuid.UUID) {
	metrics.GraphTransitions.WithLabelValues(name).Inc()
	slog.Info("graph transition", "action", name, "user_id", actor.String(), "target_id", target.String())
}

// findErr drops the record from a Find* result.
func findErr[T any](_ T, err error) error {
	return err
}
