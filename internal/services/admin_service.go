package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/models"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/repository"
	"github.com/google/uuid"
)

// AdminService holds the privileged operations. Route middleware gates who
// reaches it; the rules about targets are enforced here.
type AdminService struct {
	store    repository.Store
	recorder *ActivityRecorder
}

func NewAdminService(store repository.Store, recorder *ActivityRecorder) *AdminService {
	return &AdminService{store: store, recorder: recorder}
}

// DeleteUser removes target and everything they own. The USER_DELETED
// record is written by the admin and survives the cascade.
func (s *AdminService) DeleteUser(ctx context.Context, adminID, targetID uuid.UUID) error {
	if adminID == targetID {
		return apperr.Forbidden(msgDeleteSelf)
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		target, err := tx.FindUserByID(ctx, targetID)
		if err != nil {
			return storeErr(err, msgUserNotFound)
		}
		if target.Role == models.RoleOwner {
			return apperr.Forbidden(msgDeleteOwner)
		}

		_, err = s.recorder.Record(ctx, tx, ActivityInput{
			Type:     models.ActivityUserDeleted,
			ActorID:  adminID,
			Metadata: models.UserDeletedMeta{DeletedUsername: target.Username, DeletedUserID: &target.ID},
		})
		if err != nil {
			return err
		}
		return storeErr(tx.DeleteUser(ctx, targetID), msgUserNotFound)
	})
	if err != nil {
		return err
	}

	s.recorder.Committed(models.ActivityUserDeleted)
	slog.Info("user deleted", "action", "delete_user", "user_id", adminID.String(), "target_id", targetID.String())
	return nil
}

func (s *AdminService) DeleteLike(ctx context.Context, adminID, likeID uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		like, err := tx.FindLikeByID(ctx, likeID)
		if err != nil {
			return storeErr(err, msgLikeNotFound)
		}
		owner, err := tx.FindUserByID(ctx, like.UserID)
		if err != nil {
			return storeErr(err, msgLikeNotFound)
		}
		admin, err := tx.FindUserByID(ctx, adminID)
		if err != nil {
			return storeErr(err, msgUserNotFound)
		}

		if err := tx.DeleteLike(ctx, likeID); err != nil {
			return storeErr(err, msgLikeNotFound)
		}

		_, err = s.recorder.Record(ctx, tx, ActivityInput{
			Type:    models.ActivityLikeDeleted,
			ActorID: adminID,
			PostID:  &like.PostID,
			LikeID:  &likeID,
			Metadata: models.LikeDeletedMeta{
				LikeOwner: owner.Username,
				PostID:    &like.PostID,
				DeletedBy: admin.Role,
			},
		})
		return err
	})
	if err != nil {
		return err
	}

	s.recorder.Committed(models.ActivityLikeDeleted)
	slog.Info("like deleted", "action", "delete_like", "user_id", adminID.String(), "like_id", likeID.String())
	return nil
}

// Promote raises a USER to ADMIN.
func (s *AdminService) Promote(ctx context.Context, ownerID, targetID uuid.UUID) (*dto.UserResponse, error) {
	if ownerID == targetID {
		return nil, apperr.Forbidden(msgPromoteSelf)
	}
	return s.changeRole(ctx, targetID, "promote", models.Role.Promote)
}

// Demote lowers an ADMIN to USER.
func (s *AdminService) Demote(ctx context.Context, ownerID, targetID uuid.UUID) (*dto.UserResponse, error) {
	if ownerID == targetID {
		return nil, apperr.Forbidden(msgDemoteSelf)
	}
	return s.changeRole(ctx, targetID, "demote", models.Role.Demote)
}

func (s *AdminService) changeRole(ctx context.Context, targetID uuid.UUID, action string, next func(models.Role) (models.Role, error)) (*dto.UserResponse, error) {
	var updated *models.User
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		target, err := tx.FindUserByID(ctx, targetID)
		if err != nil {
			return storeErr(err, msgUserNotFound)
		}

		role, err := next(target.Role)
		if err != nil {
			return roleErr(err)
		}
		if err := tx.UpdateUserRole(ctx, targetID, role); err != nil {
			return storeErr(err, msgUserNotFound)
		}

		target.Role = role
		updated = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("role changed", "action", action, "target_id", targetID.String(), "role", string(updated.Role))
	resp := dto.NewUserResponse(updated)
	return &resp, nil
}

func roleErr(err error) error {
	switch {
	case errors.Is(err, models.ErrAlreadyAdmin):
		return apperr.Forbidden("User is already an admin")
	case errors.Is(err, models.ErrAlreadyOwner):
		return apperr.Forbidden("User is already an owner")
	case errors.Is(err, models.ErrNotAdmin):
		return apperr.Forbidden("User is not an admin")
	}
	return apperr.Internal(err)
}
