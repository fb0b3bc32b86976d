package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/repository"
	"github.com/google/uuid"
)

type UserService struct {
	store      repository.Store
	visibility *Visibility
}

func NewUserService(store repository.Store, visibility *Visibility) *UserService {
	return &UserService{store: store, visibility: visibility}
}

// GetUser returns a profile with its counters. A user who blocked the
// viewer, or whom the viewer blocked, is reported as not found.
func (s *UserService) GetUser(ctx context.Context, viewerID, targetID uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := s.store.FindUserByID(ctx, targetID)
	if err != nil {
		return nil, storeErr(err, msgUserNotFound)
	}
	if err := s.visibility.Conceal(ctx, viewerID, targetID, msgUserNotFound); err != nil {
		return nil, err
	}

	stats, err := s.store.UserStats(ctx, targetID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &dto.ProfileResponse{UserResponse: dto.NewUserResponse(user), Count: stats}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	var username, bio *string
	if req.Username != nil {
		v := strings.TrimSpace(*req.Username)
		if err := validateUsername(v); err != nil {
			return nil, err
		}
		username = &v
	}
	if req.Bio != nil {
		v := strings.TrimSpace(*req.Bio)
		if err := validateBio(v); err != nil {
			return nil, err
		}
		bio = &v
	}

	if username != nil {
		existing, err := s.store.FindUserByUsername(ctx, *username)
		switch {
		case err == nil && existing.ID != userID:
			return nil, apperr.Conflict(msgUsernameTaken)
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, apperr.Internal(err)
		}
	}

	if err := s.store.UpdateUserProfile(ctx, userID, username, bio); err != nil {
		return nil, conflictOr(err, msgUsernameTaken, msgUserNotFound)
	}

	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, msgUserNotFound)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}
