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

type PostService struct {
	store      repository.Store
	visibility *Visibility
	recorder   *ActivityRecorder
}

func NewPostService(store repository.Store, visibility *Visibility, recorder *ActivityRecorder) *PostService {
	return &PostService{store: store, visibility: visibility, recorder: recorder}
}

func (s *PostService) CreatePost(ctx context.Context, authorID uuid.UUID, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	content, err := normalizeContent(req.Content)
	if err != nil {
		return nil, err
	}

	var view *models.PostView
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		post := models.Post{ID: uuid.New(), UserID: authorID, Content: content}
		if err := tx.CreatePost(ctx, &post); err != nil {
			return apperr.Internal(err)
		}

		_, err := s.recorder.Record(ctx, tx, ActivityInput{
			Type:     models.ActivityPostCreated,
			ActorID:  authorID,
			PostID:   &post.ID,
			Metadata: models.PostCreatedMeta{ContentPreview: excerpt(content, previewLength)},
		})
		if err != nil {
			return err
		}

		view, err = tx.FindPost(ctx, post.ID)
		return storeErr(err, msgPostNotFound)
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Committed(models.ActivityPostCreated)
	resp := dto.NewPostResponse(view)
	return &resp, nil
}

func (s *PostService) GetPost(ctx context.Context, viewerID, postID uuid.UUID) (*dto.PostResponse, error) {
	view, err := s.store.FindPost(ctx, postID)
	if err != nil {
		return nil, storeErr(err, msgPostNotFound)
	}
	if err := s.visibility.Conceal(ctx, viewerID, view.UserID, msgPostNotFound); err != nil {
		return nil, err
	}
	resp := dto.NewPostResponse(view)
	return &resp, nil
}

// DeletePost removes a post and its likes. The caller's role is read from
// the store, not from the token, so a demotion takes effect immediately.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		view, err := tx.FindPost(ctx, postID)
		if err != nil {
			return storeErr(err, msgPostNotFound)
		}

		actor, err := tx.FindUserByID(ctx, actorID)
		if err != nil {
			return storeErr(err, msgUserNotFound)
		}
		if !actor.Role.IsPrivileged() {
			return apperr.Forbidden(msgOnlyAdminsDelete)
		}

		if err := tx.DeletePost(ctx, postID); err != nil {
			return storeErr(err, msgPostNotFound)
		}

		_, err = s.recorder.Record(ctx, tx, ActivityInput{
			Type:    models.ActivityPostDeleted,
			ActorID: actorID,
			PostID:  &postID,
			Metadata: models.PostDeletedMeta{
				PostContent:    excerpt(view.Content, previewLength),
				OriginalAuthor: view.Username,
				DeletedBy:      actor.Role,
			},
		})
		return err
	})
	if err != nil {
		return err
	}

	s.recorder.Committed(models.ActivityPostDeleted)
	slog.Info("post deleted", "action", "delete_post", "user_id", actorID.String(), "post_id", postID.String())
	return nil
}

func (s *PostService) LikePost(ctx context.Context, userID, postID uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		view, err := tx.FindPost(ctx, postID)
		if err != nil {
			return storeErr(err, msgPostNotFound)
		}
		if err := s.visibility.In(tx).Conceal(ctx, userID, view.UserID, msgPostNotFound); err != nil {
			return err
		}

		found, err := exists(findErr(tx.FindLike(ctx, userID, postID)))
		if err != nil {
			return err
		}
		if found {
			return apperr.Conflict(msgAlreadyLiked)
		}

		like := models.Like{ID: uuid.New(), UserID: userID, PostID: postID}
		if err := tx.CreateLike(ctx, &like); err != nil {
			return conflictOr(err, msgAlreadyLiked, msgPostNotFound)
		}

		_, err = s.recorder.Record(ctx, tx, ActivityInput{
			Type:     models.ActivityPostLiked,
			ActorID:  userID,
			PostID:   &postID,
			LikeID:   &like.ID,
			Metadata: models.PostLikedMeta{PostAuthor: view.Username},
		})
		return err
	})
	if err != nil {
		return err
	}

	s.recorder.Committed(models.ActivityPostLiked)
	return nil
}

// UnlikePost removes the caller's like. It records no activity.
func (s *PostService) UnlikePost(ctx context.Context, userID, postID uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		like, err := tx.FindLike(ctx, userID, postID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Conflict(msgNotLiked)
		}
		if err != nil {
			return apperr.Internal(err)
		}
		return storeErr(tx.DeleteLike(ctx, like.ID), msgNotLiked)
	})
}
