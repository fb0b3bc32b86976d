package services

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/repository"
)

const (
	msgUserNotFound       = "User not found"
	msgPostNotFound       = "Post not found"
	msgLikeNotFound       = "Like not found"
	msgUserExists         = "User with this email or username already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgUsernameTaken      = "Username already taken"
	msgCannotFollowSelf   = "Cannot follow yourself"
	msgCannotFollowUser   = "Cannot follow this user"
	msgAlreadyFollowing   = "Already following this user"
	msgNotFollowing       = "Not following this user"
	msgCannotBlockSelf    = "Cannot block yourself"
	msgAlreadyBlocked     = "User already blocked"
	msgNotBlocked         = "User is not blocked"
	msgPostContentEmpty   = "Post content is required"
	msgPostTooLong        = "Post content must not exceed 1000 characters"
	msgOnlyAdminsDelete   = "Only admins can delete posts"
	msgAlreadyLiked       = "Post already liked"
	msgNotLiked           = "Post not liked yet"
	msgDeleteSelf         = "Cannot delete your own account"
	msgDeleteOwner        = "Cannot delete owner account"
	msgPromoteSelf        = "You are already an owner"
	msgDemoteSelf         = "Cannot demote yourself"
)

// storeErr converts a repository error into an app error. ErrNotFound
// becomes NotFound(notFound); app errors pass through; the rest is internal.
func storeErr(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(notFound)
	}
	return apperr.Internal(err)
}

// conflictOr maps a unique-constraint violation to Conflict(conflict). A
// request gets this when a concurrent duplicate wins the insert.
func conflictOr(err error, conflict, notFound string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return apperr.Conflict(conflict)
	}
	return storeErr(err, notFound)
}

// exists turns a Find* result into a presence flag.
func exists(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	}
	return false, apperr.Internal(err)
}
