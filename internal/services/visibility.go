package services

import (
	"bytes"
	"context"
	"sort"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/repository"
	"github.com/google/uuid"
)

// Visibility answers who a viewer may see. A block in either direction
// hides both users from each other. Nothing is cached: every call reads the
// current block rows.
type Visibility struct {
	store repository.GraphStore
}

func NewVisibility(store repository.GraphStore) *Visibility {
	return &Visibility{store: store}
}

// In returns a Visibility reading through store, typically a transaction.
func (v *Visibility) In(store repository.GraphStore) *Visibility {
	return &Visibility{store: store}
}

func (v *Visibility) IsBlocked(ctx context.Context, a, b uuid.UUID) (bool, error) {
	if a == b {
		return false, nil
	}
	blocked, err := v.store.BlockExistsBetween(ctx, a, b)
	if err != nil {
		return false, apperr.Internal(err)
	}
	return blocked, nil
}

// ExcludedActors returns the ids whose content viewer must not see: users
// viewer blocked plus users who blocked viewer.
func (v *Visibility) ExcludedActors(ctx context.Context, viewer uuid.UUID) ([]uuid.UUID, error) {
	blocks, err := v.store.ListBlocksInvolving(ctx, viewer)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	seen := make(map[uuid.UUID]struct{}, len(blocks))
	ids := make([]uuid.UUID, 0, len(blocks))
	for _, b := range blocks {
		other := b.BlockedID
		if b.BlockedID == viewer {
			other = b.BlockerID
		}
		if _, dup := seen[other]; dup {
			continue
		}
		seen[other] = struct{}{}
		ids = append(ids, other)
	}
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
	return ids, nil
}

// Conceal returns NotFound(message) when owner and viewer are blocked
// either way, so hidden content looks exactly like missing content.
func (v *Visibility) Conceal(ctx context.Context, viewer, owner uuid.UUID, message string) error {
	blocked, err := v.IsBlocked(ctx, viewer, owner)
	if err != nil {
		return err
	}
	if blocked {
		return apperr.NotFound(message)
	}
	return nil
}
