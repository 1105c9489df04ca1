package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jobboard/jobboard-api/internal/core/ports"
	"github.com/jobboard/jobboard-api/internal/pkg/metrics"
)

// CapacityTracker owns the nr_workers counter of a post. All mutations go
// through single-document conditional updates, so concurrent reserve/release
// calls on one post never lose an update and never drive the counter below zero.
type CapacityTracker struct {
	posts ports.PostRepository
	log   zerolog.Logger
}

func NewCapacityTracker(posts ports.PostRepository, log zerolog.Logger) *CapacityTracker {
	return &CapacityTracker{posts: posts, log: log}
}

// ReserveSlot takes one open position. It fails with domain.ErrNoCapacity when
// the post is full.
func (t *CapacityTracker) ReserveSlot(ctx context.Context, postID string) error {
	if err := t.posts.DecrementWorkers(ctx, postID); err != nil {
		return fmt.Errorf("reserve slot: %w", err)
	}
	return nil
}

// ReleaseSlot gives one position back. The increment stops at the capacity the
// post was created with; a blocked increment is logged and counted, not returned.
func (t *CapacityTracker) ReleaseSlot(ctx context.Context, postID string) error {
	released, err := t.posts.IncrementWorkers(ctx, postID)
	if err != nil {
		return fmt.Errorf("release slot: %w", err)
	}
	if !released {
		metrics.CapacityOverReleaseTotal.Inc()
		t.log.Warn().Str("post_id", postID).Msg("slot release blocked: post already at full capacity")
	}
	return nil
}
