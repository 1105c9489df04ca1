package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// SavedPostService manages per-user bookmarks.
type SavedPostService struct {
	repo  ports.SavedPostRepository
	posts ports.PostRepository
}

func NewSavedPostService(repo ports.SavedPostRepository, posts ports.PostRepository) *SavedPostService {
	return &SavedPostService{repo: repo, posts: posts}
}

// Save bookmarks an existing post. Saving twice is a no-op.
func (s *SavedPostService) Save(ctx context.Context, caller domain.Caller, postID string) error {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return fmt.Errorf("save post: %w", err)
	}
	err := s.repo.Save(ctx, &domain.SavedPost{
		ID:        uuid.NewString(),
		UserID:    caller.UserID,
		PostID:    postID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("save post: %w", err)
	}
	return nil
}

func (s *SavedPostService) Unsave(ctx context.Context, caller domain.Caller, postID string) error {
	if err := s.repo.Delete(ctx, caller.UserID, postID); err != nil {
		return fmt.Errorf("unsave post: %w", err)
	}
	return nil
}

func (s *SavedPostService) List(ctx context.Context, caller domain.Caller) ([]*domain.SavedPost, error) {
	saved, err := s.repo.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("list saved posts: %w", err)
	}
	return saved, nil
}
