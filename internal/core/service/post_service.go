package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type PostService struct {
	posts     ports.PostRepository
	companies ports.CompanyRepository
	refs      ports.ReferenceRepository
	cascade   ports.AdminRepository
	stats     ports.StatsCache
	log       zerolog.Logger
}

func NewPostService(
	posts ports.PostRepository,
	companies ports.CompanyRepository,
	refs ports.ReferenceRepository,
	cascade ports.AdminRepository,
	stats ports.StatsCache,
	log zerolog.Logger,
) *PostService {
	return &PostService{posts: posts, companies: companies, refs: refs, cascade: cascade, stats: stats, log: log}
}

// Create publishes a post under the caller's company. The open slot count
// starts equal to the requested number of workers.
func (s *PostService) Create(ctx context.Context, caller domain.Caller, in ports.CreatePostInput) (*domain.Post, error) {
	if !caller.IsEmployer() {
		return nil, domain.ErrWrongRole
	}
	if err := validatePostInput(in); err != nil {
		return nil, err
	}

	company, err := s.companies.FindByUserID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrCompanyNotFound) {
			return nil, domain.NewValidationError("company", domain.ReasonRequired)
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	if _, err := s.refs.FindCategory(ctx, in.CategoryID); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, domain.NewValidationError("category_id", domain.ReasonInvalid)
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	if _, err := s.refs.FindCity(ctx, in.LocationID); err != nil {
		if errors.Is(err, domain.ErrCityNotFound) {
			return nil, domain.NewValidationError("location_id", domain.ReasonInvalid)
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	post := &domain.Post{
		ID:             uuid.NewString(),
		UserID:         caller.UserID,
		CompanyID:      company.ID,
		CategoryID:     in.CategoryID,
		LocationID:     in.LocationID,
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		Type:           in.Type,
		Salary:         in.Salary,
		NrWorkers:      in.NrWorkers,
		Capacity:       in.NrWorkers,
		ExpirationDate: in.ExpirationDate.UTC(),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.log.Info().Str("post_id", post.ID).Str("user_id", caller.UserID).Int("nr_workers", post.NrWorkers).Msg("post created")
	return post, nil
}

func validatePostInput(in ports.CreatePostInput) error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return domain.NewValidationError("title", domain.ReasonRequired)
	case strings.TrimSpace(in.Description) == "":
		return domain.NewValidationError("description", domain.ReasonRequired)
	case strings.TrimSpace(in.Type) == "":
		return domain.NewValidationError("type", domain.ReasonRequired)
	case in.CategoryID == "":
		return domain.NewValidationError("category_id", domain.ReasonRequired)
	case in.LocationID == "":
		return domain.NewValidationError("location_id", domain.ReasonRequired)
	case in.NrWorkers < 1:
		return domain.NewValidationError("nr_workers", domain.ReasonOutOfRange)
	case in.ExpirationDate.IsZero():
		return domain.NewValidationError("expiration_date", domain.ReasonRequired)
	case !in.ExpirationDate.After(time.Now()):
		return domain.NewValidationError("expiration_date", domain.ReasonOutOfRange)
	}
	return nil
}

func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// List returns one page of posts, newest first.
func (s *PostService) List(ctx context.Context, in ports.ListPostsInput) (*ports.ListPostsResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := s.posts.List(ctx, ports.ListPostsFilter{
		CategoryID: in.CategoryID,
		LocationID: in.LocationID,
		Search:     strings.TrimSpace(in.Search),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListPostsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// ListMine returns every post the caller published.
func (s *PostService) ListMine(ctx context.Context, caller domain.Caller) ([]*domain.Post, error) {
	items, _, err := s.posts.List(ctx, ports.ListPostsFilter{UserID: caller.UserID, Page: 1})
	if err != nil {
		return nil, fmt.Errorf("list own posts: %w", err)
	}
	return items, nil
}

// Delete removes a post owned by the caller, with its applications and bookmarks,
// and drops the cached admin counts.
func (s *PostService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if !caller.Owns(post.UserID) {
		return domain.ErrNotOwner
	}
	if err := s.cascade.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if err := s.stats.Invalidate(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn().Err(err).Msg("stats cache invalidation failed")
	}
	s.log.Info().Str("post_id", id).Msg("post deleted by owner")
	return nil
}
