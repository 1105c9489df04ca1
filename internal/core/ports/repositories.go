package ports

import (
	"context"

	"github.com/jobboard/jobboard-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// ListPostsFilter carries the query parameters for listing posts.
type ListPostsFilter struct {
	UserID     string // optional: only posts owned by this employer
	CategoryID string // optional
	LocationID string // optional
	Search     string // optional: case-insensitive match on title
	Page       int    // 1-based
	Limit      int    // capped at 100 by the service
}

// PostRepository defines persistence for posts, including the per-row atomic
// counter operations the capacity tracker relies on.
type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) error
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context, filter ListPostsFilter) ([]*domain.Post, int64, error)

	// DecrementWorkers takes one slot in a single conditional update
	// (nr_workers > 0). It returns domain.ErrNoCapacity when no slot is left
	// and domain.ErrPostNotFound when the post does not exist.
	DecrementWorkers(ctx context.Context, id string) error

	// IncrementWorkers returns one slot in a single conditional update
	// (nr_workers < capacity). It reports false when the guard blocked the
	// increment.
	IncrementWorkers(ctx context.Context, id string) (bool, error)
}

// ApplicationRepository defines persistence for applications.
type ApplicationRepository interface {
	// Create inserts a new application. It returns domain.ErrDuplicateApplication
	// when the (user, post) pair already has one.
	Create(ctx context.Context, a *domain.Application) error
	FindByID(ctx context.Context, id string) (*domain.Application, error)
	Exists(ctx context.Context, userID, postID string) (bool, error)

	// DeleteOwned removes the application only when it belongs to userID and
	// reports whether a document was removed.
	DeleteOwned(ctx context.Context, id, userID string) (bool, error)

	// UpdateStatusFrom sets the status to next only when the stored status is
	// one of from, and reports whether the document changed.
	UpdateStatusFrom(ctx context.Context, id string, next domain.ApplicationStatus, from []domain.ApplicationStatus) (bool, error)

	ListByUser(ctx context.Context, userID string) ([]*domain.Application, error)
	ListByPost(ctx context.Context, postID string) ([]*domain.Application, error)

	// ExistsForEmployer reports whether applicantID applied to any post owned by employerID.
	ExistsForEmployer(ctx context.Context, applicantID, employerID string) (bool, error)
}

// CVRepository defines persistence for CV records.
type CVRepository interface {
	// Create returns domain.ErrCVExists when the user already has a CV.
	Create(ctx context.Context, cv *domain.CV) error
	FindByID(ctx context.Context, id string) (*domain.CV, error)
	FindByUserID(ctx context.Context, userID string) (*domain.CV, error)
	// UpdateFile replaces the file metadata of an existing record.
	UpdateFile(ctx context.Context, cv *domain.CV) error
	Delete(ctx context.Context, id string) error
}

// CompanyRepository defines persistence for company profiles.
type CompanyRepository interface {
	// Create returns domain.ErrCompanyExists when the user already owns one.
	Create(ctx context.Context, c *domain.Company) error
	FindByID(ctx context.Context, id string) (*domain.Company, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Company, error)
	Update(ctx context.Context, c *domain.Company) error
	UpdateImage(ctx context.Context, id, image string) error
	Delete(ctx context.Context, id string) error
}

// ReferenceRepository defines persistence for lookup data.
type ReferenceRepository interface {
	ListCities(ctx context.Context) ([]*domain.City, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	FindCity(ctx context.Context, id string) (*domain.City, error)
	FindCategory(ctx context.Context, id string) (*domain.Category, error)
	CreateCity(ctx context.Context, c *domain.City) error
	CreateCategory(ctx context.Context, c *domain.Category) error
}

// SavedPostRepository defines persistence for bookmarks.
type SavedPostRepository interface {
	// Save is idempotent per (user, post).
	Save(ctx context.Context, s *domain.SavedPost) error
	Delete(ctx context.Context, userID, postID string) error
	ListByUser(ctx context.Context, userID string) ([]*domain.SavedPost, error)
}
