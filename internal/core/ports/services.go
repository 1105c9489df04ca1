package ports

import (
	"context"
	"io"
	"time"

	"github.com/jobboard/jobboard-api/internal/core/domain"
)

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	Name     string
	Lastname string
	Email    string
	Password string
	Role     string
	CityID   string
	Phone    string
	Address  string
}

// Profile is the caller's own account view.
type Profile struct {
	User      *domain.User
	HasCV     bool
	CompanyID string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Me(ctx context.Context, caller domain.Caller) (*Profile, error)
}

// ApplicationService is the application lifecycle manager.
type ApplicationService interface {
	Apply(ctx context.Context, caller domain.Caller, postID string) (*domain.Application, error)
	Withdraw(ctx context.Context, caller domain.Caller, applicationID string) error
	Accept(ctx context.Context, caller domain.Caller, applicationID string) (*domain.Application, error)
	Reject(ctx context.Context, caller domain.Caller, applicationID string) (*domain.Application, error)
	ListMine(ctx context.Context, caller domain.Caller) ([]*domain.Application, error)
	ListForPost(ctx context.Context, caller domain.Caller, postID string) ([]*domain.Application, error)
}

// CVService is the CV registry.
type CVService interface {
	Upload(ctx context.Context, caller domain.Caller, file domain.Upload) (*domain.CV, error)
	Replace(ctx context.Context, caller domain.Caller, file domain.Upload) (*domain.CV, error)
	Delete(ctx context.Context, caller domain.Caller, cvID string) error
	Get(ctx context.Context, caller domain.Caller) (*domain.CV, error)
	Open(ctx context.Context, caller domain.Caller, cvID string) (*domain.CV, io.ReadCloser, error)
	HasCV(ctx context.Context, userID string) (bool, error)
}

// CreatePostInput carries the fields of a new post.
type CreatePostInput struct {
	CategoryID     string
	LocationID     string
	Title          string
	Description    string
	Type           string
	Salary         string
	NrWorkers      int
	ExpirationDate time.Time
}

// ListPostsInput carries the parameters of the public post listing.
type ListPostsInput struct {
	CategoryID string
	LocationID string
	Search     string
	Page       int
	Limit      int
}

// ListPostsResult is one page of posts.
type ListPostsResult struct {
	Items      []*domain.Post
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type PostService interface {
	Create(ctx context.Context, caller domain.Caller, input CreatePostInput) (*domain.Post, error)
	Get(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context, input ListPostsInput) (*ListPostsResult, error)
	ListMine(ctx context.Context, caller domain.Caller) ([]*domain.Post, error)
	Delete(ctx context.Context, caller domain.Caller, id string) error
}

// CompanyInput carries the editable company profile fields.
type CompanyInput struct {
	Name        string
	Description string
	Phone       string
	Address     string
	Website     string
	Email       string
}

type CompanyService interface {
	Create(ctx context.Context, caller domain.Caller, input CompanyInput, image domain.Upload) (*domain.Company, error)
	Update(ctx context.Context, caller domain.Caller, id string, input CompanyInput) (*domain.Company, error)
	UpdateImage(ctx context.Context, caller domain.Caller, id string, image domain.Upload) (*domain.Company, error)
	Delete(ctx context.Context, caller domain.Caller, id string) error
}

type SavedPostService interface {
	Save(ctx context.Context, caller domain.Caller, postID string) error
	Unsave(ctx context.Context, caller domain.Caller, postID string) error
	List(ctx context.Context, caller domain.Caller) ([]*domain.SavedPost, error)
}

type ReferenceService interface {
	ListCities(ctx context.Context) ([]*domain.City, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	CreateCity(ctx context.Context, name string, coords domain.Coordinates) (*domain.City, error)
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
}

// AdminService is the admin reporting surface. Its deletions skip ownership checks.
type AdminService interface {
	Stats(ctx context.Context) (*Stats, error)
	DeleteUser(ctx context.Context, id string) error
	DeletePost(ctx context.Context, id string) error
}
