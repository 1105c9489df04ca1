package ports

import (
	"context"

	"github.com/jobboard/jobboard-api/internal/core/domain"
)

// Stats is the aggregate view shown on the admin dashboard.
type Stats struct {
	Employees    int64 `json:"employees"`
	Employers    int64 `json:"employers"`
	Posts        int64 `json:"posts"`
	Applications int64 `json:"applications"`
	Accepted     int64 `json:"accepted"`
	Rejected     int64 `json:"rejected"`
}

// CascadeResult lists the stored files whose records were removed by a
// cascading delete. The caller removes them from the file store.
type CascadeResult struct {
	Files []string
}

// AdminRepository exposes aggregate counts and the storage cascade policy.
type AdminRepository interface {
	CountUsersByRole(ctx context.Context, role string) (int64, error)
	CountPosts(ctx context.Context) (int64, error)
	// CountApplications counts all applications when status is empty.
	CountApplications(ctx context.Context, status domain.ApplicationStatus) (int64, error)

	// DeleteUser removes the user with its applications (returning their
	// slots), posts, company, cv and bookmarks.
	DeleteUser(ctx context.Context, id string) (*CascadeResult, error)
	// DeletePost removes the post with its applications and bookmarks.
	DeletePost(ctx context.Context, id string) error
}

// StatsCache caches the admin dashboard counts.
type StatsCache interface {
	Get(ctx context.Context) (*Stats, bool, error)
	Set(ctx context.Context, stats *Stats) error
	Invalidate(ctx context.Context) error
}
