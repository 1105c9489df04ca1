package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
	"github.com/jobboard/jobboard-api/internal/pkg/metrics"
)

const statsFlightKey = "stats"

// AdminService serves the dashboard counts and the unrestricted deletions.
type AdminService struct {
	repo  ports.AdminRepository
	cache ports.StatsCache
	files ports.FileStore
	group singleflight.Group
	log   zerolog.Logger
}

func NewAdminService(repo ports.AdminRepository, cache ports.StatsCache, files ports.FileStore, log zerolog.Logger) *AdminService {
	return &AdminService{repo: repo, cache: cache, files: files, log: log}
}

// Stats returns the dashboard counts, from cache when fresh. Cache failures
// fall through to the database.
func (s *AdminService) Stats(ctx context.Context) (*ports.Stats, error) {
	cached, ok, err := s.cache.Get(ctx)
	switch {
	case err != nil:
		metrics.StatsCacheTotal.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Msg("stats cache read failed")
	case ok:
		metrics.StatsCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		metrics.StatsCacheTotal.WithLabelValues("miss").Inc()
	}

	v, err, _ := s.group.Do(statsFlightKey, func() (any, error) {
		stats, err := s.count(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(context.WithoutCancel(ctx), stats); err != nil {
			s.log.Warn().Err(err).Msg("stats cache write failed")
		}
		return stats, nil
	})
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}

	stats := *v.(*ports.Stats)
	return &stats, nil
}

func (s *AdminService) count(ctx context.Context) (*ports.Stats, error) {
	var stats ports.Stats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.Employees, err = s.repo.CountUsersByRole(gctx, domain.RoleEmployee)
		return err
	})
	g.Go(func() (err error) {
		stats.Employers, err = s.repo.CountUsersByRole(gctx, domain.RoleEmployer)
		return err
	})
	g.Go(func() (err error) {
		stats.Posts, err = s.repo.CountPosts(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Applications, err = s.repo.CountApplications(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		stats.Accepted, err = s.repo.CountApplications(gctx, domain.StatusAccepted)
		return err
	})
	g.Go(func() (err error) {
		stats.Rejected, err = s.repo.CountApplications(gctx, domain.StatusRejected)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

// DeleteUser removes any user with everything they own, then their stored files.
func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	result, err := s.repo.DeleteUser(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.invalidate(ctx)

	for _, path := range result.Files {
		discardFile(ctx, s.files, s.log, path)
	}

	s.log.Info().Str("user_id", id).Int("files", len(result.Files)).Msg("user deleted by admin")
	return nil
}

// DeletePost removes any post with its applications and bookmarks.
func (s *AdminService) DeletePost(ctx context.Context, id string) error {
	if err := s.repo.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	s.invalidate(ctx)

	s.log.Info().Str("post_id", id).Msg("post deleted by admin")
	return nil
}

func (s *AdminService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn().Err(err).Msg("stats cache invalidation failed")
	}
}
