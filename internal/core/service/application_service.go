package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
	"github.com/jobboard/jobboard-api/internal/pkg/metrics"
)

// CVChecker answers whether a user has a CV on file. Only existence matters.
type CVChecker interface {
	HasCV(ctx context.Context, userID string) (bool, error)
}

// ApplicationService manages the application lifecycle and its effect on post capacity.
type ApplicationService struct {
	apps     ports.ApplicationRepository
	posts    ports.PostRepository
	capacity *CapacityTracker
	cvs      CVChecker
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewApplicationService(
	apps ports.ApplicationRepository,
	posts ports.PostRepository,
	capacity *CapacityTracker,
	cvs CVChecker,
	notifier ports.Notifier,
	log zerolog.Logger,
) *ApplicationService {
	return &ApplicationService{
		apps:     apps,
		posts:    posts,
		capacity: capacity,
		cvs:      cvs,
		notifier: notifier,
		log:      log,
	}
}

// Apply creates a pending application for the caller and takes one slot on the post.
func (s *ApplicationService) Apply(ctx context.Context, caller domain.Caller, postID string) (*domain.Application, error) {
	// 1. Eligibility, in the order users are told about it.
	if caller.IsEmployer() {
		return nil, domain.ErrWrongRole
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("apply: %w", err)
	}
	if !post.HasFreeSlot() {
		metrics.CapacityConflictsTotal.Inc()
		return nil, domain.ErrNoCapacity
	}

	exists, err := s.apps.Exists(ctx, caller.UserID, postID)
	if err != nil {
		return nil, fmt.Errorf("apply: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateApplication
	}

	hasCV, err := s.cvs.HasCV(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("apply: %w", err)
	}
	if !hasCV {
		return nil, domain.ErrMissingCV
	}

	// 2. Take the slot. The conditional decrement re-checks capacity, so two
	// applicants racing for the last slot cannot both pass.
	if err := s.capacity.ReserveSlot(ctx, postID); err != nil {
		if errors.Is(err, domain.ErrNoCapacity) {
			metrics.CapacityConflictsTotal.Inc()
		}
		return nil, fmt.Errorf("apply: %w", err)
	}

	// 3. Persist. On any failure the slot goes back.
	now := time.Now().UTC()
	app := &domain.Application{
		ID:        uuid.NewString(),
		UserID:    caller.UserID,
		PostID:    postID,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		if relErr := s.capacity.ReleaseSlot(context.WithoutCancel(ctx), postID); relErr != nil {
			s.log.Error().Err(relErr).Str("post_id", postID).Msg("failed to return slot after aborted apply")
		}
		return nil, fmt.Errorf("apply: %w", err)
	}
	metrics.ApplicationsCreatedTotal.Inc()

	// 4. Notify only once the application is stored.
	payload := applicationPayload(app, post)
	s.notifier.Enqueue(domain.Notification{
		Template:  domain.TemplateNewApplication,
		Recipient: post.UserID,
		Payload:   payload,
	})
	s.notifier.Enqueue(domain.Notification{
		Template:  domain.TemplateApplicationReceived,
		Recipient: caller.UserID,
		Payload:   payload,
	})

	s.log.Info().
		Str("application_id", app.ID).
		Str("post_id", postID).
		Str("user_id", caller.UserID).
		Msg("application created")

	return app, nil
}

// Withdraw deletes the caller's own application and returns its slot.
func (s *ApplicationService) Withdraw(ctx context.Context, caller domain.Caller, applicationID string) error {
	app, err := s.apps.FindByID(ctx, applicationID)
	if err != nil {
		return fmt.Errorf("withdraw: %w", err)
	}
	if !caller.Owns(app.UserID) {
		return domain.ErrNotOwner
	}

	removed, err := s.apps.DeleteOwned(ctx, applicationID, caller.UserID)
	if err != nil {
		return fmt.Errorf("withdraw: %w", err)
	}
	if !removed {
		// Lost a race with another withdraw; that call returned the slot.
		return domain.ErrApplicationNotFound
	}
	metrics.ApplicationsWithdrawnTotal.Inc()

	if err := s.capacity.ReleaseSlot(context.WithoutCancel(ctx), app.PostID); err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			s.log.Debug().Str("post_id", app.PostID).Msg("post gone before slot release")
			return nil
		}
		return fmt.Errorf("withdraw: %w", err)
	}

	s.log.Info().
		Str("application_id", applicationID).
		Str("post_id", app.PostID).
		Msg("application withdrawn")
	return nil
}

// Accept moves the application to accepted when it is pending or rejected.
// The applicant is notified on every call, including repeats that leave the
// status untouched.
func (s *ApplicationService) Accept(ctx context.Context, caller domain.Caller, applicationID string) (*domain.Application, error) {
	return s.review(ctx, caller, applicationID, domain.StatusAccepted, domain.TemplateApplicationAccepted)
}

// Reject moves the application to rejected when it is pending or accepted.
// Like Accept, it notifies on every call.
func (s *ApplicationService) Reject(ctx context.Context, caller domain.Caller, applicationID string) (*domain.Application, error) {
	return s.review(ctx, caller, applicationID, domain.StatusRejected, domain.TemplateApplicationRejected)
}

func (s *ApplicationService) review(
	ctx context.Context,
	caller domain.Caller,
	applicationID string,
	next domain.ApplicationStatus,
	tmpl domain.NotificationTemplate,
) (*domain.Application, error) {
	app, err := s.apps.FindByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("review application: %w", err)
	}

	post, err := s.posts.FindByID(ctx, app.PostID)
	if err != nil {
		return nil, fmt.Errorf("review application: %w", err)
	}
	if !caller.IsAdmin() && !caller.Owns(post.UserID) {
		return nil, domain.ErrNotOwner
	}

	changed, err := s.apps.UpdateStatusFrom(ctx, applicationID, next, domain.TransitionSources(next))
	if err != nil {
		return nil, fmt.Errorf("review application: %w", err)
	}
	if changed {
		app.Status = next
		app.UpdatedAt = time.Now().UTC()
	} else if app, err = s.apps.FindByID(ctx, applicationID); err != nil {
		return nil, fmt.Errorf("review application: %w", err)
	}
	metrics.ApplicationReviewsTotal.WithLabelValues(string(next), strconv.FormatBool(changed)).Inc()

	s.notifier.Enqueue(domain.Notification{
		Template:  tmpl,
		Recipient: app.UserID,
		Payload:   applicationPayload(app, post),
	})

	s.log.Info().
		Str("application_id", applicationID).
		Str("status", string(app.Status)).
		Bool("changed", changed).
		Msg("application reviewed")

	return app, nil
}

// ListMine returns the caller's own applications.
func (s *ApplicationService) ListMine(ctx context.Context, caller domain.Caller) ([]*domain.Application, error) {
	apps, err := s.apps.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// ListForPost returns the applications of a post to its owner or an admin.
func (s *ApplicationService) ListForPost(ctx context.Context, caller domain.Caller, postID string) ([]*domain.Application, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	if !caller.IsAdmin() && !caller.Owns(post.UserID) {
		return nil, domain.ErrNotOwner
	}
	apps, err := s.apps.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

func applicationPayload(app *domain.Application, post *domain.Post) map[string]string {
	return map[string]string{
		"application_id": app.ID,
		"applicant_id":   app.UserID,
		"post_id":        post.ID,
		"post_title":     post.Title,
		"status":         string(app.Status),
	}
}
