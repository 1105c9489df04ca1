package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// CVService keeps at most one CV per user and owns the stored files behind them.
type CVService struct {
	repo  ports.CVRepository
	apps  ports.ApplicationRepository
	files ports.FileStore
	log   zerolog.Logger
}

func NewCVService(repo ports.CVRepository, apps ports.ApplicationRepository, files ports.FileStore, log zerolog.Logger) *CVService {
	return &CVService{repo: repo, apps: apps, files: files, log: log}
}

// Upload stores the caller's first CV. When a CV already exists the upload
// replaces it.
func (s *CVService) Upload(ctx context.Context, caller domain.Caller, file domain.Upload) (*domain.CV, error) {
	mime, err := validateUpload("file", domain.CVPolicy, file)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByUserID(ctx, caller.UserID)
	switch {
	case err == nil:
		return s.replace(ctx, existing, file, mime)
	case !errors.Is(err, domain.ErrCVNotFound):
		return nil, fmt.Errorf("upload cv: %w", err)
	}

	path, err := s.files.Put(ctx, domain.CVPolicy.Dir, storedName(file.Name), file.Data)
	if err != nil {
		return nil, domain.StorageError("store cv", err)
	}

	cv := &domain.CV{
		ID:         uuid.NewString(),
		UserID:     caller.UserID,
		File:       path,
		FileName:   file.Name,
		MimeType:   mime,
		Size:       int64(len(file.Data)),
		UploadedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, cv); err != nil {
		discardFile(ctx, s.files, s.log, path)
		return nil, fmt.Errorf("upload cv: %w", err)
	}

	s.log.Info().Str("cv_id", cv.ID).Str("user_id", caller.UserID).Msg("cv uploaded")
	return cv, nil
}

// Replace swaps the file of the caller's existing CV. Nothing is written when
// the caller has no CV yet.
func (s *CVService) Replace(ctx context.Context, caller domain.Caller, file domain.Upload) (*domain.CV, error) {
	existing, err := s.repo.FindByUserID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrCVNotFound) {
			return nil, domain.ErrNoExistingCV
		}
		return nil, fmt.Errorf("replace cv: %w", err)
	}

	mime, err := validateUpload("file", domain.CVPolicy, file)
	if err != nil {
		return nil, err
	}
	return s.replace(ctx, existing, file, mime)
}

func (s *CVService) replace(ctx context.Context, existing *domain.CV, file domain.Upload, mime string) (*domain.CV, error) {
	path, err := s.files.Put(ctx, domain.CVPolicy.Dir, storedName(file.Name), file.Data)
	if err != nil {
		return nil, domain.StorageError("store cv", err)
	}

	updated := *existing
	updated.File = path
	updated.FileName = file.Name
	updated.MimeType = mime
	updated.Size = int64(len(file.Data))
	updated.UploadedAt = time.Now().UTC()

	if err := s.repo.UpdateFile(ctx, &updated); err != nil {
		discardFile(ctx, s.files, s.log, path)
		return nil, fmt.Errorf("replace cv: %w", err)
	}
	discardFile(ctx, s.files, s.log, existing.File)

	s.log.Info().Str("cv_id", updated.ID).Str("user_id", updated.UserID).Msg("cv replaced")
	return &updated, nil
}

// Delete removes a CV owned by the caller together with its file.
func (s *CVService) Delete(ctx context.Context, caller domain.Caller, cvID string) error {
	cv, err := s.repo.FindByID(ctx, cvID)
	if err != nil {
		return fmt.Errorf("delete cv: %w", err)
	}
	if !caller.Owns(cv.UserID) {
		return domain.ErrNotOwner
	}
	if err := s.repo.Delete(ctx, cvID); err != nil {
		return fmt.Errorf("delete cv: %w", err)
	}
	discardFile(ctx, s.files, s.log, cv.File)
	return nil
}

// Get returns the caller's CV.
func (s *CVService) Get(ctx context.Context, caller domain.Caller) (*domain.CV, error) {
	cv, err := s.repo.FindByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("get cv: %w", err)
	}
	return cv, nil
}

// Open streams a CV file. The owner and admins may read it, and so may an
// employer who received an application from the CV's owner.
func (s *CVService) Open(ctx context.Context, caller domain.Caller, cvID string) (*domain.CV, io.ReadCloser, error) {
	cv, err := s.repo.FindByID(ctx, cvID)
	if err != nil {
		return nil, nil, fmt.Errorf("open cv: %w", err)
	}

	allowed := caller.Owns(cv.UserID) || caller.IsAdmin()
	if !allowed && caller.IsEmployer() {
		if allowed, err = s.apps.ExistsForEmployer(ctx, cv.UserID, caller.UserID); err != nil {
			return nil, nil, fmt.Errorf("open cv: %w", err)
		}
	}
	if !allowed {
		return nil, nil, domain.ErrNotOwner
	}

	rc, err := s.files.Open(ctx, cv.File)
	if err != nil {
		if errors.Is(err, domain.ErrFileNotFound) {
			return nil, nil, err
		}
		return nil, nil, domain.StorageError("open cv", err)
	}
	return cv, rc, nil
}

// HasCV reports whether the user has a CV on file.
func (s *CVService) HasCV(ctx context.Context, userID string) (bool, error) {
	_, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrCVNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("check cv: %w", err)
}
