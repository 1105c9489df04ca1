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

// CompanyService manages employer company profiles and their images.
type CompanyService struct {
	repo  ports.CompanyRepository
	files ports.FileStore
	log   zerolog.Logger
}

func NewCompanyService(repo ports.CompanyRepository, files ports.FileStore, log zerolog.Logger) *CompanyService {
	return &CompanyService{repo: repo, files: files, log: log}
}

// Create registers the caller's company. The image is stored before the
// record so a failed write leaves nothing behind.
func (s *CompanyService) Create(ctx context.Context, caller domain.Caller, in ports.CompanyInput, image domain.Upload) (*domain.Company, error) {
	if !caller.IsEmployer() {
		return nil, domain.ErrWrongRole
	}
	if err := requireFields(map[string]string{
		"name":        in.Name,
		"description": in.Description,
		"phone":       in.Phone,
		"address":     in.Address,
		"website":     in.Website,
		"email":       in.Email,
	}, "name", "description", "phone", "address", "website", "email"); err != nil {
		return nil, err
	}
	if _, err := validateUpload("image", domain.ImagePolicy, image); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByUserID(ctx, caller.UserID); err == nil {
		return nil, domain.ErrCompanyExists
	} else if !errors.Is(err, domain.ErrCompanyNotFound) {
		return nil, fmt.Errorf("create company: %w", err)
	}

	path, err := s.files.Put(ctx, domain.ImagePolicy.Dir, storedName(image.Name), image.Data)
	if err != nil {
		return nil, domain.StorageError("store company image", err)
	}

	now := time.Now().UTC()
	company := &domain.Company{
		ID:          uuid.NewString(),
		UserID:      caller.UserID,
		Name:        in.Name,
		Image:       path,
		Description: in.Description,
		Phone:       in.Phone,
		Address:     in.Address,
		Website:     in.Website,
		Email:       in.Email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, company); err != nil {
		discardFile(ctx, s.files, s.log, path)
		return nil, fmt.Errorf("create company: %w", err)
	}

	s.log.Info().Str("company_id", company.ID).Str("user_id", caller.UserID).Msg("company created")
	return company, nil
}

// Update edits the caller's company. Name and phone keep their current value
// when left empty.
func (s *CompanyService) Update(ctx context.Context, caller domain.Caller, id string, in ports.CompanyInput) (*domain.Company, error) {
	company, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := requireFields(map[string]string{
		"description": in.Description,
		"address":     in.Address,
		"website":     in.Website,
		"email":       in.Email,
	}, "description", "address", "website", "email"); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Name) != "" {
		company.Name = in.Name
	}
	if strings.TrimSpace(in.Phone) != "" {
		company.Phone = in.Phone
	}
	company.Description = in.Description
	company.Address = in.Address
	company.Website = in.Website
	company.Email = in.Email
	company.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}
	return company, nil
}

// UpdateImage stores a new image, points the company at it and removes the old one.
func (s *CompanyService) UpdateImage(ctx context.Context, caller domain.Caller, id string, image domain.Upload) (*domain.Company, error) {
	company, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if _, err := validateUpload("image", domain.ImagePolicy, image); err != nil {
		return nil, err
	}

	path, err := s.files.Put(ctx, domain.ImagePolicy.Dir, storedName(image.Name), image.Data)
	if err != nil {
		return nil, domain.StorageError("store company image", err)
	}
	if err := s.repo.UpdateImage(ctx, id, path); err != nil {
		discardFile(ctx, s.files, s.log, path)
		return nil, fmt.Errorf("update company image: %w", err)
	}
	discardFile(ctx, s.files, s.log, company.Image)

	company.Image = path
	return company, nil
}

// Delete removes the caller's company and its image.
func (s *CompanyService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	company, err := s.owned(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	discardFile(ctx, s.files, s.log, company.Image)
	return nil
}

func (s *CompanyService) owned(ctx context.Context, caller domain.Caller, id string) (*domain.Company, error) {
	company, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find company: %w", err)
	}
	if !caller.Owns(company.UserID) {
		return nil, domain.ErrNotOwner
	}
	return company, nil
}

// requireFields checks the named fields in order and reports the first empty one.
func requireFields(values map[string]string, order ...string) error {
	for _, name := range order {
		if strings.TrimSpace(values[name]) == "" {
			return domain.NewValidationError(name, domain.ReasonRequired)
		}
	}
	return nil
}
