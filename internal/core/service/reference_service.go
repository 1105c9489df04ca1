package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// ReferenceService serves the city and category lookups posts point at.
type ReferenceService struct {
	repo ports.ReferenceRepository
}

func NewReferenceService(repo ports.ReferenceRepository) *ReferenceService {
	return &ReferenceService{repo: repo}
}

func (s *ReferenceService) ListCities(ctx context.Context) ([]*domain.City, error) {
	cities, err := s.repo.ListCities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return cities, nil
}

func (s *ReferenceService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *ReferenceService) CreateCity(ctx context.Context, name string, coords domain.Coordinates) (*domain.City, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", domain.ReasonRequired)
	}
	if coords.Lat < -90 || coords.Lat > 90 {
		return nil, domain.NewValidationError("latitude", domain.ReasonOutOfRange)
	}
	if coords.Lng < -180 || coords.Lng > 180 {
		return nil, domain.NewValidationError("longitude", domain.ReasonOutOfRange)
	}

	city := &domain.City{ID: uuid.NewString(), Name: name, Coordinates: coords}
	if err := s.repo.CreateCity(ctx, city); err != nil {
		return nil, fmt.Errorf("create city: %w", err)
	}
	return city, nil
}

func (s *ReferenceService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", domain.ReasonRequired)
	}

	category := &domain.Category{ID: uuid.NewString(), Name: name}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}
