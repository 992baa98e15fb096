package practitioner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/clinigo/agenda-api/internal/model"
	"github.com/clinigo/agenda-api/internal/repository"
)

const activeListCacheKey = "practitioners:active"

// Service manages practitioners. The active list backs the agenda's
// per-practitioner grids and is read on every day view, so it is cached
// briefly and invalidated on writes.
type Service struct {
	repo  repository.PractitionerRepository
	cache *cache.Cache
}

func NewService(repo repository.PractitionerRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(time.Minute, 5*time.Minute),
	}
}

func (s *Service) CreatePractitioner(ctx context.Context, req *model.CreatePractitionerRequest) (*model.Practitioner, error) {
	p := &model.Practitioner{
		Name:      req.Name,
		Specialty: req.Specialty,
		Email:     req.Email,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create practitioner: %w", err)
	}
	s.cache.Delete(activeListCacheKey)
	return p, nil
}

func (s *Service) GetPractitioner(ctx context.Context, id uuid.UUID) (*model.Practitioner, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get practitioner: %w", err)
	}
	return p, nil
}

func (s *Service) UpdatePractitioner(ctx context.Context, id uuid.UUID, req *model.UpdatePractitionerRequest) (*model.Practitioner, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get practitioner: %w", err)
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Specialty != nil {
		p.Specialty = *req.Specialty
	}
	if req.Email != nil {
		p.Email = *req.Email
	}
	if req.Active != nil {
		p.Active = *req.Active
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update practitioner: %w", err)
	}
	s.cache.Delete(activeListCacheKey)
	return p, nil
}

func (s *Service) ListActivePractitioners(ctx context.Context) ([]*model.Practitioner, error) {
	if cached, ok := s.cache.Get(activeListCacheKey); ok {
		return cached.([]*model.Practitioner), nil
	}

	practitioners, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list practitioners: %w", err)
	}
	s.cache.Set(activeListCacheKey, practitioners, cache.DefaultExpiration)
	return practitioners, nil
}
