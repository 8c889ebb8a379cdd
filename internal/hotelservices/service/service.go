package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	serviceserrors "hotelier/internal/hotelservices/errors"
	"hotelier/internal/hotelservices/repository"
	"hotelier/internal/hotelservices/validator"
	"hotelier/pkg/config"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/model"
	"hotelier/pkg/sanitizer"
	"hotelier/pkg/validation"
)

// CatalogService manages the services the hotel sells to guests.
type CatalogService interface {
	Create(ctx context.Context, svc *model.Service) error
	GetByID(ctx context.Context, id string) (*model.Service, error)
	GetAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Service, int64, error)
	Update(ctx context.Context, id string, updates *model.ServiceUpdate) (*model.Service, error)
	Delete(ctx context.Context, id string) error
}

type catalogService struct {
	repo      repository.ServiceRepository
	validator *validator.ServiceValidator
	cfg       *config.Config
}

func NewCatalogService(repo repository.ServiceRepository, validator *validator.ServiceValidator, cfg *config.Config) CatalogService {
	return &catalogService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *catalogService) Create(ctx context.Context, svc *model.Service) error {
	svc.ID = ""
	s.sanitize(svc)

	if err := s.validate(svc); err != nil {
		return err
	}

	existing, err := s.repo.FindByName(ctx, svc.Name)
	if err != nil {
		return apperrors.Internal("Failed to check service name", err)
	}
	if existing != nil {
		return apperrors.Conflict(fmt.Sprintf("Service %q already exists", svc.Name))
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		if repository.IsDuplicateKey(err) {
			return apperrors.Conflict(fmt.Sprintf("Service %q already exists", svc.Name))
		}
		s.cfg.Log.Error("Failed to create service", "name", svc.Name, "error", err)
		return apperrors.Internal("Failed to create service", err)
	}

	s.cfg.Log.Info("Service created", "service_id", svc.ID, "name", svc.Name)
	return nil
}

func (s *catalogService) GetByID(ctx context.Context, id string) (*model.Service, error) {
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(id, err, "Failed to get service")
	}
	return svc, nil
}

func (s *catalogService) GetAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Service, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		services        []*model.Service
		count           int64
		findErr, cntErr error
		wg              sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		count, cntErr = s.repo.Count(ctx, activeOnly)
	}()
	go func() {
		defer wg.Done()
		services, findErr = s.repo.FindAll(ctx, activeOnly, limit, offset)
	}()
	wg.Wait()

	if cntErr != nil {
		s.cfg.Log.Error("Failed to count services", "error", cntErr)
		return nil, 0, apperrors.Internal("Failed to count services", cntErr)
	}
	if findErr != nil {
		s.cfg.Log.Error("Failed to list services", "error", findErr)
		return nil, 0, apperrors.Internal("Failed to list services", findErr)
	}

	return services, count, nil
}

func (s *catalogService) Update(ctx context.Context, id string, updates *model.ServiceUpdate) (*model.Service, error) {
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, s.validationError(id, err)
	}

	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(id, err, "Failed to get service")
	}

	applyUpdate(svc, updates)
	s.sanitize(svc)

	if err := s.validate(svc); err != nil {
		return nil, err
	}

	if updates.Name != nil {
		existing, err := s.repo.FindByName(ctx, svc.Name)
		if err != nil {
			return nil, apperrors.Internal("Failed to check service name", err)
		}
		if existing != nil && existing.ID != id {
			return nil, apperrors.Conflict(fmt.Sprintf("Service %q already exists", svc.Name))
		}
	}

	if err := s.repo.Update(ctx, id, svc); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperrors.Conflict(fmt.Sprintf("Service %q already exists", svc.Name))
		}
		return nil, s.mapError(id, err, "Failed to update service")
	}

	s.cfg.Log.Info("Service updated", "service_id", id)
	return svc, nil
}

// Delete removes the catalog entry. Past sales keep their own copy of the
// price and tax, so they are unaffected.
func (s *catalogService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapError(id, err, "Failed to delete service")
	}

	s.cfg.Log.Info("Service deleted", "service_id", id)
	return nil
}

func (s *catalogService) validate(svc *model.Service) error {
	if err := s.validator.Validate(svc); err != nil {
		return s.validationError(svc.ID, err)
	}
	return nil
}

func (s *catalogService) validationError(id string, err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		s.cfg.Log.Warn("Service validation failed", "service_id", id, "error", err)
		return apperrors.Validation("Service validation failed", verrs.Details())
	}
	return apperrors.Internal("Failed to validate service", err)
}

func (s *catalogService) mapError(id string, err error, message string) error {
	switch {
	case errors.Is(err, serviceserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Service", id)
	case errors.Is(err, serviceserrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("Invalid service ID: %s", id))
	default:
		s.cfg.Log.Error(message, "service_id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}

func (s *catalogService) sanitize(svc *model.Service) {
	svc.Name = sanitizer.TrimAndNormalize(svc.Name)
	svc.Description = sanitizer.NormalizeText(svc.Description)
}

func applyUpdate(svc *model.Service, u *model.ServiceUpdate) {
	if u.Name != nil {
		svc.Name = *u.Name
	}
	if u.Description != nil {
		svc.Description = *u.Description
	}
	if u.Price != nil {
		svc.Price = *u.Price
	}
	if u.TaxPercent != nil {
		svc.TaxPercent = *u.TaxPercent
	}
	if u.IsActive != nil {
		svc.IsActive = *u.IsActive
	}
}
