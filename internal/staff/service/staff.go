package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	stafferrors "hotelier/internal/staff/errors"
	"hotelier/internal/staff/repository"
	"hotelier/internal/staff/validator"
	"hotelier/pkg/config"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/model"
	"hotelier/pkg/sanitizer"
	"hotelier/pkg/validation"
)

type StaffService interface {
	Create(ctx context.Context, member *model.Staff) error
	GetByID(ctx context.Context, id string) (*model.Staff, error)
	GetAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Staff, int64, error)
	Update(ctx context.Context, id string, updates *model.StaffUpdate) (*model.Staff, error)
	Delete(ctx context.Context, id string) error
}

type staffService struct {
	repo      repository.StaffRepository
	validator *validator.StaffValidator
	cfg       *config.Config
}

func NewStaffService(repo repository.StaffRepository, validator *validator.StaffValidator, cfg *config.Config) StaffService {
	return &staffService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *staffService) Create(ctx context.Context, member *model.Staff) error {
	member.ID = ""
	s.sanitize(member)

	if err := s.validate(member); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, member); err != nil {
		s.cfg.Log.Error("Failed to create staff member", "error", err)
		return apperrors.Internal("Failed to create staff member", err)
	}

	s.cfg.Log.Info("Staff member created", "staff_id", member.ID, "position", member.Position)
	return nil
}

func (s *staffService) GetByID(ctx context.Context, id string) (*model.Staff, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(id, err, "Failed to get staff member")
	}
	return member, nil
}

func (s *staffService) GetAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Staff, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		members         []*model.Staff
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
		members, findErr = s.repo.FindAll(ctx, activeOnly, limit, offset)
	}()
	wg.Wait()

	if cntErr != nil {
		s.cfg.Log.Error("Failed to count staff", "error", cntErr)
		return nil, 0, apperrors.Internal("Failed to count staff", cntErr)
	}
	if findErr != nil {
		s.cfg.Log.Error("Failed to list staff", "error", findErr)
		return nil, 0, apperrors.Internal("Failed to list staff", findErr)
	}

	return members, count, nil
}

func (s *staffService) Update(ctx context.Context, id string, updates *model.StaffUpdate) (*model.Staff, error) {
	sanitizer.Ptr(updates.Phone, sanitizer.NormalizePhone)
	sanitizer.Ptr(updates.Email, sanitizer.NormalizeEmail)

	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, s.validationError(id, err)
	}

	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(id, err, "Failed to get staff member")
	}

	applyUpdate(member, updates)
	s.sanitize(member)

	if err := s.validate(member); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, member); err != nil {
		return nil, s.mapError(id, err, "Failed to update staff member")
	}

	s.cfg.Log.Info("Staff member updated", "staff_id", id)
	return member, nil
}

func (s *staffService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapError(id, err, "Failed to delete staff member")
	}

	s.cfg.Log.Info("Staff member deleted", "staff_id", id)
	return nil
}

func (s *staffService) validate(member *model.Staff) error {
	if err := s.validator.Validate(member); err != nil {
		return s.validationError(member.ID, err)
	}
	return nil
}

func (s *staffService) validationError(id string, err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		s.cfg.Log.Warn("Staff validation failed", "staff_id", id, "error", err)
		return apperrors.Validation("Staff validation failed", verrs.Details())
	}
	return apperrors.Internal("Failed to validate staff member", err)
}

func (s *staffService) mapError(id string, err error, message string) error {
	switch {
	case errors.Is(err, stafferrors.ErrNotFound):
		return apperrors.NotFoundWithID("Staff", id)
	case errors.Is(err, stafferrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("Invalid staff ID: %s", id))
	default:
		s.cfg.Log.Error(message, "staff_id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}

func (s *staffService) sanitize(member *model.Staff) {
	member.FirstName = sanitizer.NormalizeName(member.FirstName)
	member.LastName = sanitizer.NormalizeName(member.LastName)
	member.Position = sanitizer.NormalizeName(member.Position)
	member.Phone = sanitizer.NormalizePhone(member.Phone)
	member.Email = sanitizer.NormalizeEmail(member.Email)
}

func applyUpdate(member *model.Staff, u *model.StaffUpdate) {
	if u.FirstName != nil {
		member.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		member.LastName = *u.LastName
	}
	if u.Position != nil {
		member.Position = *u.Position
	}
	if u.Phone != nil {
		member.Phone = *u.Phone
	}
	if u.Email != nil {
		member.Email = *u.Email
	}
	if u.HireDate != nil {
		member.HireDate = *u.HireDate
	}
	if u.Salary != nil {
		member.Salary = *u.Salary
	}
	if u.IsActive != nil {
		member.IsActive = *u.IsActive
	}
}
