package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	guestserrors "hotelier/internal/guests/errors"
	"hotelier/internal/guests/repository"
	"hotelier/internal/guests/validator"
	"hotelier/pkg/config"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/model"
	"hotelier/pkg/sanitizer"
	"hotelier/pkg/validation"
)

const minSearchLength = 2

type GuestService interface {
	Create(ctx context.Context, guest *model.Guest) error
	GetByID(ctx context.Context, id string) (*model.Guest, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Guest, int64, error)
	Update(ctx context.Context, id string, updates *model.GuestUpdate) (*model.Guest, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]*model.Guest, error)
	FindOrCreateByPhone(ctx context.Context, guest *model.Guest) (*model.Guest, error)
}

// ActiveBookingChecker is satisfied by the bookings repository.
type ActiveBookingChecker interface {
	HasActiveBookingsForGuest(ctx context.Context, guestID string) (bool, error)
}

type guestService struct {
	repo      repository.GuestRepository
	bookings  ActiveBookingChecker
	validator *validator.GuestValidator
	cfg       *config.Config
}

func NewGuestService(
	repo repository.GuestRepository,
	bookings ActiveBookingChecker,
	validator *validator.GuestValidator,
	cfg *config.Config,
) GuestService {
	return &guestService{
		repo:      repo,
		bookings:  bookings,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *guestService) Create(ctx context.Context, guest *model.Guest) error {
	guest.ID = ""
	s.sanitize(guest)

	if err := s.validate(guest); err != nil {
		return err
	}

	existing, err := s.repo.FindByPhone(ctx, guest.Phone)
	if err != nil {
		s.cfg.Log.Error("Failed to check guest phone", "error", err)
		return apperrors.Internal("Failed to check guest phone", err)
	}
	if existing != nil {
		return apperrors.Conflict("A guest with this phone number already exists").
			WithDetails(map[string]any{"guest_id": existing.ID})
	}

	return s.insert(ctx, guest)
}

func (s *guestService) GetByID(ctx context.Context, id string) (*model.Guest, error) {
	guest, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(id, err, "Failed to get guest")
	}
	return guest, nil
}

func (s *guestService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Guest, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		guests          []*model.Guest
		count           int64
		findErr, cntErr error
		wg              sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		count, cntErr = s.repo.Count(ctx)
	}()
	go func() {
		defer wg.Done()
		guests, findErr = s.repo.FindAll(ctx, limit, offset)
	}()
	wg.Wait()

	if cntErr != nil {
		s.cfg.Log.Error("Failed to count guests", "error", cntErr)
		return nil, 0, apperrors.Internal("Failed to count guests", cntErr)
	}
	if findErr != nil {
		s.cfg.Log.Error("Failed to list guests", "limit", limit, "offset", offset, "error", findErr)
		return nil, 0, apperrors.Internal("Failed to list guests", findErr)
	}

	return guests, count, nil
}

func (s *guestService) Update(ctx context.Context, id string, updates *model.GuestUpdate) (*model.Guest, error) {
	sanitizer.Ptr(updates.Phone, sanitizer.NormalizePhone)
	sanitizer.Ptr(updates.Email, sanitizer.NormalizeEmail)

	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, s.validationError(id, err)
	}

	guest, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(id, err, "Failed to get guest")
	}

	phoneChanged := updates.Phone != nil && *updates.Phone != guest.Phone
	applyUpdate(guest, updates)
	s.sanitize(guest)

	if err := s.validate(guest); err != nil {
		return nil, err
	}

	if phoneChanged {
		existing, err := s.repo.FindByPhone(ctx, guest.Phone)
		if err != nil {
			return nil, apperrors.Internal("Failed to check guest phone", err)
		}
		if existing != nil && existing.ID != id {
			return nil, apperrors.Conflict("A guest with this phone number already exists")
		}
	}

	if err := s.repo.Update(ctx, id, guest); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperrors.Conflict("A guest with this phone number already exists")
		}
		return nil, s.mapError(id, err, "Failed to update guest")
	}

	s.cfg.Log.Info("Guest updated", "guest_id", id)
	return guest, nil
}

// Delete refuses while the guest holds an active booking, and also when
// that cannot be determined.
func (s *guestService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return s.mapError(id, err, "Failed to get guest")
	}

	active, err := s.bookings.HasActiveBookingsForGuest(ctx, id)
	if err != nil {
		s.cfg.Log.Error("Failed to check guest bookings", "guest_id", id, "error", err)
		return apperrors.Internal("Failed to check guest bookings", err)
	}
	if active {
		return apperrors.Conflict("Guest has active bookings and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapError(id, err, "Failed to delete guest")
	}

	s.cfg.Log.Info("Guest deleted", "guest_id", id)
	return nil
}

func (s *guestService) Search(ctx context.Context, query string) ([]*model.Guest, error) {
	query = sanitizer.TrimAndNormalize(query)
	if len([]rune(query)) < minSearchLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("search query must be at least %d characters", minSearchLength))
	}

	// A phone typed in local format should still match the stored E.164 value.
	if phone := sanitizer.NormalizePhone(query); strings.HasPrefix(phone, "+") {
		query = phone
	}

	guests, err := s.repo.Search(ctx, query)
	if err != nil {
		s.cfg.Log.Error("Failed to search guests", "error", err)
		return nil, apperrors.Internal("Failed to search guests", err)
	}
	return guests, nil
}

// FindOrCreateByPhone returns the guest already registered with guest's
// phone number, creating guest when there is none.
func (s *guestService) FindOrCreateByPhone(ctx context.Context, guest *model.Guest) (*model.Guest, error) {
	guest.ID = ""
	s.sanitize(guest)

	if err := s.validate(guest); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByPhone(ctx, guest.Phone)
	if err != nil {
		s.cfg.Log.Error("Failed to look up guest by phone", "error", err)
		return nil, apperrors.Internal("Failed to look up guest", err)
	}
	if existing != nil {
		return existing, nil
	}

	if err := s.insert(ctx, guest); err != nil {
		return nil, err
	}
	return guest, nil
}

func (s *guestService) insert(ctx context.Context, guest *model.Guest) error {
	guest.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, guest); err != nil {
		if repository.IsDuplicateKey(err) {
			return apperrors.Conflict("A guest with this phone number already exists")
		}
		s.cfg.Log.Error("Failed to create guest", "error", err)
		return apperrors.Internal("Failed to create guest", err)
	}

	s.cfg.Log.Info("Guest created", "guest_id", guest.ID)
	return nil
}

func (s *guestService) validate(guest *model.Guest) error {
	if err := s.validator.Validate(guest); err != nil {
		return s.validationError(guest.ID, err)
	}
	return nil
}

func (s *guestService) validationError(id string, err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		s.cfg.Log.Warn("Guest validation failed", "guest_id", id, "error", err)
		return apperrors.Validation("Guest validation failed", verrs.Details())
	}
	return apperrors.Internal("Failed to validate guest", err)
}

func (s *guestService) mapError(id string, err error, message string) error {
	switch {
	case errors.Is(err, guestserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Guest", id)
	case errors.Is(err, guestserrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("Invalid guest ID: %s", id))
	default:
		s.cfg.Log.Error(message, "guest_id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}

func (s *guestService) sanitize(guest *model.Guest) {
	guest.FirstName = sanitizer.NormalizeName(guest.FirstName)
	guest.LastName = sanitizer.NormalizeName(guest.LastName)
	guest.Phone = sanitizer.NormalizePhone(guest.Phone)
	guest.Email = sanitizer.NormalizeEmail(guest.Email)
	guest.DocumentNumber = sanitizer.NormalizeCode(guest.DocumentNumber)
}

func applyUpdate(guest *model.Guest, u *model.GuestUpdate) {
	if u.FirstName != nil {
		guest.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		guest.LastName = *u.LastName
	}
	if u.Phone != nil {
		guest.Phone = *u.Phone
	}
	if u.Email != nil {
		guest.Email = *u.Email
	}
	if u.DocumentNumber != nil {
		guest.DocumentNumber = *u.DocumentNumber
	}
	if u.DateOfBirth != nil {
		guest.DateOfBirth = u.DateOfBirth
	}
}
