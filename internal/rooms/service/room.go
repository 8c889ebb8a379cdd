package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"hotelier/internal/availability"
	roomserrors "hotelier/internal/rooms/errors"
	"hotelier/internal/rooms/repository"
	"hotelier/internal/rooms/validator"
	"hotelier/pkg/config"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/model"
	"hotelier/pkg/sanitizer"
	"hotelier/pkg/validation"
)

type RoomService interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetAll(ctx context.Context, filter model.RoomFilter, limit int, offset int64) ([]*model.Room, int64, error)
	Update(ctx context.Context, id string, updates *model.RoomUpdate) (*model.Room, error)
	Delete(ctx context.Context, id string) error
	Available(ctx context.Context, checkIn, checkOut time.Time, filter model.RoomFilter) ([]*model.Room, error)
}

// BookingLookup is the slice of the bookings store rooms depend on. The
// bookings repository satisfies it; it is injected to keep the packages
// acyclic.
type BookingLookup interface {
	HasActiveBookingsForRoom(ctx context.Context, roomID string) (bool, error)
	FindOverlapping(ctx context.Context, roomID string, start, end time.Time) ([]*model.Booking, error)
}

type roomService struct {
	repo      repository.RoomRepository
	bookings  BookingLookup
	validator *validator.RoomValidator
	cfg       *config.Config
}

func NewRoomService(
	repo repository.RoomRepository,
	bookings BookingLookup,
	validator *validator.RoomValidator,
	cfg *config.Config,
) RoomService {
	return &roomService{
		repo:      repo,
		bookings:  bookings,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *roomService) Create(ctx context.Context, room *model.Room) error {
	room.ID = ""
	s.sanitize(room)

	if err := s.validate(room); err != nil {
		return err
	}

	existing, err := s.repo.FindByNumber(ctx, room.Number)
	if err != nil {
		return apperrors.Internal("Failed to check room number", err)
	}
	if existing != nil {
		return apperrors.Conflict(fmt.Sprintf("Room number %s already exists", room.Number))
	}

	if err := s.repo.Create(ctx, room); err != nil {
		if repository.IsDuplicateKey(err) {
			return apperrors.Conflict(fmt.Sprintf("Room number %s already exists", room.Number))
		}
		s.cfg.Log.Error("Failed to create room", "number", room.Number, "error", err)
		return apperrors.Internal("Failed to create room", err)
	}

	s.cfg.Log.Info("Room created", "room_id", room.ID, "number", room.Number)
	return nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(id, err, "Failed to get room")
	}
	return room, nil
}

func (s *roomService) GetAll(ctx context.Context, filter model.RoomFilter, limit int, offset int64) ([]*model.Room, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		rooms           []*model.Room
		count           int64
		findErr, cntErr error
		wg              sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		count, cntErr = s.repo.Count(ctx, filter)
	}()
	go func() {
		defer wg.Done()
		rooms, findErr = s.repo.FindAll(ctx, filter, limit, offset)
	}()
	wg.Wait()

	if cntErr != nil {
		s.cfg.Log.Error("Failed to count rooms", "error", cntErr)
		return nil, 0, apperrors.Internal("Failed to count rooms", cntErr)
	}
	if findErr != nil {
		s.cfg.Log.Error("Failed to list rooms", "limit", limit, "offset", offset, "error", findErr)
		return nil, 0, apperrors.Internal("Failed to list rooms", findErr)
	}

	return rooms, count, nil
}

func (s *roomService) Update(ctx context.Context, id string, updates *model.RoomUpdate) (*model.Room, error) {
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, s.validationError(id, err)
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(id, err, "Failed to get room")
	}

	numberChanged := updates.Number != nil && *updates.Number != room.Number
	applyUpdate(room, updates)
	s.sanitize(room)

	if err := s.validate(room); err != nil {
		return nil, err
	}

	if numberChanged {
		existing, err := s.repo.FindByNumber(ctx, room.Number)
		if err != nil {
			return nil, apperrors.Internal("Failed to check room number", err)
		}
		if existing != nil && existing.ID != id {
			return nil, apperrors.Conflict(fmt.Sprintf("Room number %s already exists", room.Number))
		}
	}

	if err := s.repo.Update(ctx, id, room); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperrors.Conflict(fmt.Sprintf("Room number %s already exists", room.Number))
		}
		return nil, s.mapError(id, err, "Failed to update room")
	}

	s.cfg.Log.Info("Room updated", "room_id", id)
	return room, nil
}

// Delete refuses while any pending, confirmed or checked-in booking holds
// the room. A failed lookup also refuses.
func (s *roomService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return s.mapError(id, err, "Failed to get room")
	}

	active, err := s.bookings.HasActiveBookingsForRoom(ctx, id)
	if err != nil {
		s.cfg.Log.Error("Failed to check room bookings", "room_id", id, "error", err)
		return apperrors.Internal("Failed to check room bookings", err)
	}
	if active {
		return apperrors.Conflict("Room has active bookings and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapError(id, err, "Failed to delete room")
	}

	s.cfg.Log.Info("Room deleted", "room_id", id)
	return nil
}

func (s *roomService) Available(ctx context.Context, checkIn, checkOut time.Time, filter model.RoomFilter) ([]*model.Room, error) {
	rng, err := availability.NewDateRange(checkIn, checkOut)
	if err != nil {
		return nil, apperrors.Validation("Invalid date range", map[string]any{
			"check_out": "check_out must be after check_in",
		})
	}

	filter.OnlyAvailable = true

	var (
		rooms            []*model.Room
		bookings         []*model.Booking
		roomErr, bookErr error
		wg               sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		rooms, roomErr = s.repo.FindMatching(ctx, filter)
	}()
	go func() {
		defer wg.Done()
		bookings, bookErr = s.bookings.FindOverlapping(ctx, "", rng.Start, rng.End)
	}()
	wg.Wait()

	if roomErr != nil {
		s.cfg.Log.Error("Failed to list rooms", "error", roomErr)
		return nil, apperrors.Internal("Failed to list rooms", roomErr)
	}
	if bookErr != nil {
		s.cfg.Log.Error("Failed to list overlapping bookings", "error", bookErr)
		return nil, apperrors.Internal("Failed to check availability", bookErr)
	}

	return availability.FreeRooms(rooms, bookings, rng), nil
}

func (s *roomService) validate(room *model.Room) error {
	if err := s.validator.Validate(room); err != nil {
		return s.validationError(room.ID, err)
	}
	return nil
}

func (s *roomService) validationError(id string, err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		s.cfg.Log.Warn("Room validation failed", "room_id", id, "error", err)
		return apperrors.Validation("Room validation failed", verrs.Details())
	}
	return apperrors.Internal("Failed to validate room", err)
}

func (s *roomService) mapError(id string, err error, message string) error {
	switch {
	case errors.Is(err, roomserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Room", id)
	case errors.Is(err, roomserrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("Invalid room ID: %s", id))
	default:
		s.cfg.Log.Error(message, "room_id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}

func (s *roomService) sanitize(room *model.Room) {
	room.Number = sanitizer.NormalizeCode(room.Number)
	room.Description = sanitizer.NormalizeText(room.Description)
}

func applyUpdate(room *model.Room, u *model.RoomUpdate) {
	if u.Number != nil {
		room.Number = *u.Number
	}
	if u.Floor != nil {
		room.Floor = *u.Floor
	}
	if u.RoomTypeID != nil {
		room.RoomTypeID = *u.RoomTypeID
	}
	if u.Capacity != nil {
		room.Capacity = *u.Capacity
	}
	if u.PricePerNight != nil {
		room.PricePerNight = *u.PricePerNight
	}
	if u.IsAvailable != nil {
		room.IsAvailable = *u.IsAvailable
	}
	if u.HasWifi != nil {
		room.HasWifi = *u.HasWifi
	}
	if u.HasAirConditioning != nil {
		room.HasAirConditioning = *u.HasAirConditioning
	}
	if u.HasMinibar != nil {
		room.HasMinibar = *u.HasMinibar
	}
	if u.HasBalcony != nil {
		room.HasBalcony = *u.HasBalcony
	}
	if u.HasSeaView != nil {
		room.HasSeaView = *u.HasSeaView
	}
	if u.Description != nil {
		room.Description = *u.Description
	}
}
