package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"

	"hotelier/internal/availability"
	bookingserrors "hotelier/internal/bookings/errors"
	"hotelier/internal/bookings/repository"
	"hotelier/internal/bookings/validator"
	"hotelier/pkg/config"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/events"
	"hotelier/pkg/model"
	"hotelier/pkg/sanitizer"
	"hotelier/pkg/validation"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	QuickBook(ctx context.Context, quick *model.QuickBooking) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error)
	Cancel(ctx context.Context, id string) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error)
	RoomAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeBookingID string) (*model.RoomAvailability, error)

	// Transition moves a booking to next without emitting an event. Stays
	// call it inside their own transaction on check-in and check-out.
	Transition(ctx context.Context, id string, next model.BookingStatus) (*model.Booking, error)
}

// RoomGetter is implemented by the rooms service.
type RoomGetter interface {
	GetByID(ctx context.Context, id string) (*model.Room, error)
}

// GuestResolver is implemented by the guests service.
type GuestResolver interface {
	GetByID(ctx context.Context, id string) (*model.Guest, error)
	FindOrCreateByPhone(ctx context.Context, guest *model.Guest) (*model.Guest, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	locks     repository.RoomLockRepository
	checker   *availability.Checker
	rooms     RoomGetter
	guests    GuestResolver
	publisher events.Publisher
	validator *validator.BookingValidator
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	locks repository.RoomLockRepository,
	rooms RoomGetter,
	guests GuestResolver,
	publisher events.Publisher,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		locks:     locks,
		checker:   availability.NewChecker(repo),
		rooms:     rooms,
		guests:    guests,
		publisher: publisher,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	booking.ID = ""
	if booking.StatusID == 0 {
		booking.StatusID = model.BookingPending
	}
	s.normalize(booking)

	if err := s.validate(booking); err != nil {
		return err
	}
	if booking.StatusID != model.BookingPending && booking.StatusID != model.BookingConfirmed {
		return apperrors.Validation("Booking validation failed", map[string]any{
			"booking_status_id": "new bookings must be pending or confirmed",
		})
	}

	if _, err := s.guests.GetByID(ctx, booking.GuestID); err != nil {
		return err
	}
	if err := s.priceForRoom(ctx, booking, false, true); err != nil {
		return err
	}

	err := s.reserve(ctx, booking, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "room_id", booking.RoomID, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking created",
		"booking_id", booking.ID,
		"room_id", booking.RoomID,
		"guest_id", booking.GuestID,
		"check_in_date", booking.CheckInDate.Format(time.DateOnly),
		"check_out_date", booking.CheckOutDate.Format(time.DateOnly),
	)
	s.emit(ctx, events.BookingCreated, booking)
	return nil
}

// QuickBook registers a walk-in: the guest is found by phone or created,
// and a confirmed booking is made for them.
func (s *bookingService) QuickBook(ctx context.Context, quick *model.QuickBooking) (*model.Booking, error) {
	quick.Phone = sanitizer.NormalizePhone(quick.Phone)
	quick.Email = sanitizer.NormalizeEmail(quick.Email)

	if err := s.validator.ValidateQuick(quick); err != nil {
		return nil, s.validationError("", err)
	}

	guest, err := s.guests.FindOrCreateByPhone(ctx, &model.Guest{
		FirstName: quick.FirstName,
		LastName:  quick.LastName,
		Phone:     quick.Phone,
		Email:     quick.Email,
	})
	if err != nil {
		return nil, err
	}

	booking := &model.Booking{
		RoomID:       quick.RoomID,
		GuestID:      guest.ID,
		CheckInDate:  quick.CheckInDate,
		CheckOutDate: quick.CheckOutDate,
		StatusID:     model.BookingConfirmed,
		BasePrice:    quick.BasePrice,
		GuestsCount:  quick.GuestsCount,
		Notes:        quick.Notes,
	}
	if err := s.Create(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(id, err, "Failed to get booking")
	}
	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		bookings          []*model.Booking
		count             int64
		errCount, errFind error
		wg                sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
	}()
	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, filter, limit, offset)
	}()
	wg.Wait()

	if errCount != nil {
		s.cfg.Log.Error("Failed to count bookings", "error", errCount)
		return nil, 0, apperrors.Internal("Failed to count bookings", errCount)
	}
	if errFind != nil {
		s.cfg.Log.Error("Failed to list bookings", "limit", limit, "offset", offset, "error", errFind)
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", errFind)
	}

	return bookings, count, nil
}

func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, s.validationError(id, err)
	}
	if updates.StatusID != nil && (*updates.StatusID == model.BookingCheckedIn || *updates.StatusID == model.BookingCompleted) {
		return nil, apperrors.Validation("Booking validation failed", map[string]any{
			"booking_status_id": "use stay check-in and check-out to move a booking to " + updates.StatusID.String(),
		})
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(id, err, "Failed to get booking")
	}
	if !existing.StatusID.Active() {
		return nil, apperrors.Conflict(fmt.Sprintf("Booking is %s and can no longer be changed", existing.StatusID))
	}
	if updates.StatusID != nil && !existing.StatusID.CanTransition(*updates.StatusID) {
		return nil, apperrors.Conflict(fmt.Sprintf("Booking cannot move from %s to %s", existing.StatusID, updates.StatusID))
	}

	merged := mergeBookingUpdates(existing, updates)
	s.normalize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if merged.GuestID != existing.GuestID {
		if _, err := s.guests.GetByID(ctx, merged.GuestID); err != nil {
			return nil, err
		}
	}
	// A move to another room takes that room's rate unless a price is given,
	// and only the target room has to be open for sale.
	if merged.StatusID.Active() {
		moved := merged.RoomID != existing.RoomID
		if err := s.priceForRoom(ctx, merged, updates.BasePrice == nil && moved, moved); err != nil {
			return nil, err
		}
	}

	write := func(ctx context.Context) error {
		if err := s.repo.Update(ctx, id, merged); err != nil {
			return s.mapError(id, err, "Failed to update booking")
		}
		return nil
	}

	if merged.StatusID.Active() {
		err = s.reserve(ctx, merged, func(sessCtx mongo.SessionContext) error { return write(sessCtx) })
	} else {
		err = write(ctx)
	}
	if err != nil {
		s.cfg.Log.Error("Failed to update booking", "booking_id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking updated", "booking_id", id, "status", merged.StatusID.String())
	if merged.StatusID == model.BookingCancelled {
		s.emit(ctx, events.BookingCancelled, merged)
	} else {
		s.emit(ctx, events.BookingUpdated, merged)
	}
	return merged, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.Transition(ctx, id, model.BookingCancelled)
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking cancelled", "booking_id", id, "room_id", booking.RoomID)
	s.emit(ctx, events.BookingCancelled, booking)
	return booking, nil
}

func (s *bookingService) Transition(ctx context.Context, id string, next model.BookingStatus) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(id, err, "Failed to get booking")
	}
	if !booking.StatusID.CanTransition(next) {
		return nil, apperrors.Conflict(fmt.Sprintf("Booking cannot move from %s to %s", booking.StatusID, next))
	}
	if booking.StatusID == next {
		return booking, nil
	}

	if err := s.repo.SetStatus(ctx, id, next); err != nil {
		return nil, s.mapError(id, err, "Failed to update booking status")
	}
	booking.StatusID = next
	return booking, nil
}

// Delete removes bookings that never turned into a stay.
func (s *bookingService) Delete(ctx context.Context, id string) error {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapError(id, err, "Failed to get booking")
	}
	if booking.StatusID == model.BookingCheckedIn || booking.StatusID == model.BookingCompleted {
		return apperrors.Conflict("Booking has a stay and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapError(id, err, "Failed to delete booking")
	}

	s.cfg.Log.Info("Booking deleted", "booking_id", id)
	s.emit(ctx, events.BookingDeleted, booking)
	return nil
}

func (s *bookingService) Search(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
	rng, err := availability.NewDateRange(checkIn, checkOut)
	if err != nil {
		return nil, invalidRange(err)
	}

	bookings, err := s.repo.FindOverlapping(ctx, roomID, rng.Start, rng.End)
	if err != nil {
		s.cfg.Log.Error("Failed to search bookings", "room_id", roomID, "error", err)
		return nil, apperrors.Internal("Failed to search bookings", err)
	}

	s.cfg.Log.Debug("Booking search completed", "room_id", roomID, "range", rng.String(), "count", len(bookings))
	return bookings, nil
}

func (s *bookingService) RoomAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeBookingID string) (*model.RoomAvailability, error) {
	rng, err := availability.NewDateRange(checkIn, checkOut)
	if err != nil {
		return nil, invalidRange(err)
	}
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, err
	}

	conflicts, err := s.checker.Conflicts(ctx, roomID, rng.Start, rng.End, excludeBookingID)
	if err != nil {
		s.cfg.Log.Error("Failed to check room availability", "room_id", roomID, "error", err)
		return nil, apperrors.Internal("Failed to check room availability", err)
	}
	if conflicts == nil {
		conflicts = []*model.Booking{}
	}

	return &model.RoomAvailability{
		RoomID:    roomID,
		CheckIn:   rng.Start,
		CheckOut:  rng.End,
		Nights:    rng.Nights(),
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}

// reserve serializes writers for booking's room behind the room lock and
// runs the overlap check and write in one transaction.
func (s *bookingService) reserve(ctx context.Context, booking *model.Booking, write func(mongo.SessionContext) error) error {
	owner, err := s.locks.Acquire(ctx, booking.RoomID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrRoomLocked) {
			return apperrors.Conflict("This room is currently being booked by another request. Please try again.")
		}
		return apperrors.Internal("Failed to acquire room lock", err)
	}
	defer func() {
		if err := s.locks.Release(ctx, booking.RoomID, owner); err != nil {
			s.cfg.Log.Warn("Failed to release room lock", "room_id", booking.RoomID, "error", err)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		conflicts, err := s.checker.Conflicts(sessCtx, booking.RoomID, booking.CheckInDate, booking.CheckOutDate, booking.ID)
		if err != nil {
			if errors.Is(err, availability.ErrInvalidRange) {
				return invalidRange(err)
			}
			return apperrors.Internal("Failed to check existing bookings", err)
		}
		if len(conflicts) > 0 {
			return overlapError(conflicts[0])
		}
		return write(sessCtx)
	})
	if err != nil && !apperrors.IsAppError(err) {
		return apperrors.Internal("Failed to save booking", err)
	}
	return err
}

// priceForRoom loads the booked room, takes its nightly rate when asked to
// or when no price was given, and recomputes the total. selling requires the
// room to be open for sale; bookings already in a closed room stay editable.
func (s *bookingService) priceForRoom(ctx context.Context, booking *model.Booking, useRoomRate, selling bool) error {
	room, err := s.rooms.GetByID(ctx, booking.RoomID)
	if err != nil {
		return err
	}
	if selling && !room.IsAvailable {
		return apperrors.Conflict(fmt.Sprintf("Room %s is not open for booking", room.Number))
	}

	if useRoomRate || booking.BasePrice.IsZero() {
		booking.BasePrice = room.PricePerNight
	}
	booking.TotalPrice = booking.BasePrice.Mul(decimal.NewFromInt(int64(booking.Nights()))).Round(2)

	if err := s.validator.ValidateForRoom(booking, room); err != nil {
		return s.validationError(booking.ID, err)
	}
	return nil
}

func (s *bookingService) normalize(b *model.Booking) {
	b.CheckInDate = availability.Day(b.CheckInDate)
	b.CheckOutDate = availability.Day(b.CheckOutDate)
	b.Notes = sanitizer.NormalizeText(b.Notes)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		return s.validationError(booking.ID, err)
	}
	return nil
}

func (s *bookingService) validationError(id string, err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		s.cfg.Log.Warn("Booking validation failed", "booking_id", id, "error", err)
		return apperrors.Validation("Booking validation failed", verrs.Details())
	}
	return apperrors.Internal("Failed to validate booking", err)
}

func (s *bookingService) mapError(id string, err error, message string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("Invalid booking ID: %s", id))
	default:
		s.cfg.Log.Error(message, "booking_id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}

func (s *bookingService) emit(ctx context.Context, eventType string, booking *model.Booking) {
	events.Emit(ctx, s.publisher, s.cfg.Log, s.cfg.KafkaTopicBookings, events.Event{
		Type:        eventType,
		AggregateID: booking.ID,
		Payload:     booking,
	})
}

func invalidRange(err error) error {
	return apperrors.Validation("Invalid date range", map[string]any{
		"check_out_date": err.Error(),
	})
}

func overlapError(existing *model.Booking) error {
	return apperrors.Conflict(fmt.Sprintf(
		"Room is already booked from %s to %s",
		existing.CheckInDate.Format(time.DateOnly),
		existing.CheckOutDate.Format(time.DateOnly),
	)).WithDetails(map[string]any{
		"booking_id":     existing.ID,
		"check_in_date":  existing.CheckInDate.Format(time.DateOnly),
		"check_out_date": existing.CheckOutDate.Format(time.DateOnly),
	})
}

func mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.RoomID != "" {
		merged.RoomID = updates.RoomID
	}
	if updates.GuestID != "" {
		merged.GuestID = updates.GuestID
	}
	if updates.CheckInDate != nil {
		merged.CheckInDate = *updates.CheckInDate
	}
	if updates.CheckOutDate != nil {
		merged.CheckOutDate = *updates.CheckOutDate
	}
	if updates.StatusID != nil {
		merged.StatusID = *updates.StatusID
	}
	if updates.BasePrice != nil {
		merged.BasePrice = *updates.BasePrice
	}
	if updates.GuestsCount != nil {
		merged.GuestsCount = *updates.GuestsCount
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}

	return &merged
}
