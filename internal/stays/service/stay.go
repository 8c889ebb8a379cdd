package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"

	stayserrors "hotelier/internal/stays/errors"
	"hotelier/internal/stays/repository"
	"hotelier/internal/stays/validator"
	"hotelier/pkg/config"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/events"
	"hotelier/pkg/model"
	"hotelier/pkg/validation"
)

type StayService interface {
	CheckIn(ctx context.Context, req *model.CheckIn) (*model.Stay, error)
	GetByID(ctx context.Context, id string) (*model.Stay, error)
	GetAll(ctx context.Context, filter model.StayFilter, limit int, offset int64) ([]*model.Stay, int64, error)
	CheckOut(ctx context.Context, id string) (*model.Stay, error)
	AddPayment(ctx context.Context, id string, payment *model.Payment) (*model.Stay, error)
}

// BookingGateway is implemented by the bookings service. Transition is
// called with the stay transaction's session context.
type BookingGateway interface {
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	Transition(ctx context.Context, id string, next model.BookingStatus) (*model.Booking, error)
}

type stayService struct {
	repo      repository.StayRepository
	bookings  BookingGateway
	publisher events.Publisher
	validator *validator.StayValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewStayService(
	repo repository.StayRepository,
	bookings BookingGateway,
	publisher events.Publisher,
	validator *validator.StayValidator,
	cfg *config.Config,
) StayService {
	return &stayService{
		repo:      repo,
		bookings:  bookings,
		publisher: publisher,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

// CheckIn opens the stay for a pending or confirmed booking and moves the
// booking to checked in, atomically.
func (s *stayService) CheckIn(ctx context.Context, req *model.CheckIn) (*model.Stay, error) {
	if err := s.validator.ValidateCheckIn(req); err != nil {
		return nil, s.validationError("", err)
	}

	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.StatusID != model.BookingPending && booking.StatusID != model.BookingConfirmed {
		return nil, apperrors.Conflict(fmt.Sprintf("Booking is %s and cannot be checked in", booking.StatusID))
	}

	existing, err := s.repo.FindByBookingID(ctx, booking.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to check existing stay", "booking_id", booking.ID, "error", err)
		return nil, apperrors.Internal("Failed to check existing stay", err)
	}
	if existing != nil {
		return nil, stayExists(existing)
	}

	stay := s.newStay(booking, req)
	if err := s.validate(stay); err != nil {
		return nil, err
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Create(sessCtx, stay); err != nil {
			if repository.IsDuplicateKey(err) {
				return apperrors.Conflict("Booking has already been checked in")
			}
			return apperrors.Internal("Failed to create stay", err)
		}
		_, err := s.bookings.Transition(sessCtx, booking.ID, model.BookingCheckedIn)
		return err
	})
	if err != nil {
		s.cfg.Log.Error("Failed to check in", "booking_id", booking.ID, "error", err)
		return nil, asAppError(err, "Failed to check in")
	}

	s.cfg.Log.Info("Guest checked in",
		"stay_id", stay.ID,
		"booking_id", booking.ID,
		"room_id", booking.RoomID,
		"total_amount", stay.TotalAmount.StringFixed(2),
		"payment_status", stay.PaymentStatusID.String(),
	)
	s.emit(ctx, events.StayCheckedIn, stay)
	return stay, nil
}

func (s *stayService) newStay(booking *model.Booking, req *model.CheckIn) *model.Stay {
	tax := s.cfg.DefaultTaxPercent
	if req.TaxPercent != nil {
		tax = *req.TaxPercent
	}
	paid := decimal.Zero
	if req.PaidAmount != nil {
		paid = *req.PaidAmount
	}
	total := booking.BasePrice.Mul(decimal.NewFromInt(int64(booking.Nights()))).Round(2)

	return &model.Stay{
		BookingID:         booking.ID,
		ActualCheckInDate: s.now().UTC().Truncate(time.Millisecond),
		TotalAmount:       total,
		PaidAmount:        paid,
		TaxPercent:        tax,
		PaymentStatusID:   model.PaymentStatusFor(total, paid),
	}
}

func (s *stayService) GetByID(ctx context.Context, id string) (*model.Stay, error) {
	stay, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(id, err, "Failed to get stay")
	}
	return stay, nil
}

func (s *stayService) GetAll(ctx context.Context, filter model.StayFilter, limit int, offset int64) ([]*model.Stay, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		stays             []*model.Stay
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
		stays, errFind = s.repo.FindAll(ctx, filter, limit, offset)
	}()
	wg.Wait()

	if errCount != nil {
		s.cfg.Log.Error("Failed to count stays", "error", errCount)
		return nil, 0, apperrors.Internal("Failed to count stays", errCount)
	}
	if errFind != nil {
		s.cfg.Log.Error("Failed to list stays", "limit", limit, "offset", offset, "error", errFind)
		return nil, 0, apperrors.Internal("Failed to retrieve stays", errFind)
	}

	return stays, count, nil
}

// CheckOut closes the stay and completes its booking. An unpaid balance
// does not block check-out; the invoice reports it.
func (s *stayService) CheckOut(ctx context.Context, id string) (*model.Stay, error) {
	stay, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(id, err, "Failed to get stay")
	}
	if stay.ActualCheckOutDate != nil {
		return nil, apperrors.Conflict(fmt.Sprintf("Stay was already checked out on %s", stay.ActualCheckOutDate.Format(time.DateOnly)))
	}

	at := s.now().UTC().Truncate(time.Millisecond)
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.SetCheckOut(sessCtx, id, at); err != nil {
			return s.mapError(id, err, "Failed to check out stay")
		}
		_, err := s.bookings.Transition(sessCtx, stay.BookingID, model.BookingCompleted)
		return err
	})
	if err != nil {
		s.cfg.Log.Error("Failed to check out", "stay_id", id, "error", err)
		return nil, asAppError(err, "Failed to check out")
	}
	stay.ActualCheckOutDate = &at

	s.cfg.Log.Info("Guest checked out", "stay_id", id, "booking_id", stay.BookingID)
	s.emit(ctx, events.StayCheckedOut, stay)
	return stay, nil
}

// AddPayment records money received against the room charge.
func (s *stayService) AddPayment(ctx context.Context, id string, payment *model.Payment) (*model.Stay, error) {
	if err := s.validator.ValidatePayment(payment); err != nil {
		return nil, s.validationError(id, err)
	}

	var stay *model.Stay
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		current, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return s.mapError(id, err, "Failed to get stay")
		}

		current.PaidAmount = current.PaidAmount.Add(payment.Amount)
		current.PaymentStatusID = model.PaymentStatusFor(current.TotalAmount, current.PaidAmount)

		if err := s.repo.SetPayment(sessCtx, id, current.PaidAmount, current.PaymentStatusID); err != nil {
			return s.mapError(id, err, "Failed to record payment")
		}
		stay = current
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "Failed to record payment")
	}

	s.cfg.Log.Info("Payment recorded",
		"stay_id", id,
		"amount", payment.Amount.StringFixed(2),
		"paid_amount", stay.PaidAmount.StringFixed(2),
		"payment_status", stay.PaymentStatusID.String(),
	)
	s.emit(ctx, events.StayPaymentApplied, stay)
	return stay, nil
}

func (s *stayService) validate(stay *model.Stay) error {
	if err := s.validator.Validate(stay); err != nil {
		return s.validationError(stay.ID, err)
	}
	return nil
}

func (s *stayService) validationError(id string, err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		s.cfg.Log.Warn("Stay validation failed", "stay_id", id, "error", err)
		return apperrors.Validation("Stay validation failed", verrs.Details())
	}
	return apperrors.Internal("Failed to validate stay", err)
}

func (s *stayService) mapError(id string, err error, message string) error {
	switch {
	case errors.Is(err, stayserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Stay", id)
	case errors.Is(err, stayserrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("Invalid stay ID: %s", id))
	default:
		s.cfg.Log.Error(message, "stay_id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}

func (s *stayService) emit(ctx context.Context, eventType string, stay *model.Stay) {
	events.Emit(ctx, s.publisher, s.cfg.Log, s.cfg.KafkaTopicStays, events.Event{
		Type:        eventType,
		AggregateID: stay.ID,
		Payload:     stay,
	})
}

func stayExists(existing *model.Stay) error {
	return apperrors.Conflict("Booking has already been checked in").WithDetails(map[string]any{
		"stay_id": existing.ID,
	})
}

func asAppError(err error, message string) error {
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal(message, err)
}
