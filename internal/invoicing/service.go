package invoicing

import (
	"context"
	"errors"

	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
)

// The sources are the owning domains' services, so a missing record
// arrives as a 404 AppError and is passed through unchanged.
type StaySource interface {
	GetByID(ctx context.Context, id string) (*model.Stay, error)
}

type BookingSource interface {
	GetByID(ctx context.Context, id string) (*model.Booking, error)
}

type SaleSource interface {
	FindByStay(ctx context.Context, stayID string) ([]*model.ServiceSale, error)
}

type Service struct {
	stays    StaySource
	bookings BookingSource
	sales    SaleSource
	log      *logger.Logger
}

func NewService(stays StaySource, bookings BookingSource, sales SaleSource, log *logger.Logger) *Service {
	return &Service{stays: stays, bookings: bookings, sales: sales, log: log}
}

func (s *Service) ForStay(ctx context.Context, stayID string) (*Invoice, error) {
	stay, err := s.stays.GetByID(ctx, stayID)
	if err != nil {
		return nil, s.wrap("stay", stayID, err)
	}

	booking, err := s.bookings.GetByID(ctx, stay.BookingID)
	if err != nil {
		return nil, s.wrap("booking", stay.BookingID, err)
	}

	sales, err := s.sales.FindByStay(ctx, stay.ID)
	if err != nil {
		return nil, s.wrap("service sales", stay.ID, err)
	}

	inv := Build(stay, booking, sales)

	s.log.Info("Invoice built",
		"stay_id", stay.ID,
		"booking_id", booking.ID,
		"service_lines", len(inv.ServiceLines),
		"total_amount", inv.TotalAmount.StringFixed(2),
		"remaining_balance", inv.RemainingBalance.StringFixed(2),
	)

	return inv, nil
}

func (s *Service) wrap(what, id string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	s.log.Error("Failed to load invoice data", "resource", what, "id", id, "error", err)
	return apperrors.Internal("Failed to build invoice", err)
}
