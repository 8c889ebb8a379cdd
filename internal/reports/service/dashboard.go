// Package service computes the back-office dashboard from bookings, stays
// and service sales.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"hotelier/internal/availability"
	"hotelier/pkg/config"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/model"
)

// MaxWindowNights bounds a dashboard request.
const MaxWindowNights = 366

type BookingRanger interface {
	FindInRange(ctx context.Context, start, end time.Time) ([]*model.Booking, error)
}

type RoomCounter interface {
	Count(ctx context.Context, filter model.RoomFilter) (int64, error)
}

type StayRanger interface {
	FindCheckedInBetween(ctx context.Context, start, end time.Time) ([]*model.Stay, error)
}

type SaleRanger interface {
	FindSoldBetween(ctx context.Context, start, end time.Time) ([]*model.ServiceSale, error)
}

type DashboardService interface {
	Dashboard(ctx context.Context, from, to time.Time) (*model.Dashboard, error)
}

type dashboardService struct {
	bookings BookingRanger
	rooms    RoomCounter
	stays    StayRanger
	sales    SaleRanger
	cfg      *config.Config
}

func NewDashboardService(bookings BookingRanger, rooms RoomCounter, stays StayRanger, sales SaleRanger, cfg *config.Config) DashboardService {
	return &dashboardService{
		bookings: bookings,
		rooms:    rooms,
		stays:    stays,
		sales:    sales,
		cfg:      cfg,
	}
}

func (s *dashboardService) Dashboard(ctx context.Context, from, to time.Time) (*model.Dashboard, error) {
	window, err := availability.NewDateRange(from, to)
	if err != nil {
		return nil, apperrors.Validation("Invalid report window", map[string]any{"to": err.Error()})
	}
	if window.Nights() > MaxWindowNights {
		return nil, apperrors.Validation("Invalid report window", map[string]any{
			"to": fmt.Sprintf("report window must not exceed %d nights", MaxWindowNights),
		})
	}

	var (
		bookings []*model.Booking
		rooms    int64
		stays    []*model.Stay
		sales    []*model.ServiceSale
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bookings, err = s.bookings.FindInRange(gctx, window.Start, window.End)
		return wrap("bookings", err)
	})
	g.Go(func() error {
		var err error
		rooms, err = s.rooms.Count(gctx, model.RoomFilter{})
		return wrap("rooms", err)
	})
	g.Go(func() error {
		var err error
		stays, err = s.stays.FindCheckedInBetween(gctx, window.Start, window.End)
		return wrap("stays", err)
	})
	g.Go(func() error {
		var err error
		sales, err = s.sales.FindSoldBetween(gctx, window.Start, window.End)
		return wrap("service sales", err)
	})
	if err := g.Wait(); err != nil {
		s.cfg.Log.Error("Failed to load dashboard data", "from", window.Start, "to", window.End, "error", err)
		return nil, apperrors.Internal("Failed to build dashboard", err)
	}

	dash := Build(window, bookings, rooms, stays, sales)

	s.cfg.Log.Info("Dashboard built",
		"window", window.String(),
		"bookings", dash.TotalBookings,
		"occupancy_rate", dash.OccupancyRate.StringFixed(2),
	)
	return dash, nil
}

// Build aggregates the window's data. Cancelled bookings are counted by
// status but occupy nothing; cancelled sales earn and owe nothing.
func Build(window availability.DateRange, bookings []*model.Booking, rooms int64, stays []*model.Stay, sales []*model.ServiceSale) *model.Dashboard {
	dash := &model.Dashboard{
		From:             window.Start,
		To:               window.End,
		Nights:           window.Nights(),
		BookingsByStatus: make(map[string]int, len(model.AllBookingStatuses)),
		Rooms:            rooms,
	}
	for _, status := range model.AllBookingStatuses {
		dash.BookingsByStatus[status.String()] = 0
	}

	for _, b := range bookings {
		if b == nil {
			continue
		}
		dash.BookingsByStatus[b.StatusID.String()]++
		dash.TotalBookings++
		if b.StatusID != model.BookingCancelled {
			dash.BookedRoomNights += nightsWithin(window, b.CheckInDate, b.CheckOutDate)
		}
	}

	dash.OccupancyRate = decimal.Zero
	if capacity := rooms * int64(dash.Nights); capacity > 0 {
		dash.OccupancyRate = decimal.NewFromInt(int64(dash.BookedRoomNights)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(capacity)).
			Round(2)
	}

	roomRevenue, outstanding := decimal.Zero, decimal.Zero
	for _, stay := range stays {
		if stay == nil {
			continue
		}
		roomRevenue = roomRevenue.Add(stay.TotalAmount)
		if owed := stay.TotalAmount.Sub(stay.PaidAmount); owed.Sign() > 0 {
			outstanding = outstanding.Add(owed)
		}
	}

	serviceRevenue := decimal.Zero
	for _, sale := range sales {
		if sale == nil || sale.PaymentStatusID == model.PaymentCancelled {
			continue
		}
		serviceRevenue = serviceRevenue.Add(sale.TotalPrice)
		if sale.PaymentStatusID != model.PaymentPaid {
			outstanding = outstanding.Add(sale.TotalPrice)
		}
	}

	dash.RoomRevenue = roomRevenue.Round(2)
	dash.ServiceRevenue = serviceRevenue.Round(2)
	dash.TotalRevenue = roomRevenue.Add(serviceRevenue).Round(2)
	dash.OutstandingBalance = outstanding.Round(2)
	return dash
}

// nightsWithin counts the booked nights of [checkIn, checkOut) that fall
// inside window.
func nightsWithin(window availability.DateRange, checkIn, checkOut time.Time) int {
	start := availability.Day(checkIn)
	if start.Before(window.Start) {
		start = window.Start
	}
	end := availability.Day(checkOut)
	if end.After(window.End) {
		end = window.End
	}
	if !start.Before(end) {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}
