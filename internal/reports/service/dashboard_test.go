package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"hotelier/internal/availability"
	"hotelier/pkg/config"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func booking(in, out string, status model.BookingStatus) *model.Booking {
	return &model.Booking{CheckInDate: day(in), CheckOutDate: day(out), StatusID: status}
}

func TestBuild(t *testing.T) {
	window, err := availability.NewDateRange(day("2026-07-01"), day("2026-07-11"))
	if err != nil {
		t.Fatal(err)
	}

	bookings := []*model.Booking{
		booking("2026-06-28", "2026-07-03", model.BookingCompleted), // 2 nights inside
		booking("2026-07-05", "2026-07-08", model.BookingCheckedIn), // 3
		booking("2026-07-09", "2026-07-15", model.BookingConfirmed), // 2
		booking("2026-07-02", "2026-07-06", model.BookingCancelled), // 0
	}
	stays := []*model.Stay{
		{TotalAmount: decimal.NewFromInt(500), PaidAmount: decimal.NewFromInt(500)},
		{TotalAmount: decimal.NewFromInt(900), PaidAmount: decimal.NewFromInt(300)},
		{TotalAmount: decimal.NewFromInt(100), PaidAmount: decimal.NewFromInt(150)},
	}
	sales := []*model.ServiceSale{
		{TotalPrice: decimal.RequireFromString("12.50"), PaymentStatusID: model.PaymentPaid},
		{TotalPrice: decimal.NewFromInt(40), PaymentStatusID: model.PaymentUnpaid},
		{TotalPrice: decimal.NewFromInt(999), PaymentStatusID: model.PaymentCancelled},
	}

	dash := Build(window, bookings, 4, stays, sales)

	if dash.Nights != 10 || dash.TotalBookings != 4 {
		t.Errorf("unexpected counts nights=%d bookings=%d", dash.Nights, dash.TotalBookings)
	}
	if dash.BookingsByStatus["cancelled"] != 1 || dash.BookingsByStatus["pending"] != 0 {
		t.Errorf("unexpected status counts %v", dash.BookingsByStatus)
	}
	if dash.BookedRoomNights != 7 {
		t.Errorf("expected 7 booked room-nights, got %d", dash.BookedRoomNights)
	}
	if !dash.OccupancyRate.Equal(decimal.RequireFromString("17.5")) {
		t.Errorf("expected occupancy 17.5, got %s", dash.OccupancyRate)
	}
	if !dash.RoomRevenue.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("unexpected room revenue %s", dash.RoomRevenue)
	}
	if !dash.ServiceRevenue.Equal(decimal.RequireFromString("52.50")) {
		t.Errorf("unexpected service revenue %s", dash.ServiceRevenue)
	}
	if !dash.TotalRevenue.Equal(decimal.RequireFromString("1552.50")) {
		t.Errorf("unexpected total revenue %s", dash.TotalRevenue)
	}
	if !dash.OutstandingBalance.Equal(decimal.NewFromInt(640)) {
		t.Errorf("expected outstanding 640, got %s", dash.OutstandingBalance)
	}
}

func TestBuild_NoRooms(t *testing.T) {
	window, _ := availability.NewDateRange(day("2026-07-01"), day("2026-07-02"))
	dash := Build(window, nil, 0, nil, nil)

	if !dash.OccupancyRate.IsZero() || len(dash.BookingsByStatus) != len(model.AllBookingStatuses) {
		t.Errorf("unexpected empty dashboard %+v", dash)
	}
}

type fakeSources struct {
	roomsErr error
	gotStart time.Time
}

func (f *fakeSources) FindInRange(ctx context.Context, start, end time.Time) ([]*model.Booking, error) {
	f.gotStart = start
	return []*model.Booking{booking("2026-07-01", "2026-07-02", model.BookingConfirmed)}, nil
}

func (f *fakeSources) Count(ctx context.Context, filter model.RoomFilter) (int64, error) {
	return 1, f.roomsErr
}

func (f *fakeSources) FindCheckedInBetween(ctx context.Context, start, end time.Time) ([]*model.Stay, error) {
	return nil, nil
}

func (f *fakeSources) FindSoldBetween(ctx context.Context, start, end time.Time) ([]*model.ServiceSale, error) {
	return nil, nil
}

func newTestService(src *fakeSources) DashboardService {
	return NewDashboardService(src, src, src, src, &config.Config{Log: logger.NewNop()})
}

func TestDashboard(t *testing.T) {
	src := &fakeSources{}
	dash, err := newTestService(src).Dashboard(context.Background(), day("2026-07-01").Add(20*time.Hour), day("2026-07-02"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !src.gotStart.Equal(day("2026-07-01")) {
		t.Errorf("window not normalized: %v", src.gotStart)
	}
	if !dash.OccupancyRate.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected full occupancy, got %s", dash.OccupancyRate)
	}
}

func TestDashboard_Errors(t *testing.T) {
	tests := []struct {
		name     string
		from, to time.Time
		roomsErr error
		wantCode string
	}{
		{"empty window", day("2026-07-01"), day("2026-07-01"), nil, apperrors.CodeValidation},
		{"too long", day("2026-01-01"), day("2027-06-01"), nil, apperrors.CodeValidation},
		{"source failure", day("2026-07-01"), day("2026-07-02"), errors.New("timeout"), apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestService(&fakeSources{roomsErr: tt.roomsErr}).Dashboard(context.Background(), tt.from, tt.to)
			if err == nil || apperrors.AsAppError(err).Code != tt.wantCode {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}
