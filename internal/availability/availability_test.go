package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotelier/pkg/model"
)

const room = "room-101"

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func rng(t *testing.T, from, to int) DateRange {
	t.Helper()
	r, err := NewDateRange(day(from), day(to))
	if err != nil {
		t.Fatalf("NewDateRange(%d, %d): %v", from, to, err)
	}
	return r
}

func booking(id string, from, to int, status model.BookingStatus) *model.Booking {
	return &model.Booking{
		ID:           id,
		RoomID:       room,
		CheckInDate:  day(from),
		CheckOutDate: day(to),
		StatusID:     status,
	}
}

func TestNewDateRange(t *testing.T) {
	t.Run("truncates to UTC midnight", func(t *testing.T) {
		loc := time.FixedZone("UTC+3", 3*3600)
		r, err := NewDateRange(
			time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
			time.Date(2025, 3, 12, 1, 0, 0, 0, loc), // 11th 22:00 UTC
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !r.Start.Equal(day(10)) || !r.End.Equal(day(11)) {
			t.Errorf("unexpected range %s", r)
		}
		if r.Nights() != 1 {
			t.Errorf("expected 1 night, got %d", r.Nights())
		}
	})

	t.Run("equal dates rejected", func(t *testing.T) {
		if _, err := NewDateRange(day(10), day(10)); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("expected ErrInvalidRange, got %v", err)
		}
	})

	t.Run("inverted dates rejected", func(t *testing.T) {
		if _, err := NewDateRange(day(12), day(10)); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("expected ErrInvalidRange, got %v", err)
		}
	})

	t.Run("same day different hours rejected", func(t *testing.T) {
		_, err := NewDateRange(day(10).Add(9*time.Hour), day(10).Add(18*time.Hour))
		if !errors.Is(err, ErrInvalidRange) {
			t.Errorf("expected ErrInvalidRange, got %v", err)
		}
	})
}

func TestIsRoomAvailable(t *testing.T) {
	existing := []*model.Booking{booking("b1", 10, 15, model.BookingConfirmed)}

	tests := []struct {
		name     string
		from, to int
		want     bool
	}{
		{"entirely before", 5, 8, true},
		{"entirely after", 16, 20, true},
		{"touching at check-in", 5, 10, true},
		{"touching at check-out", 15, 18, true},
		{"nested inside", 11, 13, false},
		{"enclosing", 8, 17, false},
		{"left edge overlap", 8, 11, false},
		{"right edge overlap", 14, 18, false},
		{"identical", 10, 15, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRoomAvailable(existing, room, rng(t, tt.from, tt.to), ""); got != tt.want {
				t.Errorf("IsRoomAvailable(%d..%d) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestIsRoomAvailable_NonOverlapIsSymmetric(t *testing.T) {
	a := booking("a", 1, 5, model.BookingConfirmed)
	b := booking("b", 5, 9, model.BookingConfirmed)

	if !IsRoomAvailable([]*model.Booking{a}, room, rng(t, 5, 9), "") {
		t.Error("b should fit after a")
	}
	if !IsRoomAvailable([]*model.Booking{b}, room, rng(t, 1, 5), "") {
		t.Error("a should fit before b")
	}
}

func TestIsRoomAvailable_IgnoresCancelled(t *testing.T) {
	existing := []*model.Booking{booking("b1", 10, 15, model.BookingCancelled)}

	if !IsRoomAvailable(existing, room, rng(t, 10, 15), "") {
		t.Error("cancelled booking must not block the room")
	}
}

func TestIsRoomAvailable_BlockingStatuses(t *testing.T) {
	for _, status := range []model.BookingStatus{model.BookingPending, model.BookingConfirmed, model.BookingCheckedIn, model.BookingCompleted} {
		existing := []*model.Booking{booking("b1", 10, 15, status)}
		if IsRoomAvailable(existing, room, rng(t, 12, 13), "") {
			t.Errorf("status %s should block the room", status)
		}
	}
}

func TestIsRoomAvailable_ExcludesSelf(t *testing.T) {
	existing := []*model.Booking{
		booking("b1", 10, 15, model.BookingConfirmed),
		booking("b2", 20, 22, model.BookingConfirmed),
	}

	if !IsRoomAvailable(existing, room, rng(t, 11, 16), "b1") {
		t.Error("moving b1 over its own dates should be allowed")
	}
	if IsRoomAvailable(existing, room, rng(t, 14, 21), "b1") {
		t.Error("moving b1 onto b2 must conflict")
	}
}

func TestIsRoomAvailable_OtherRoomsIgnored(t *testing.T) {
	other := booking("b1", 10, 15, model.BookingConfirmed)
	other.RoomID = "room-202"

	if !IsRoomAvailable([]*model.Booking{other}, room, rng(t, 10, 15), "") {
		t.Error("bookings for other rooms must not block")
	}
}

func TestIsRoomAvailable_IntraDayTimesOnStoredBookings(t *testing.T) {
	stored := booking("b1", 10, 12, model.BookingConfirmed)
	stored.CheckOutDate = day(12).Add(11 * time.Hour) // late checkout recorded with a time

	if !IsRoomAvailable([]*model.Booking{stored}, room, rng(t, 12, 14), "") {
		t.Error("stored times are compared at day granularity")
	}
}

func TestFreeRooms(t *testing.T) {
	rooms := []*model.Room{
		{ID: "r1", IsAvailable: true},
		{ID: "r2", IsAvailable: true},
		{ID: "r3", IsAvailable: false},
	}
	bookings := []*model.Booking{
		{ID: "b1", RoomID: "r1", CheckInDate: day(10), CheckOutDate: day(12), StatusID: model.BookingConfirmed},
		{ID: "b2", RoomID: "r2", CheckInDate: day(10), CheckOutDate: day(12), StatusID: model.BookingCancelled},
	}

	free := FreeRooms(rooms, bookings, rng(t, 11, 13))

	if len(free) != 1 || free[0].ID != "r2" {
		ids := make([]string, 0, len(free))
		for _, r := range free {
			ids = append(ids, r.ID)
		}
		t.Errorf("expected only r2 to be free, got %v", ids)
	}
}

type finderFunc func(ctx context.Context, roomID string) ([]*model.Booking, error)

func (f finderFunc) FindByRoom(ctx context.Context, roomID string) ([]*model.Booking, error) {
	return f(ctx, roomID)
}

func TestChecker(t *testing.T) {
	finder := finderFunc(func(ctx context.Context, roomID string) ([]*model.Booking, error) {
		if roomID != room {
			return nil, nil
		}
		return []*model.Booking{booking("b1", 10, 15, model.BookingConfirmed)}, nil
	})
	c := NewChecker(finder)
	ctx := context.Background()

	ok, err := c.IsRoomAvailable(ctx, room, day(15), day(17), "")
	if err != nil || !ok {
		t.Errorf("expected available, got %v, %v", ok, err)
	}

	conflicts, err := c.Conflicts(ctx, room, day(12), day(17), "")
	if err != nil || len(conflicts) != 1 || conflicts[0].ID != "b1" {
		t.Errorf("expected conflict with b1, got %v, %v", conflicts, err)
	}

	ok, err = c.IsRoomAvailable(ctx, "unknown-room", day(12), day(17), "")
	if err != nil || !ok {
		t.Errorf("unknown room should be reported free by the kernel, got %v, %v", ok, err)
	}

	if _, err := c.IsRoomAvailable(ctx, room, day(17), day(15), ""); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

func TestChecker_FinderError(t *testing.T) {
	boom := errors.New("mongo down")
	c := NewChecker(finderFunc(func(context.Context, string) ([]*model.Booking, error) {
		return nil, boom
	}))

	if _, err := c.IsRoomAvailable(context.Background(), room, day(1), day(2), ""); !errors.Is(err, boom) {
		t.Errorf("expected finder error to propagate, got %v", err)
	}
}
