// Package availability decides whether a room is free for a stay interval.
//
// Intervals are half-open [Start, End) at day granularity in UTC: a guest
// checking out on the 12th does not conflict with one checking in on the
// 12th. Cancelled bookings never block a room.
package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotelier/pkg/model"
)

var ErrInvalidRange = errors.New("check-out date must be after check-in date")

// DateRange is a normalised [Start, End) interval of nights.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange truncates both ends to UTC midnight and rejects empty or
// inverted ranges.
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: Day(start), End: Day(end)}
	if !r.Start.Before(r.End) {
		return DateRange{}, fmt.Errorf("%w: %s to %s", ErrInvalidRange,
			r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly))
	}
	return r, nil
}

// Day returns t's calendar day at 00:00 UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (r DateRange) Nights() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// Overlaps reports whether the half-open ranges share at least one night.
func (r DateRange) Overlaps(start, end time.Time) bool {
	return start.Before(r.End) && end.After(r.Start)
}

func (r DateRange) String() string {
	return r.Start.Format(time.DateOnly) + " to " + r.End.Format(time.DateOnly)
}

// Conflicts returns the bookings for roomID that block the candidate range.
// excludeBookingID lets an update ignore the booking being edited.
func Conflicts(bookings []*model.Booking, roomID string, candidate DateRange, excludeBookingID string) []*model.Booking {
	var out []*model.Booking
	for _, b := range bookings {
		if b == nil || b.RoomID != roomID {
			continue
		}
		if b.StatusID == model.BookingCancelled {
			continue
		}
		if excludeBookingID != "" && b.ID == excludeBookingID {
			continue
		}
		if candidate.Overlaps(Day(b.CheckInDate), Day(b.CheckOutDate)) {
			out = append(out, b)
		}
	}
	return out
}

func IsRoomAvailable(bookings []*model.Booking, roomID string, candidate DateRange, excludeBookingID string) bool {
	return len(Conflicts(bookings, roomID, candidate, excludeBookingID)) == 0
}

// FreeRooms keeps the rooms that are open for sale and have no conflicting
// booking in rng. bookings may span many rooms.
func FreeRooms(rooms []*model.Room, bookings []*model.Booking, rng DateRange) []*model.Room {
	byRoom := make(map[string][]*model.Booking)
	for _, b := range bookings {
		if b != nil {
			byRoom[b.RoomID] = append(byRoom[b.RoomID], b)
		}
	}

	free := make([]*model.Room, 0, len(rooms))
	for _, room := range rooms {
		if room == nil || !room.IsAvailable {
			continue
		}
		if IsRoomAvailable(byRoom[room.ID], room.ID, rng, "") {
			free = append(free, room)
		}
	}
	return free
}

// BookingFinder loads the bookings that may conflict for a room.
type BookingFinder interface {
	FindByRoom(ctx context.Context, roomID string) ([]*model.Booking, error)
}

type Checker struct {
	finder BookingFinder
}

func NewChecker(finder BookingFinder) *Checker {
	return &Checker{finder: finder}
}

// Conflicts loads roomID's bookings and returns those overlapping [start, end).
// An unknown room simply has no bookings; callers check room existence.
func (c *Checker) Conflicts(ctx context.Context, roomID string, start, end time.Time, excludeBookingID string) ([]*model.Booking, error) {
	rng, err := NewDateRange(start, end)
	if err != nil {
		return nil, err
	}

	bookings, err := c.finder.FindByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for room %s: %w", roomID, err)
	}

	return Conflicts(bookings, roomID, rng, excludeBookingID), nil
}

func (c *Checker) IsRoomAvailable(ctx context.Context, roomID string, start, end time.Time, excludeBookingID string) (bool, error) {
	conflicts, err := c.Conflicts(ctx, roomID, start, end, excludeBookingID)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}
