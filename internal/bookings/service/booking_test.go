package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "hotelier/internal/bookings/errors"
	"hotelier/internal/bookings/validator"
	"hotelier/pkg/config"
	mongodb "hotelier/pkg/db/mongo"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/events"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
)

const (
	roomID    = "665f1c2b9d1e4a0000000001"
	otherRoom = "665f1c2b9d1e4a0000000002"
	guestID   = "665f1c2b9d1e4a00000000a1"
	bookingID = "665f1c2b9d1e4a00000000b1"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockBookingRepository struct {
	mu       sync.Mutex
	bookings map[string]*model.Booking
	nextID   int

	findByRoomErr error
	txCalls       int
}

func newMockRepo(existing ...*model.Booking) *mockBookingRepository {
	m := &mockBookingRepository{bookings: map[string]*model.Booking{}}
	for _, b := range existing {
		cp := *b
		m.bookings[b.ID] = &cp
	}
	return m
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	booking.ID = "new-" + string(rune('0'+m.nextID))
	cp := *booking
	m.bookings[booking.ID] = &cp
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *mockBookingRepository) FindAll(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) Count(ctx context.Context, filter model.BookingFilter) (int64, error) {
	return int64(len(m.bookings)), nil
}

func (m *mockBookingRepository) Update(ctx context.Context, id string, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return bookingserrors.ErrNotFound
	}
	cp := *booking
	m.bookings[id] = &cp
	return nil
}

func (m *mockBookingRepository) SetStatus(ctx context.Context, id string, status model.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return bookingserrors.ErrNotFound
	}
	b.StatusID = status
	return nil
}

func (m *mockBookingRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return bookingserrors.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

func (m *mockBookingRepository) FindByRoom(ctx context.Context, roomID string) ([]*model.Booking, error) {
	if m.findByRoomErr != nil {
		return nil, m.findByRoomErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.bookings {
		if b.RoomID == roomID && b.StatusID != model.BookingCancelled {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockBookingRepository) FindOverlapping(ctx context.Context, roomID string, start, end time.Time) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) FindInRange(ctx context.Context, start, end time.Time) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) HasActiveBookingsForRoom(ctx context.Context, roomID string) (bool, error) {
	return false, nil
}

func (m *mockBookingRepository) HasActiveBookingsForGuest(ctx context.Context, guestID string) (bool, error) {
	return false, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error {
	m.txCalls++
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockLocks struct {
	acquireErr error
	acquired   []string
	released   []string
}

func (m *mockLocks) Acquire(ctx context.Context, roomID string) (string, error) {
	if m.acquireErr != nil {
		return "", m.acquireErr
	}
	m.acquired = append(m.acquired, roomID)
	return "owner-1", nil
}

func (m *mockLocks) Release(ctx context.Context, roomID, owner string) error {
	m.released = append(m.released, roomID)
	return nil
}

type mockRooms struct {
	rooms map[string]*model.Room
}

func (m *mockRooms) GetByID(ctx context.Context, id string) (*model.Room, error) {
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, apperrors.NotFoundWithID("Room", id)
}

type mockGuests struct {
	created *model.Guest
}

func (m *mockGuests) GetByID(ctx context.Context, id string) (*model.Guest, error) {
	if id == guestID {
		return &model.Guest{ID: id}, nil
	}
	return nil, apperrors.NotFoundWithID("Guest", id)
}

func (m *mockGuests) FindOrCreateByPhone(ctx context.Context, guest *model.Guest) (*model.Guest, error) {
	guest.ID = guestID
	m.created = guest
	return guest, nil
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, topic string, event events.Event) error {
	p.events = append(p.events, event)
	return nil
}

type fixture struct {
	svc   BookingService
	repo  *mockBookingRepository
	locks *mockLocks
	pub   *recordingPublisher
	guest *mockGuests
	rooms *mockRooms
}

func newFixture(existing ...*model.Booking) *fixture {
	log := logger.NewNop()
	f := &fixture{
		repo:  newMockRepo(existing...),
		locks: &mockLocks{},
		pub:   &recordingPublisher{},
		guest: &mockGuests{},
	}
	f.rooms = &mockRooms{rooms: map[string]*model.Room{
		roomID:    {ID: roomID, Number: "101", Capacity: 2, PricePerNight: decimal.NewFromInt(100), IsAvailable: true},
		otherRoom: {ID: otherRoom, Number: "102", Capacity: 4, PricePerNight: decimal.NewFromInt(150), IsAvailable: true},
	}}
	cfg := &config.Config{Log: log, KafkaTopicBookings: "hotel.bookings"}
	f.svc = NewBookingService(f.repo, f.locks, f.rooms, f.guest, f.pub, validator.NewBookingValidator(log), cfg)
	return f
}

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func existingBooking(id, in, out string, status model.BookingStatus) *model.Booking {
	return &model.Booking{
		ID:           id,
		RoomID:       roomID,
		GuestID:      guestID,
		CheckInDate:  date(in),
		CheckOutDate: date(out),
		StatusID:     status,
		BasePrice:    decimal.NewFromInt(100),
		TotalPrice:   decimal.NewFromInt(200),
		GuestsCount:  1,
	}
}

func newBooking(in, out string) *model.Booking {
	return &model.Booking{
		RoomID:       roomID,
		GuestID:      guestID,
		CheckInDate:  date(in),
		CheckOutDate: date(out),
		GuestsCount:  2,
	}
}

func appCode(err error) string {
	if err == nil {
		return ""
	}
	return apperrors.AsAppError(err).Code
}

// ────────────────────────────────────────────────
// Create
// ────────────────────────────────────────────────

func TestCreate_DefaultsFromRoom(t *testing.T) {
	f := newFixture()

	b := newBooking("2026-07-01", "2026-07-04")
	b.CheckInDate = b.CheckInDate.Add(15 * time.Hour)
	if err := f.svc.Create(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b.StatusID != model.BookingPending {
		t.Errorf("expected pending, got %v", b.StatusID)
	}
	if !b.CheckInDate.Equal(date("2026-07-01")) {
		t.Errorf("check-in not normalized to the day: %v", b.CheckInDate)
	}
	if !b.BasePrice.Equal(decimal.NewFromInt(100)) || !b.TotalPrice.Equal(decimal.NewFromInt(300)) {
		t.Errorf("unexpected pricing base=%s total=%s", b.BasePrice, b.TotalPrice)
	}
	if len(f.locks.acquired) != 1 || len(f.locks.released) != 1 {
		t.Errorf("lock not acquired and released: %+v", f.locks)
	}
	if f.repo.txCalls != 1 {
		t.Errorf("expected one transaction, got %d", f.repo.txCalls)
	}
	if len(f.pub.events) != 1 || f.pub.events[0].Type != events.BookingCreated {
		t.Errorf("expected booking.created event, got %+v", f.pub.events)
	}
}

func TestCreate_KeepsGivenPrice(t *testing.T) {
	f := newFixture()

	b := newBooking("2026-07-01", "2026-07-04")
	b.BasePrice = decimal.NewFromInt(80)
	if err := f.svc.Create(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !b.BasePrice.Equal(decimal.NewFromInt(80)) || !b.TotalPrice.Equal(decimal.NewFromInt(240)) {
		t.Errorf("unexpected pricing base=%s total=%s", b.BasePrice, b.TotalPrice)
	}
	stored, _ := f.repo.FindByID(context.Background(), b.ID)
	if !stored.BasePrice.Equal(decimal.NewFromInt(80)) || !stored.TotalPrice.Equal(decimal.NewFromInt(240)) {
		t.Errorf("unexpected stored pricing base=%s total=%s", stored.BasePrice, stored.TotalPrice)
	}
}

func TestCreate_RoomClosedForSale(t *testing.T) {
	f := newFixture()
	f.rooms.rooms[roomID].IsAvailable = false

	err := f.svc.Create(context.Background(), newBooking("2026-07-01", "2026-07-03"))
	if appCode(err) != apperrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(f.repo.bookings) != 0 {
		t.Error("no booking expected in a closed room")
	}
}

func TestCreate_Overlap(t *testing.T) {
	tests := []struct {
		name     string
		in, out  string
		wantCode string
	}{
		{"nested", "2026-07-11", "2026-07-12", apperrors.CodeConflict},
		{"left edge", "2026-07-08", "2026-07-11", apperrors.CodeConflict},
		{"right edge", "2026-07-14", "2026-07-16", apperrors.CodeConflict},
		{"covering", "2026-07-01", "2026-07-30", apperrors.CodeConflict},
		{"touching before", "2026-07-05", "2026-07-10", ""},
		{"touching after", "2026-07-15", "2026-07-18", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(existingBooking(bookingID, "2026-07-10", "2026-07-15", model.BookingConfirmed))

			b := newBooking(tt.in, tt.out)
			err := f.svc.Create(context.Background(), b)
			if appCode(err) != tt.wantCode {
				t.Fatalf("expected %q, got %v", tt.wantCode, err)
			}
			if tt.wantCode == apperrors.CodeConflict {
				if !strings.Contains(err.Error(), "2026-07-10") || !strings.Contains(err.Error(), "2026-07-15") {
					t.Errorf("conflict should name the booked dates: %v", err)
				}
				if len(f.pub.events) != 0 {
					t.Error("no event expected on conflict")
				}
			}
			if len(f.locks.released) != 1 {
				t.Error("lock must be released on every path")
			}
		})
	}
}

func TestCreate_CancelledBookingDoesNotBlock(t *testing.T) {
	f := newFixture(existingBooking(bookingID, "2026-07-10", "2026-07-15", model.BookingCancelled))

	if err := f.svc.Create(context.Background(), newBooking("2026-07-11", "2026-07-13")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreate_RoomLocked(t *testing.T) {
	f := newFixture()
	f.locks.acquireErr = bookingserrors.ErrRoomLocked

	err := f.svc.Create(context.Background(), newBooking("2026-07-01", "2026-07-02"))
	if appCode(err) != apperrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if f.repo.txCalls != 0 {
		t.Error("transaction must not start without the lock")
	}
}

func TestCreate_CheckFailureIsInternal(t *testing.T) {
	f := newFixture()
	f.repo.findByRoomErr = errors.New("socket closed")

	err := f.svc.Create(context.Background(), newBooking("2026-07-01", "2026-07-02"))
	if appCode(err) != apperrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
	if len(f.repo.bookings) != 0 {
		t.Error("booking must not be written when the overlap check fails")
	}
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(b *model.Booking)
		wantCode string
	}{
		{"same day", func(b *model.Booking) { b.CheckOutDate = b.CheckInDate.Add(3 * time.Hour) }, apperrors.CodeValidation},
		{"inverted", func(b *model.Booking) { b.CheckInDate, b.CheckOutDate = b.CheckOutDate, b.CheckInDate }, apperrors.CodeValidation},
		{"over capacity", func(b *model.Booking) { b.GuestsCount = 3 }, apperrors.CodeValidation},
		{"created cancelled", func(b *model.Booking) { b.StatusID = model.BookingCancelled }, apperrors.CodeValidation},
		{"unknown guest", func(b *model.Booking) { b.GuestID = "665f1c2b9d1e4a00000000ff" }, apperrors.CodeNotFound},
		{"unknown room", func(b *model.Booking) { b.RoomID = "665f1c2b9d1e4a00000000ff" }, apperrors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			b := newBooking("2026-07-01", "2026-07-03")
			tt.mutate(b)

			err := f.svc.Create(context.Background(), b)
			if appCode(err) != tt.wantCode {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestQuickBook(t *testing.T) {
	f := newFixture()

	booking, err := f.svc.QuickBook(context.Background(), &model.QuickBooking{
		RoomID:       otherRoom,
		CheckInDate:  date("2026-08-01"),
		CheckOutDate: date("2026-08-03"),
		GuestsCount:  3,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Phone:        "020 7123 4567",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.guest.created == nil || f.guest.created.Phone != "+442071234567" {
		t.Errorf("guest not resolved by normalized phone: %+v", f.guest.created)
	}
	if booking.GuestID != guestID || booking.StatusID != model.BookingConfirmed {
		t.Errorf("unexpected booking %+v", booking)
	}
	if !booking.TotalPrice.Equal(decimal.NewFromInt(300)) {
		t.Errorf("expected total 300, got %s", booking.TotalPrice)
	}
}

// ────────────────────────────────────────────────
// Update / Cancel / Delete
// ────────────────────────────────────────────────

func TestQuickBook_KeepsGivenPrice(t *testing.T) {
	f := newFixture()

	booking, err := f.svc.QuickBook(context.Background(), &model.QuickBooking{
		RoomID:       roomID,
		CheckInDate:  date("2026-07-01"),
		CheckOutDate: date("2026-07-04"),
		GuestsCount:  1,
		FirstName:    "Grace",
		LastName:     "Hopper",
		Phone:        "+442071234567",
		BasePrice:    decimal.NewFromInt(80),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !booking.BasePrice.Equal(decimal.NewFromInt(80)) || !booking.TotalPrice.Equal(decimal.NewFromInt(240)) {
		t.Errorf("unexpected pricing base=%s total=%s", booking.BasePrice, booking.TotalPrice)
	}
}

func TestUpdate_ExcludesItselfFromOverlap(t *testing.T) {
	f := newFixture(existingBooking(bookingID, "2026-07-10", "2026-07-15", model.BookingConfirmed))

	out := date("2026-07-16")
	booking, err := f.svc.Update(context.Background(), bookingID, &model.BookingUpdate{CheckOutDate: &out})
	if err != nil {
		t.Fatalf("extending a booking over its own dates must succeed: %v", err)
	}
	if !booking.TotalPrice.Equal(decimal.NewFromInt(600)) {
		t.Errorf("expected total recomputed to 600, got %s", booking.TotalPrice)
	}
}

func TestUpdate_MoveRoomTakesRoomRate(t *testing.T) {
	f := newFixture(existingBooking(bookingID, "2026-07-10", "2026-07-12", model.BookingPending))

	booking, err := f.svc.Update(context.Background(), bookingID, &model.BookingUpdate{RoomID: otherRoom})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !booking.BasePrice.Equal(decimal.NewFromInt(150)) || !booking.TotalPrice.Equal(decimal.NewFromInt(300)) {
		t.Errorf("unexpected pricing base=%s total=%s", booking.BasePrice, booking.TotalPrice)
	}
	if len(f.locks.acquired) != 1 || f.locks.acquired[0] != otherRoom {
		t.Errorf("expected the target room to be locked, got %v", f.locks.acquired)
	}
}

func TestUpdate_RoomClosedForSale(t *testing.T) {
	t.Run("same room stays editable", func(t *testing.T) {
		f := newFixture(existingBooking(bookingID, "2026-07-10", "2026-07-12", model.BookingCheckedIn))
		f.rooms.rooms[roomID].IsAvailable = false

		notes := "late arrival"
		guests := 2
		booking, err := f.svc.Update(context.Background(), bookingID, &model.BookingUpdate{Notes: &notes, GuestsCount: &guests})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if booking.Notes != notes || booking.GuestsCount != 2 {
			t.Errorf("update not applied: %+v", booking)
		}
		if !booking.BasePrice.Equal(decimal.NewFromInt(100)) {
			t.Errorf("price should be kept, got %s", booking.BasePrice)
		}
	})

	t.Run("move into closed room", func(t *testing.T) {
		f := newFixture(existingBooking(bookingID, "2026-07-10", "2026-07-12", model.BookingConfirmed))
		f.rooms.rooms[otherRoom].IsAvailable = false

		_, err := f.svc.Update(context.Background(), bookingID, &model.BookingUpdate{RoomID: otherRoom})
		if appCode(err) != apperrors.CodeConflict {
			t.Fatalf("expected conflict, got %v", err)
		}
	})
}

func TestUpdate_StatusRules(t *testing.T) {
	tests := []struct {
		name     string
		from     model.BookingStatus
		to       model.BookingStatus
		wantCode string
	}{
		{"confirm", model.BookingPending, model.BookingConfirmed, ""},
		{"cancel", model.BookingConfirmed, model.BookingCancelled, ""},
		{"check in via patch", model.BookingConfirmed, model.BookingCheckedIn, apperrors.CodeValidation},
		{"revive cancelled", model.BookingCancelled, model.BookingConfirmed, apperrors.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(existingBooking(bookingID, "2026-07-10", "2026-07-12", tt.from))
			to := tt.to
			_, err := f.svc.Update(context.Background(), bookingID, &model.BookingUpdate{StatusID: &to})
			if appCode(err) != tt.wantCode {
				t.Errorf("expected %q, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestCancel(t *testing.T) {
	f := newFixture(existingBooking(bookingID, "2026-07-10", "2026-07-12", model.BookingConfirmed))

	booking, err := f.svc.Cancel(context.Background(), bookingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.StatusID != model.BookingCancelled {
		t.Errorf("expected cancelled, got %v", booking.StatusID)
	}
	if len(f.pub.events) != 1 || f.pub.events[0].Type != events.BookingCancelled {
		t.Errorf("expected booking.cancelled event, got %+v", f.pub.events)
	}

	// The freed nights can be booked again.
	if err := f.svc.Create(context.Background(), newBooking("2026-07-10", "2026-07-12")); err != nil {
		t.Errorf("expected cancelled dates to be bookable: %v", err)
	}

	if _, err := f.svc.Cancel(context.Background(), bookingID); appCode(err) != "" {
		t.Errorf("cancelling twice should be a no-op, got %v", err)
	}
}

func TestTransition_CheckInThenComplete(t *testing.T) {
	f := newFixture(existingBooking(bookingID, "2026-07-10", "2026-07-12", model.BookingConfirmed))

	if _, err := f.svc.Transition(context.Background(), bookingID, model.BookingCompleted); appCode(err) != apperrors.CodeConflict {
		t.Errorf("confirmed booking must not complete directly, got %v", err)
	}
	if _, err := f.svc.Transition(context.Background(), bookingID, model.BookingCheckedIn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := f.svc.Transition(context.Background(), bookingID, model.BookingCompleted)
	if err != nil || b.StatusID != model.BookingCompleted {
		t.Fatalf("expected completed, got %v %v", b, err)
	}
	if len(f.pub.events) != 0 {
		t.Error("transitions publish nothing themselves")
	}
}

func TestDelete(t *testing.T) {
	f := newFixture(
		existingBooking(bookingID, "2026-07-10", "2026-07-12", model.BookingPending),
		existingBooking("checked-in", "2026-07-01", "2026-07-03", model.BookingCheckedIn),
	)

	if err := f.svc.Delete(context.Background(), "checked-in"); appCode(err) != apperrors.CodeConflict {
		t.Errorf("expected conflict deleting a checked-in booking, got %v", err)
	}
	if err := f.svc.Delete(context.Background(), bookingID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.svc.Delete(context.Background(), bookingID); appCode(err) != apperrors.CodeNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

// ────────────────────────────────────────────────
// Queries
// ────────────────────────────────────────────────

func TestRoomAvailability(t *testing.T) {
	f := newFixture(existingBooking(bookingID, "2026-07-10", "2026-07-15", model.BookingConfirmed))

	res, err := f.svc.RoomAvailability(context.Background(), roomID, date("2026-07-12"), date("2026-07-14"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Available || len(res.Conflicts) != 1 || res.Nights != 2 {
		t.Errorf("unexpected result %+v", res)
	}

	res, err = f.svc.RoomAvailability(context.Background(), roomID, date("2026-07-12"), date("2026-07-14"), bookingID)
	if err != nil || !res.Available || res.Conflicts == nil {
		t.Errorf("excluded booking must not block: %+v %v", res, err)
	}

	if _, err := f.svc.RoomAvailability(context.Background(), roomID, date("2026-07-14"), date("2026-07-12"), ""); appCode(err) != apperrors.CodeValidation {
		t.Errorf("expected validation error for inverted range, got %v", err)
	}
}

func TestSearch_InvalidRange(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Search(context.Background(), "", date("2026-07-14"), date("2026-07-14")); appCode(err) != apperrors.CodeValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}
