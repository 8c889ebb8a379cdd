package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking reserves a room for the nights in [CheckInDate, CheckOutDate).
type Booking struct {
	ID           string          `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RoomID       string          `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	GuestID      string          `json:"guest_id" bson:"guest_id" validate:"required,mongodb"`
	CheckInDate  time.Time       `json:"check_in_date" bson:"check_in_date" validate:"required"`
	CheckOutDate time.Time       `json:"check_out_date" bson:"check_out_date" validate:"required,gtfield=CheckInDate"`
	StatusID     BookingStatus   `json:"booking_status_id" bson:"booking_status_id" validate:"required,booking_status"`
	BasePrice    decimal.Decimal `json:"base_price" bson:"base_price" validate:"money"`
	TotalPrice   decimal.Decimal `json:"total_price" bson:"total_price" validate:"money"`
	GuestsCount  int             `json:"guests_count" bson:"guests_count" validate:"required,min=1,max=20"`
	Notes        string          `json:"notes,omitempty" bson:"notes,omitempty" validate:"max=1000"`
	CreatedAt    time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" bson:"updated_at"`
}

// Nights is the number of whole nights booked, at least 1.
func (b *Booking) Nights() int {
	n := int(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24)
	return max(n, 1)
}

type BookingUpdate struct {
	RoomID       string           `json:"room_id,omitempty" validate:"omitempty,mongodb"`
	GuestID      string           `json:"guest_id,omitempty" validate:"omitempty,mongodb"`
	CheckInDate  *time.Time       `json:"check_in_date,omitempty"`
	CheckOutDate *time.Time       `json:"check_out_date,omitempty"`
	StatusID     *BookingStatus   `json:"booking_status_id,omitempty" validate:"omitempty,booking_status"`
	BasePrice    *decimal.Decimal `json:"base_price,omitempty" validate:"omitempty,money"`
	GuestsCount  *int             `json:"guests_count,omitempty" validate:"omitempty,min=1,max=20"`
	Notes        *string          `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// QuickBooking books a room for a walk-in guest identified by phone.
type QuickBooking struct {
	RoomID       string          `json:"room_id" validate:"required,mongodb"`
	CheckInDate  time.Time       `json:"check_in_date" validate:"required"`
	CheckOutDate time.Time       `json:"check_out_date" validate:"required,gtfield=CheckInDate"`
	GuestsCount  int             `json:"guests_count" validate:"required,min=1,max=20"`
	FirstName    string          `json:"first_name" validate:"required,min=1,max=100"`
	LastName     string          `json:"last_name" validate:"required,min=1,max=100"`
	Phone        string          `json:"phone" validate:"required,e164"`
	Email        string          `json:"email,omitempty" validate:"omitempty,email"`
	BasePrice    decimal.Decimal `json:"base_price" validate:"money"`
	Notes        string          `json:"notes,omitempty" validate:"max=1000"`
}

// RoomLock is the advisory lock document taken per room while a booking
// for that room is checked and written. ID is the room id.
type RoomLock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// BookingFilter narrows booking listings. Zero values are ignored.
type BookingFilter struct {
	RoomID   string
	GuestID  string
	StatusID BookingStatus
}

// RoomAvailability answers whether a room is free for a date range and,
// when it is not, which bookings are in the way.
type RoomAvailability struct {
	RoomID    string     `json:"room_id"`
	CheckIn   time.Time  `json:"check_in"`
	CheckOut  time.Time  `json:"check_out"`
	Nights    int        `json:"nights"`
	Available bool       `json:"available"`
	Conflicts []*Booking `json:"conflicts"`
}
