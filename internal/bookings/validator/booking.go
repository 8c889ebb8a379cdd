package validator

import (
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
	"hotelier/pkg/validation"
)

type BookingValidator struct {
	v *validation.Validator
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{v: validation.New(log)}
}

// Validate checks a booking's own fields. Dates must already be
// normalized to whole days.
func (v *BookingValidator) Validate(booking *model.Booking) error {
	return v.v.Struct(booking)
}

func (v *BookingValidator) ValidateUpdate(update *model.BookingUpdate) error {
	return v.v.Struct(update)
}

func (v *BookingValidator) ValidateQuick(quick *model.QuickBooking) error {
	return v.v.Struct(quick)
}

// ValidateForRoom checks the booking against the room it reserves, once
// the price has been defaulted from the room rate.
func (v *BookingValidator) ValidateForRoom(booking *model.Booking, room *model.Room) error {
	if booking.GuestsCount > room.Capacity {
		return validation.Field("guests_count", "guests_count exceeds the room capacity")
	}
	if booking.BasePrice.Sign() <= 0 {
		return validation.Field("base_price", "base_price must be greater than 0")
	}
	return nil
}
