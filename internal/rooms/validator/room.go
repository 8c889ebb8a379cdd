package validator

import (
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
	"hotelier/pkg/validation"
)

type RoomValidator struct {
	v *validation.Validator
}

func NewRoomValidator(log *logger.Logger) *RoomValidator {
	return &RoomValidator{v: validation.New(log)}
}

func (v *RoomValidator) Validate(room *model.Room) error {
	if err := v.v.Struct(room); err != nil {
		return err
	}
	if room.PricePerNight.Sign() <= 0 {
		return validation.Field("price_per_night", "price_per_night must be greater than 0")
	}
	return nil
}

func (v *RoomValidator) ValidateUpdate(update *model.RoomUpdate) error {
	return v.v.Struct(update)
}
