package validator

import (
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
	"hotelier/pkg/validation"
)

type GuestValidator struct {
	v *validation.Validator
}

func NewGuestValidator(log *logger.Logger) *GuestValidator {
	return &GuestValidator{v: validation.New(log)}
}

func (v *GuestValidator) Validate(guest *model.Guest) error {
	return v.v.Struct(guest)
}

func (v *GuestValidator) ValidateUpdate(update *model.GuestUpdate) error {
	return v.v.Struct(update)
}
