package validator

import (
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
	"hotelier/pkg/validation"
)

type StayValidator struct {
	v *validation.Validator
}

func NewStayValidator(log *logger.Logger) *StayValidator {
	return &StayValidator{v: validation.New(log)}
}

func (v *StayValidator) Validate(stay *model.Stay) error {
	return v.v.Struct(stay)
}

func (v *StayValidator) ValidateCheckIn(req *model.CheckIn) error {
	return v.v.Struct(req)
}

func (v *StayValidator) ValidatePayment(payment *model.Payment) error {
	return v.v.Struct(payment)
}
