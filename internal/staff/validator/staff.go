package validator

import (
	"time"

	"hotelier/pkg/logger"
	"hotelier/pkg/model"
	"hotelier/pkg/validation"
)

type StaffValidator struct {
	v *validation.Validator
}

func NewStaffValidator(log *logger.Logger) *StaffValidator {
	return &StaffValidator{v: validation.New(log)}
}

func (v *StaffValidator) Validate(member *model.Staff) error {
	if err := v.v.Struct(member); err != nil {
		return err
	}
	// Hires may be entered up to a year ahead of the start date.
	if member.HireDate.After(time.Now().AddDate(1, 0, 0)) {
		return validation.Field("hire_date", "hire_date cannot be more than a year in the future")
	}
	return nil
}

func (v *StaffValidator) ValidateUpdate(update *model.StaffUpdate) error {
	return v.v.Struct(update)
}
