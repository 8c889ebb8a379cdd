package validator

import (
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
	"hotelier/pkg/validation"
)

type ServiceValidator struct {
	v *validation.Validator
}

func NewServiceValidator(log *logger.Logger) *ServiceValidator {
	return &ServiceValidator{v: validation.New(log)}
}

func (v *ServiceValidator) Validate(svc *model.Service) error {
	return v.v.Struct(svc)
}

func (v *ServiceValidator) ValidateUpdate(update *model.ServiceUpdate) error {
	return v.v.Struct(update)
}
