package validator

import (
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
	"hotelier/pkg/validation"
)

type SaleValidator struct {
	v *validation.Validator
}

func NewSaleValidator(log *logger.Logger) *SaleValidator {
	return &SaleValidator{v: validation.New(log)}
}

func (v *SaleValidator) Validate(sale *model.ServiceSale) error {
	return v.v.Struct(sale)
}

// ValidatePricing runs once the price has been defaulted from the catalog.
func (v *SaleValidator) ValidatePricing(sale *model.ServiceSale) error {
	if sale.UnitPrice.Sign() <= 0 {
		return validation.Field("unit_price", "unit_price must be greater than 0")
	}
	return nil
}

func (v *SaleValidator) ValidateUpdate(update *model.ServiceSaleUpdate) error {
	return v.v.Struct(update)
}
