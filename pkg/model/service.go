package model

import "github.com/shopspring/decimal"

// Service is a catalog entry that can be sold to a stay (breakfast,
// laundry, spa).
type Service struct {
	ID          string          `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string          `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description string          `json:"description,omitempty" bson:"description,omitempty" validate:"max=1000"`
	Price       decimal.Decimal `json:"price" bson:"price" validate:"money"`
	TaxPercent  decimal.Decimal `json:"tax_percent" bson:"tax_percent" validate:"tax_percent"`
	IsActive    bool            `json:"is_active" bson:"is_active"`
}

type ServiceUpdate struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=1000"`
	Price       *decimal.Decimal `json:"price,omitempty" validate:"omitempty,money"`
	TaxPercent  *decimal.Decimal `json:"tax_percent,omitempty" validate:"omitempty,tax_percent"`
	IsActive    *bool            `json:"is_active,omitempty"`
}
