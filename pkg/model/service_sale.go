package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceSale records a catalog service sold to a guest. StayID is empty
// for sales not charged to a stay; such sales never appear on an invoice.
type ServiceSale struct {
	ID              string          `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	StayID          string          `json:"stay_id,omitempty" bson:"stay_id,omitempty" validate:"omitempty,mongodb"`
	GuestID         string          `json:"guest_id,omitempty" bson:"guest_id,omitempty" validate:"omitempty,mongodb"`
	ServiceID       string          `json:"service_id" bson:"service_id" validate:"required,mongodb"`
	Quantity        int             `json:"quantity" bson:"quantity" validate:"required,min=1,max=1000"`
	UnitPrice       decimal.Decimal `json:"unit_price" bson:"unit_price" validate:"money"`
	TotalPrice      decimal.Decimal `json:"total_price" bson:"total_price" validate:"money"`
	TaxPercent      decimal.Decimal `json:"tax_percent" bson:"tax_percent" validate:"tax_percent"`
	PaymentStatusID PaymentStatus   `json:"payment_status_id" bson:"payment_status_id" validate:"required,payment_status"`
	SoldAt          time.Time       `json:"sold_at" bson:"sold_at"`
}

type ServiceSaleUpdate struct {
	Quantity        *int             `json:"quantity,omitempty" validate:"omitempty,min=1,max=1000"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty" validate:"omitempty,money"`
	TaxPercent      *decimal.Decimal `json:"tax_percent,omitempty" validate:"omitempty,tax_percent"`
	PaymentStatusID *PaymentStatus   `json:"payment_status_id,omitempty" validate:"omitempty,payment_status"`
}

// ServiceSaleFilter narrows sale listings. Zero values are ignored.
type ServiceSaleFilter struct {
	StayID          string
	GuestID         string
	ServiceID       string
	PaymentStatusID PaymentStatus
}
