package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stay is the actual occupancy that follows a booking's check-in.
// TotalAmount is the authoritative room charge, tax included.
type Stay struct {
	ID                 string          `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID          string          `json:"booking_id" bson:"booking_id" validate:"required,mongodb"`
	ActualCheckInDate  time.Time       `json:"actual_check_in_date" bson:"actual_check_in_date"`
	ActualCheckOutDate *time.Time      `json:"actual_check_out_date,omitempty" bson:"actual_check_out_date,omitempty"`
	TotalAmount        decimal.Decimal `json:"total_amount" bson:"total_amount" validate:"money"`
	PaidAmount         decimal.Decimal `json:"paid_amount" bson:"paid_amount" validate:"money"`
	TaxPercent         decimal.Decimal `json:"tax_percent" bson:"tax_percent" validate:"tax_percent"`
	PaymentStatusID    PaymentStatus   `json:"payment_status_id" bson:"payment_status_id" validate:"required,payment_status"`
	CreatedAt          time.Time       `json:"created_at" bson:"created_at"`
}

// CheckIn opens a stay from a booking.
type CheckIn struct {
	BookingID  string           `json:"booking_id" validate:"required,mongodb"`
	PaidAmount *decimal.Decimal `json:"paid_amount,omitempty" validate:"omitempty,money"`
	TaxPercent *decimal.Decimal `json:"tax_percent,omitempty" validate:"omitempty,tax_percent"`
}

type Payment struct {
	Amount decimal.Decimal `json:"amount" validate:"positive_money"`
}

// PaymentStatusFor derives a stay's payment status from what is owed and paid.
func PaymentStatusFor(total, paid decimal.Decimal) PaymentStatus {
	switch {
	case paid.Sign() <= 0 && total.Sign() > 0:
		return PaymentUnpaid
	case paid.LessThan(total):
		return PaymentPartiallyPaid
	default:
		return PaymentPaid
	}
}

// StayFilter narrows stay listings. Open selects stays without (true) or
// with (false) a check-out; nil ignores it.
type StayFilter struct {
	BookingID       string
	PaymentStatusID PaymentStatus
	Open            *bool
}
