// Package invoicing aggregates a stay's room charge and service sales into
// an invoice. All amounts are tax-inclusive; tax is extracted, not added.
package invoicing

import (
	"time"

	"github.com/shopspring/decimal"

	"hotelier/internal/availability"
	"hotelier/pkg/model"
)

var hundred = decimal.NewFromInt(100)

type ServiceLine struct {
	SaleID          string              `json:"sale_id"`
	ServiceID       string              `json:"service_id"`
	Quantity        int                 `json:"quantity"`
	UnitPrice       decimal.Decimal     `json:"unit_price"`
	TotalPrice      decimal.Decimal     `json:"total_price"`
	TaxPercent      decimal.Decimal     `json:"tax_percent"`
	TaxAmount       decimal.Decimal     `json:"tax_amount"`
	PaymentStatusID model.PaymentStatus `json:"payment_status_id"`
	Cancelled       bool                `json:"cancelled"`
	SoldAt          time.Time           `json:"sold_at"`
}

type Invoice struct {
	StayID       string    `json:"stay_id"`
	BookingID    string    `json:"booking_id"`
	RoomID       string    `json:"room_id"`
	GuestID      string    `json:"guest_id"`
	CheckInDate  time.Time `json:"check_in_date"`
	CheckOutDate time.Time `json:"check_out_date"`
	NumberOfDays int       `json:"number_of_days"`

	RoomCharges   decimal.Decimal `json:"room_charges"`
	RoomTaxAmount decimal.Decimal `json:"room_tax_amount"`

	ServiceLines         []ServiceLine   `json:"service_lines"`
	ServiceCharges       decimal.Decimal `json:"service_charges"`
	ServiceTaxAmount     decimal.Decimal `json:"service_tax_amount"`
	PaidServiceCharges   decimal.Decimal `json:"paid_service_charges"`
	UnpaidServiceCharges decimal.Decimal `json:"unpaid_service_charges"`

	TotalAmount      decimal.Decimal `json:"total_amount"`
	TotalTaxAmount   decimal.Decimal `json:"total_tax_amount"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// InclusiveTax is the tax contained in a gross amount at percent:
// amount * percent / (100 + percent). The result is not rounded.
func InclusiveTax(amount, percent decimal.Decimal) decimal.Decimal {
	if amount.IsZero() || percent.Sign() <= 0 {
		return decimal.Zero
	}
	return amount.Mul(percent).Div(hundred.Add(percent))
}

// Build computes the invoice for stay. Sales belonging to other stays or to
// no stay are ignored; cancelled sales are listed but add nothing.
// Monetary results are rounded half away from zero to cents once, at the end.
func Build(stay *model.Stay, booking *model.Booking, sales []*model.ServiceSale) *Invoice {
	inv := &Invoice{
		StayID:       stay.ID,
		BookingID:    booking.ID,
		RoomID:       booking.RoomID,
		GuestID:      booking.GuestID,
		CheckInDate:  booking.CheckInDate,
		CheckOutDate: booking.CheckOutDate,
		NumberOfDays: wholeDays(booking.CheckInDate, booking.CheckOutDate),
		ServiceLines: []ServiceLine{},
	}

	roomCharges := stay.TotalAmount
	roomTax := InclusiveTax(roomCharges, stay.TaxPercent)

	serviceCharges := decimal.Zero
	serviceTax := decimal.Zero
	paidService := decimal.Zero

	for _, sale := range sales {
		if sale == nil || sale.StayID == "" || sale.StayID != stay.ID {
			continue
		}

		cancelled := sale.PaymentStatusID == model.PaymentCancelled
		line := ServiceLine{
			SaleID:          sale.ID,
			ServiceID:       sale.ServiceID,
			Quantity:        sale.Quantity,
			UnitPrice:       sale.UnitPrice,
			TotalPrice:      sale.TotalPrice,
			TaxPercent:      sale.TaxPercent,
			TaxAmount:       decimal.Zero,
			PaymentStatusID: sale.PaymentStatusID,
			Cancelled:       cancelled,
			SoldAt:          sale.SoldAt,
		}

		if !cancelled {
			tax := InclusiveTax(sale.TotalPrice, sale.TaxPercent)
			line.TaxAmount = tax.Round(2)

			serviceCharges = serviceCharges.Add(sale.TotalPrice)
			serviceTax = serviceTax.Add(tax)
			if sale.PaymentStatusID == model.PaymentPaid {
				paidService = paidService.Add(sale.TotalPrice)
			}
		}

		inv.ServiceLines = append(inv.ServiceLines, line)
	}

	total := roomCharges.Add(serviceCharges)
	totalPaid := stay.PaidAmount.Add(paidService)
	remaining := total.Sub(totalPaid)
	if remaining.Sign() < 0 {
		remaining = decimal.Zero
	}

	inv.RoomCharges = roomCharges.Round(2)
	inv.RoomTaxAmount = roomTax.Round(2)
	inv.ServiceCharges = serviceCharges.Round(2)
	inv.ServiceTaxAmount = serviceTax.Round(2)
	inv.PaidServiceCharges = paidService.Round(2)
	inv.UnpaidServiceCharges = serviceCharges.Sub(paidService).Round(2)
	inv.TotalAmount = total.Round(2)
	inv.TotalTaxAmount = roomTax.Add(serviceTax).Round(2)
	inv.TotalPaid = totalPaid.Round(2)
	inv.RemainingBalance = remaining.Round(2)

	return inv
}

func wholeDays(checkIn, checkOut time.Time) int {
	days := int(availability.Day(checkOut).Sub(availability.Day(checkIn)).Hours() / 24)
	return max(days, 1)
}
