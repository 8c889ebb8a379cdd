package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dashboard summarizes activity for the nights in [From, To).
// OccupancyRate is a percentage of sellable room-nights.
type Dashboard struct {
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
	Nights int       `json:"nights"`

	BookingsByStatus map[string]int `json:"bookings_by_status"`
	TotalBookings    int            `json:"total_bookings"`

	Rooms            int64           `json:"rooms"`
	BookedRoomNights int             `json:"booked_room_nights"`
	OccupancyRate    decimal.Decimal `json:"occupancy_rate"`

	RoomRevenue        decimal.Decimal `json:"room_revenue"`
	ServiceRevenue     decimal.Decimal `json:"service_revenue"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
}
