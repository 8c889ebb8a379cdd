package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = schema(
	[]string{
		"room_id",
		"guest_id",
		"check_in_date",
		"check_out_date",
		"booking_status_id",
		"base_price",
		"total_price",
		"guests_count",
		"created_at",
	},
	bson.M{
		"_id":               objectID,
		"room_id":           refID,
		"guest_id":          refID,
		"check_in_date":     date,
		"check_out_date":    date,
		"booking_status_id": intRange(1, 5),
		"base_price":        money,
		"total_price":       money,
		"guests_count":      intRange(1, 20),
		"notes":             text(0, 1000),
		"created_at":        date,
		"updated_at":        date,
	},
)

// RoomLockValidator keys locks by room id, so _id is a string here.
var RoomLockValidator = schema(
	[]string{"owner", "expires_at", "created_at"},
	bson.M{
		"_id":        refID,
		"owner":      text(1, 64),
		"expires_at": date,
		"created_at": date,
	},
)

var StayValidator = schema(
	[]string{"booking_id", "actual_check_in_date", "total_amount", "paid_amount", "tax_percent", "payment_status_id", "created_at"},
	bson.M{
		"_id":                   objectID,
		"booking_id":            refID,
		"actual_check_in_date":  date,
		"actual_check_out_date": date,
		"total_amount":          money,
		"paid_amount":           money,
		"tax_percent":           money,
		"payment_status_id":     intRange(1, 4),
		"created_at":            date,
	},
)
