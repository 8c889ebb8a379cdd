package validators

import "go.mongodb.org/mongo-driver/bson"

var RoomValidator = schema(
	[]string{"number", "room_type_id", "capacity", "price_per_night", "is_available"},
	bson.M{
		"_id":                  objectID,
		"number":               text(1, 10),
		"floor":                intRange(-5, 200),
		"room_type_id":         intRange(1, 5),
		"capacity":             intRange(1, 20),
		"price_per_night":      money,
		"is_available":         flag,
		"has_wifi":             flag,
		"has_air_conditioning": flag,
		"has_minibar":          flag,
		"has_balcony":          flag,
		"has_sea_view":         flag,
		"description":          text(0, 2000),
	},
)
