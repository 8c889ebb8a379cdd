package validators

import "go.mongodb.org/mongo-driver/bson"

var ServiceValidator = schema(
	[]string{"name", "price", "tax_percent", "is_active"},
	bson.M{
		"_id":         objectID,
		"name":        text(2, 100),
		"description": text(0, 1000),
		"price":       money,
		"tax_percent": money,
		"is_active":   flag,
	},
)

var ServiceSaleValidator = schema(
	[]string{"service_id", "quantity", "unit_price", "total_price", "tax_percent", "payment_status_id", "sold_at"},
	bson.M{
		"_id":               objectID,
		"stay_id":           refID,
		"guest_id":          refID,
		"service_id":        refID,
		"quantity":          intRange(1, 1000),
		"unit_price":        money,
		"total_price":       money,
		"tax_percent":       money,
		"payment_status_id": intRange(1, 4),
		"sold_at":           date,
	},
)
