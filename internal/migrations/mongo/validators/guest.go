package validators

import "go.mongodb.org/mongo-driver/bson"

var GuestValidator = schema(
	[]string{"first_name", "last_name", "phone", "created_at"},
	bson.M{
		"_id":             objectID,
		"first_name":      text(1, 100),
		"last_name":       text(1, 100),
		"phone":           e164Phone,
		"email":           text(3, 254),
		"document_number": text(3, 50),
		"date_of_birth":   date,
		"created_at":      date,
	},
)

var StaffValidator = schema(
	[]string{"first_name", "last_name", "position", "hire_date", "salary", "is_active"},
	bson.M{
		"_id":        objectID,
		"first_name": text(1, 100),
		"last_name":  text(1, 100),
		"position":   text(2, 100),
		"phone":      e164Phone,
		"email":      text(3, 254),
		"hire_date":  date,
		"salary":     money,
		"is_active":  flag,
	},
)
