package validators

import "go.mongodb.org/mongo-driver/bson"

var (
	objectID  = bson.M{"bsonType": "objectId"}
	refID     = bson.M{"bsonType": "string", "minLength": 24, "maxLength": 24}
	date      = bson.M{"bsonType": "date"}
	money     = bson.M{"bsonType": "decimal"}
	flag      = bson.M{"bsonType": "bool"}
	e164Phone = bson.M{"bsonType": "string", "pattern": `^\+[1-9][0-9]{6,14}$`}
)

func text(minLen, maxLen int) bson.M {
	return bson.M{"bsonType": "string", "minLength": minLen, "maxLength": maxLen}
}

func intRange(minimum, maximum int) bson.M {
	return bson.M{"bsonType": []string{"int", "long"}, "minimum": minimum, "maximum": maximum}
}

func schema(required []string, properties bson.M) bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":             "object",
			"required":             required,
			"additionalProperties": true,
			"properties":           properties,
		},
	}
}
