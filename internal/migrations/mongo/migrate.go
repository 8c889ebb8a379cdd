package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hotelier/internal/migrations/mongo/validators"
	"hotelier/pkg/logger"
)

var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

var (
	RoomsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "room_type_id", Value: 1}, {Key: "is_available", Value: 1}}},
	}

	GuestsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}}},
	}

	StaffIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "last_name", Value: 1}}},
	}

	ServicesIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetCollation(caseInsensitive),
		},
	}

	ServiceSalesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "stay_id", Value: 1}, {Key: "sold_at", Value: 1}}},
		{Keys: bson.D{{Key: "sold_at", Value: 1}}},
		{Keys: bson.D{{Key: "guest_id", Value: 1}}},
	}

	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "room_id", Value: 1},
			{Key: "check_in_date", Value: 1},
			{Key: "check_out_date", Value: 1},
		}},
		{Keys: bson.D{{Key: "guest_id", Value: 1}}},
		{Keys: bson.D{{Key: "booking_status_id", Value: 1}}},
	}

	StaysIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "actual_check_in_date", Value: 1}}},
	}

	// Expired locks are removed by the TTL monitor; the booking service
	// also takes over locks whose expires_at has passed.
	RoomLocksIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	}
)

type collectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

// Collections maps each collection to its indexes and $jsonSchema validator.
var Collections = map[string]collectionDef{
	"rooms":         {Indexes: RoomsIndexes, Validator: validators.RoomValidator},
	"guests":        {Indexes: GuestsIndexes, Validator: validators.GuestValidator},
	"staff":         {Indexes: StaffIndexes, Validator: validators.StaffValidator},
	"services":      {Indexes: ServicesIndexes, Validator: validators.ServiceValidator},
	"service_sales": {Indexes: ServiceSalesIndexes, Validator: validators.ServiceSaleValidator},
	"bookings":      {Indexes: BookingsIndexes, Validator: validators.BookingValidator},
	"stays":         {Indexes: StaysIndexes, Validator: validators.StayValidator},
	"room_locks":    {Indexes: RoomLocksIndexes, Validator: validators.RoomLockValidator},
}

func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	for name, def := range Collections {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied successfully", "collections", len(Collections))
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
