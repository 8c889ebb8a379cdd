package repository

import (
	"context"
	"errors"

	roomserrors "hotelier/internal/rooms/errors"
	"hotelier/pkg/config"
	mongodb "hotelier/pkg/db/mongo"
	"hotelier/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "rooms"

type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	FindByID(ctx context.Context, id string) (*model.Room, error)
	FindByNumber(ctx context.Context, number string) (*model.Room, error)
	FindAll(ctx context.Context, filter model.RoomFilter, limit int, offset int64) ([]*model.Room, error)
	FindMatching(ctx context.Context, filter model.RoomFilter) ([]*model.Room, error)
	Count(ctx context.Context, filter model.RoomFilter) (int64, error)
	Update(ctx context.Context, id string, room *model.Room) error
	Delete(ctx context.Context, id string) error
}

type mongoRoomRepository struct {
	store *mongodb.Store[model.Room]
}

func NewMongoRoomRepository(cfg *config.Config) RoomRepository {
	return &mongoRoomRepository{
		store: mongodb.NewStore[model.Room](cfg.Database(), CollectionName, mongodb.StoreOptions{
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			ErrNotFound:  roomserrors.ErrNotFound,
			ErrInvalidID: roomserrors.ErrInvalidID,
		}),
	}
}

func (r *mongoRoomRepository) Create(ctx context.Context, room *model.Room) error {
	id, err := r.store.Insert(ctx, room)
	if err != nil {
		return err
	}
	room.ID = id
	return nil
}

func (r *mongoRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	return r.store.FindByID(ctx, id)
}

// FindByNumber returns nil, nil when no room carries number.
func (r *mongoRoomRepository) FindByNumber(ctx context.Context, number string) (*model.Room, error) {
	room, err := r.store.FindOne(ctx, bson.M{"number": number})
	if errors.Is(err, roomserrors.ErrNotFound) {
		return nil, nil
	}
	return room, err
}

func (r *mongoRoomRepository) FindAll(ctx context.Context, filter model.RoomFilter, limit int, offset int64) ([]*model.Room, error) {
	return r.store.FindPage(ctx, buildFilter(filter), roomSort(), limit, offset)
}

func (r *mongoRoomRepository) FindMatching(ctx context.Context, filter model.RoomFilter) ([]*model.Room, error) {
	return r.store.Find(ctx, buildFilter(filter), options.Find().SetSort(roomSort()))
}

func (r *mongoRoomRepository) Count(ctx context.Context, filter model.RoomFilter) (int64, error) {
	return r.store.Count(ctx, buildFilter(filter))
}

func (r *mongoRoomRepository) Update(ctx context.Context, id string, room *model.Room) error {
	return r.store.SetFields(ctx, id, bson.M{
		"number":               room.Number,
		"floor":                room.Floor,
		"room_type_id":         room.RoomTypeID,
		"capacity":             room.Capacity,
		"price_per_night":      room.PricePerNight,
		"is_available":         room.IsAvailable,
		"has_wifi":             room.HasWifi,
		"has_air_conditioning": room.HasAirConditioning,
		"has_minibar":          room.HasMinibar,
		"has_balcony":          room.HasBalcony,
		"has_sea_view":         room.HasSeaView,
		"description":          room.Description,
	})
}

func (r *mongoRoomRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}

func roomSort() bson.D {
	return bson.D{{Key: "floor", Value: 1}, {Key: "number", Value: 1}}
}

func buildFilter(f model.RoomFilter) bson.M {
	filter := bson.M{}

	if f.RoomTypeID != 0 {
		filter["room_type_id"] = f.RoomTypeID
	}
	if f.MinCapacity > 0 {
		filter["capacity"] = bson.M{"$gte": f.MinCapacity}
	}
	if f.OnlyAvailable {
		filter["is_available"] = true
	}

	flags := []struct {
		field string
		value *bool
	}{
		{"has_wifi", f.HasWifi},
		{"has_air_conditioning", f.HasAirConditioning},
		{"has_minibar", f.HasMinibar},
		{"has_balcony", f.HasBalcony},
		{"has_sea_view", f.HasSeaView},
	}
	for _, flag := range flags {
		if flag.value != nil {
			filter[flag.field] = *flag.value
		}
	}

	return filter
}

// IsDuplicateKey reports a unique index violation, e.g. on rooms.number.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
