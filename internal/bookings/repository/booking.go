package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingserrors "hotelier/internal/bookings/errors"
	"hotelier/pkg/config"
	mongodb "hotelier/pkg/db/mongo"
	"hotelier/pkg/model"
)

const CollectionName = "bookings"

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error)
	Count(ctx context.Context, filter model.BookingFilter) (int64, error)
	Update(ctx context.Context, id string, booking *model.Booking) error
	SetStatus(ctx context.Context, id string, status model.BookingStatus) error
	Delete(ctx context.Context, id string) error

	// FindByRoom returns the room's bookings that still hold dates.
	FindByRoom(ctx context.Context, roomID string) ([]*model.Booking, error)
	// FindOverlapping returns non-cancelled bookings sharing a night with
	// [start, end). roomID narrows the search when set.
	FindOverlapping(ctx context.Context, roomID string, start, end time.Time) ([]*model.Booking, error)
	// FindInRange returns every booking, whatever its status, that shares a
	// night with [start, end).
	FindInRange(ctx context.Context, start, end time.Time) ([]*model.Booking, error)
	HasActiveBookingsForRoom(ctx context.Context, roomID string) (bool, error)
	HasActiveBookingsForGuest(ctx context.Context, guestID string) (bool, error)

	ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error
}

type mongoBookingRepository struct {
	store     *mongodb.Store[model.Booking]
	txManager mongodb.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	return &mongoBookingRepository{
		store: mongodb.NewStore[model.Booking](cfg.Database(), CollectionName, mongodb.StoreOptions{
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			ErrNotFound:  bookingserrors.ErrNotFound,
			ErrInvalidID: bookingserrors.ErrInvalidID,
		}),
		txManager: mongodb.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	id, err := r.store.Insert(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	booking.ID = id
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return r.store.FindByID(ctx, id)
}

func (r *mongoBookingRepository) FindAll(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	sort := bson.D{{Key: "check_in_date", Value: -1}, {Key: "_id", Value: 1}}
	return r.store.FindPage(ctx, buildFilter(filter), sort, limit, offset)
}

func (r *mongoBookingRepository) Count(ctx context.Context, filter model.BookingFilter) (int64, error) {
	return r.store.Count(ctx, buildFilter(filter))
}

func (r *mongoBookingRepository) Update(ctx context.Context, id string, booking *model.Booking) error {
	booking.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	return r.store.SetFields(ctx, id, bson.M{
		"room_id":           booking.RoomID,
		"guest_id":          booking.GuestID,
		"check_in_date":     booking.CheckInDate,
		"check_out_date":    booking.CheckOutDate,
		"booking_status_id": booking.StatusID,
		"base_price":        booking.BasePrice,
		"total_price":       booking.TotalPrice,
		"guests_count":      booking.GuestsCount,
		"notes":             booking.Notes,
		"updated_at":        booking.UpdatedAt,
	})
}

func (r *mongoBookingRepository) SetStatus(ctx context.Context, id string, status model.BookingStatus) error {
	return r.store.SetFields(ctx, id, bson.M{
		"booking_status_id": status,
		"updated_at":        time.Now().UTC().Truncate(time.Millisecond),
	})
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}

func (r *mongoBookingRepository) FindByRoom(ctx context.Context, roomID string) ([]*model.Booking, error) {
	filter := bson.M{
		"room_id":           roomID,
		"booking_status_id": bson.M{"$ne": model.BookingCancelled},
	}
	return r.store.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "check_in_date", Value: 1}}))
}

func (r *mongoBookingRepository) FindOverlapping(ctx context.Context, roomID string, start, end time.Time) ([]*model.Booking, error) {
	filter := overlapFilter(start, end)
	filter["booking_status_id"] = bson.M{"$ne": model.BookingCancelled}
	if roomID != "" {
		filter["room_id"] = roomID
	}
	return r.store.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "check_in_date", Value: 1}}))
}

func (r *mongoBookingRepository) FindInRange(ctx context.Context, start, end time.Time) ([]*model.Booking, error) {
	return r.store.Find(ctx, overlapFilter(start, end))
}

func (r *mongoBookingRepository) HasActiveBookingsForRoom(ctx context.Context, roomID string) (bool, error) {
	return r.store.Exists(ctx, bson.M{"room_id": roomID, "booking_status_id": activeStatuses()})
}

func (r *mongoBookingRepository) HasActiveBookingsForGuest(ctx context.Context, guestID string) (bool, error) {
	return r.store.Exists(ctx, bson.M{"guest_id": guestID, "booking_status_id": activeStatuses()})
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

// overlapFilter matches half-open intervals: a booking leaving on start
// does not overlap.
func overlapFilter(start, end time.Time) bson.M {
	return bson.M{
		"check_in_date":  bson.M{"$lt": end},
		"check_out_date": bson.M{"$gt": start},
	}
}

func activeStatuses() bson.M {
	return bson.M{"$in": bson.A{model.BookingPending, model.BookingConfirmed, model.BookingCheckedIn}}
}

func buildFilter(f model.BookingFilter) bson.M {
	filter := bson.M{}
	if f.RoomID != "" {
		filter["room_id"] = f.RoomID
	}
	if f.GuestID != "" {
		filter["guest_id"] = f.GuestID
	}
	if f.StatusID != 0 {
		filter["booking_status_id"] = f.StatusID
	}
	return filter
}
