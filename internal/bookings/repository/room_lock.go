package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "hotelier/internal/bookings/errors"
	"hotelier/pkg/config"
	mongodb "hotelier/pkg/db/mongo"
	"hotelier/pkg/model"
)

const LockCollectionName = "room_locks"

// RoomLockRepository holds one advisory lock document per room while a
// booking for that room is checked and written.
type RoomLockRepository interface {
	Acquire(ctx context.Context, roomID string) (owner string, err error)
	Release(ctx context.Context, roomID, owner string) error
}

type mongoRoomLockRepository struct {
	collection   *mongo.Collection
	ttl          time.Duration
	writeTimeout time.Duration
}

func NewRoomLockRepository(cfg *config.Config) RoomLockRepository {
	return &mongoRoomLockRepository{
		collection:   cfg.Database().Collection(LockCollectionName),
		ttl:          cfg.BookingLockTTL,
		writeTimeout: cfg.WriteTimeout,
	}
}

// Acquire inserts the lock document keyed by roomID. A live lock held by
// someone else yields ErrRoomLocked. An expired lock that the TTL monitor
// has not yet removed is taken over.
func (r *mongoRoomLockRepository) Acquire(ctx context.Context, roomID string) (string, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	now := time.Now().UTC()
	lock := &model.RoomLock{
		ID:        roomID,
		Owner:     uuid.NewString(),
		ExpiresAt: now.Add(r.ttl),
		CreatedAt: now,
	}

	err := r.insert(ctx, lock)
	if !errors.Is(err, bookingserrors.ErrRoomLocked) {
		return lock.Owner, err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": roomID, "expires_at": bson.M{"$lte": now}})
	if err != nil {
		return "", fmt.Errorf("failed to clear expired room lock: %w", err)
	}
	if result.DeletedCount == 0 {
		return "", bookingserrors.ErrRoomLocked
	}

	return lock.Owner, r.insert(ctx, lock)
}

func (r *mongoRoomLockRepository) insert(ctx context.Context, lock *model.RoomLock) error {
	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrRoomLocked
		}
		return fmt.Errorf("failed to acquire room lock: %w", err)
	}
	return nil
}

// Release deletes the lock only if owner still holds it.
func (r *mongoRoomLockRepository) Release(ctx context.Context, roomID, owner string) error {
	ctx, cancel := mongodb.WithTimeout(context.WithoutCancel(ctx), r.writeTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": roomID, "owner": owner}); err != nil {
		return fmt.Errorf("failed to release room lock: %w", err)
	}
	return nil
}
