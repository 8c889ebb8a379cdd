package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	stayserrors "hotelier/internal/stays/errors"
	"hotelier/pkg/config"
	mongodb "hotelier/pkg/db/mongo"
	"hotelier/pkg/model"
)

const CollectionName = "stays"

type StayRepository interface {
	Create(ctx context.Context, stay *model.Stay) error
	FindByID(ctx context.Context, id string) (*model.Stay, error)
	// FindByBookingID returns nil, nil when the booking has no stay.
	FindByBookingID(ctx context.Context, bookingID string) (*model.Stay, error)
	FindAll(ctx context.Context, filter model.StayFilter, limit int, offset int64) ([]*model.Stay, error)
	Count(ctx context.Context, filter model.StayFilter) (int64, error)
	// FindCheckedInBetween returns stays whose actual check-in falls in [start, end).
	FindCheckedInBetween(ctx context.Context, start, end time.Time) ([]*model.Stay, error)
	SetCheckOut(ctx context.Context, id string, at time.Time) error
	SetPayment(ctx context.Context, id string, paid decimal.Decimal, status model.PaymentStatus) error

	ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error
}

type mongoStayRepository struct {
	store     *mongodb.Store[model.Stay]
	txManager mongodb.TransactionManager
}

func NewMongoStayRepository(cfg *config.Config) StayRepository {
	return &mongoStayRepository{
		store: mongodb.NewStore[model.Stay](cfg.Database(), CollectionName, mongodb.StoreOptions{
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			ErrNotFound:  stayserrors.ErrNotFound,
			ErrInvalidID: stayserrors.ErrInvalidID,
		}),
		txManager: mongodb.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoStayRepository) Create(ctx context.Context, stay *model.Stay) error {
	stay.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	id, err := r.store.Insert(ctx, stay)
	if err != nil {
		return fmt.Errorf("failed to create stay: %w", err)
	}
	stay.ID = id
	return nil
}

func (r *mongoStayRepository) FindByID(ctx context.Context, id string) (*model.Stay, error) {
	return r.store.FindByID(ctx, id)
}

func (r *mongoStayRepository) FindByBookingID(ctx context.Context, bookingID string) (*model.Stay, error) {
	stay, err := r.store.FindOne(ctx, bson.M{"booking_id": bookingID})
	if errors.Is(err, stayserrors.ErrNotFound) {
		return nil, nil
	}
	return stay, err
}

func (r *mongoStayRepository) FindAll(ctx context.Context, filter model.StayFilter, limit int, offset int64) ([]*model.Stay, error) {
	sort := bson.D{{Key: "actual_check_in_date", Value: -1}, {Key: "_id", Value: 1}}
	return r.store.FindPage(ctx, buildFilter(filter), sort, limit, offset)
}

func (r *mongoStayRepository) Count(ctx context.Context, filter model.StayFilter) (int64, error) {
	return r.store.Count(ctx, buildFilter(filter))
}

func (r *mongoStayRepository) FindCheckedInBetween(ctx context.Context, start, end time.Time) ([]*model.Stay, error) {
	return r.store.Find(ctx, bson.M{"actual_check_in_date": bson.M{"$gte": start, "$lt": end}})
}

func (r *mongoStayRepository) SetCheckOut(ctx context.Context, id string, at time.Time) error {
	return r.store.SetFields(ctx, id, bson.M{"actual_check_out_date": at})
}

func (r *mongoStayRepository) SetPayment(ctx context.Context, id string, paid decimal.Decimal, status model.PaymentStatus) error {
	return r.store.SetFields(ctx, id, bson.M{
		"paid_amount":       paid,
		"payment_status_id": status,
	})
}

func (r *mongoStayRepository) ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func buildFilter(f model.StayFilter) bson.M {
	filter := bson.M{}
	if f.BookingID != "" {
		filter["booking_id"] = f.BookingID
	}
	if f.PaymentStatusID != 0 {
		filter["payment_status_id"] = f.PaymentStatusID
	}
	if f.Open != nil {
		filter["actual_check_out_date"] = bson.M{"$exists": !*f.Open}
	}
	return filter
}

func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
