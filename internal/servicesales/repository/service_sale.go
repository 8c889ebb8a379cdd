package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	saleserrors "hotelier/internal/servicesales/errors"
	"hotelier/pkg/config"
	mongodb "hotelier/pkg/db/mongo"
	"hotelier/pkg/model"
)

const CollectionName = "service_sales"

type SaleRepository interface {
	Create(ctx context.Context, sale *model.ServiceSale) error
	FindByID(ctx context.Context, id string) (*model.ServiceSale, error)
	FindAll(ctx context.Context, filter model.ServiceSaleFilter, limit int, offset int64) ([]*model.ServiceSale, error)
	Count(ctx context.Context, filter model.ServiceSaleFilter) (int64, error)
	FindByStay(ctx context.Context, stayID string) ([]*model.ServiceSale, error)
	// FindSoldBetween returns sales of any status with sold_at in [start, end).
	FindSoldBetween(ctx context.Context, start, end time.Time) ([]*model.ServiceSale, error)
	Update(ctx context.Context, id string, sale *model.ServiceSale) error
	Delete(ctx context.Context, id string) error
}

type mongoSaleRepository struct {
	store *mongodb.Store[model.ServiceSale]
}

func NewMongoSaleRepository(cfg *config.Config) SaleRepository {
	return &mongoSaleRepository{
		store: mongodb.NewStore[model.ServiceSale](cfg.Database(), CollectionName, mongodb.StoreOptions{
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			ErrNotFound:  saleserrors.ErrNotFound,
			ErrInvalidID: saleserrors.ErrInvalidID,
		}),
	}
}

func (r *mongoSaleRepository) Create(ctx context.Context, sale *model.ServiceSale) error {
	id, err := r.store.Insert(ctx, sale)
	if err != nil {
		return fmt.Errorf("failed to create service sale: %w", err)
	}
	sale.ID = id
	return nil
}

func (r *mongoSaleRepository) FindByID(ctx context.Context, id string) (*model.ServiceSale, error) {
	return r.store.FindByID(ctx, id)
}

func (r *mongoSaleRepository) FindAll(ctx context.Context, filter model.ServiceSaleFilter, limit int, offset int64) ([]*model.ServiceSale, error) {
	return r.store.FindPage(ctx, buildFilter(filter), newestFirst(), limit, offset)
}

func (r *mongoSaleRepository) Count(ctx context.Context, filter model.ServiceSaleFilter) (int64, error) {
	return r.store.Count(ctx, buildFilter(filter))
}

func (r *mongoSaleRepository) FindByStay(ctx context.Context, stayID string) ([]*model.ServiceSale, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sold_at", Value: 1}, {Key: "_id", Value: 1}})
	return r.store.Find(ctx, bson.M{"stay_id": stayID}, opts)
}

func (r *mongoSaleRepository) FindSoldBetween(ctx context.Context, start, end time.Time) ([]*model.ServiceSale, error) {
	return r.store.Find(ctx, bson.M{"sold_at": bson.M{"$gte": start, "$lt": end}})
}

func (r *mongoSaleRepository) Update(ctx context.Context, id string, sale *model.ServiceSale) error {
	return r.store.SetFields(ctx, id, bson.M{
		"quantity":          sale.Quantity,
		"unit_price":        sale.UnitPrice,
		"total_price":       sale.TotalPrice,
		"tax_percent":       sale.TaxPercent,
		"payment_status_id": sale.PaymentStatusID,
	})
}

func (r *mongoSaleRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}

func buildFilter(f model.ServiceSaleFilter) bson.M {
	filter := bson.M{}
	if f.StayID != "" {
		filter["stay_id"] = f.StayID
	}
	if f.GuestID != "" {
		filter["guest_id"] = f.GuestID
	}
	if f.ServiceID != "" {
		filter["service_id"] = f.ServiceID
	}
	if f.PaymentStatusID != 0 {
		filter["payment_status_id"] = f.PaymentStatusID
	}
	return filter
}

func newestFirst() bson.D {
	return bson.D{{Key: "sold_at", Value: -1}, {Key: "_id", Value: 1}}
}
