package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	serviceserrors "hotelier/internal/hotelservices/errors"
	"hotelier/pkg/config"
	mongodb "hotelier/pkg/db/mongo"
	"hotelier/pkg/model"
)

const CollectionName = "services"

type ServiceRepository interface {
	Create(ctx context.Context, svc *model.Service) error
	FindByID(ctx context.Context, id string) (*model.Service, error)
	FindByName(ctx context.Context, name string) (*model.Service, error)
	FindAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Service, error)
	Count(ctx context.Context, activeOnly bool) (int64, error)
	Update(ctx context.Context, id string, svc *model.Service) error
	Delete(ctx context.Context, id string) error
}

type mongoServiceRepository struct {
	store *mongodb.Store[model.Service]
}

func NewMongoServiceRepository(cfg *config.Config) ServiceRepository {
	return &mongoServiceRepository{
		store: mongodb.NewStore[model.Service](cfg.Database(), CollectionName, mongodb.StoreOptions{
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			ErrNotFound:  serviceserrors.ErrNotFound,
			ErrInvalidID: serviceserrors.ErrInvalidID,
		}),
	}
}

func (r *mongoServiceRepository) Create(ctx context.Context, svc *model.Service) error {
	id, err := r.store.Insert(ctx, svc)
	if err != nil {
		return err
	}
	svc.ID = id
	return nil
}

func (r *mongoServiceRepository) FindByID(ctx context.Context, id string) (*model.Service, error) {
	return r.store.FindByID(ctx, id)
}

// FindByName matches case-insensitively through the collection's
// strength-2 collation. Returns nil, nil when there is no match.
func (r *mongoServiceRepository) FindByName(ctx context.Context, name string) (*model.Service, error) {
	svc, err := r.store.FindOne(ctx, bson.M{"name": name})
	if errors.Is(err, serviceserrors.ErrNotFound) {
		return nil, nil
	}
	return svc, err
}

func (r *mongoServiceRepository) FindAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Service, error) {
	return r.store.FindPage(ctx, activeFilter(activeOnly), bson.D{{Key: "name", Value: 1}}, limit, offset)
}

func (r *mongoServiceRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	return r.store.Count(ctx, activeFilter(activeOnly))
}

func (r *mongoServiceRepository) Update(ctx context.Context, id string, svc *model.Service) error {
	return r.store.SetFields(ctx, id, bson.M{
		"name":        svc.Name,
		"description": svc.Description,
		"price":       svc.Price,
		"tax_percent": svc.TaxPercent,
		"is_active":   svc.IsActive,
	})
}

func (r *mongoServiceRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}

func activeFilter(activeOnly bool) bson.M {
	if activeOnly {
		return bson.M{"is_active": true}
	}
	return bson.M{}
}

func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
