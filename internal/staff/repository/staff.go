package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	stafferrors "hotelier/internal/staff/errors"
	"hotelier/pkg/config"
	mongodb "hotelier/pkg/db/mongo"
	"hotelier/pkg/model"
)

const CollectionName = "staff"

type StaffRepository interface {
	Create(ctx context.Context, member *model.Staff) error
	FindByID(ctx context.Context, id string) (*model.Staff, error)
	FindAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Staff, error)
	Count(ctx context.Context, activeOnly bool) (int64, error)
	Update(ctx context.Context, id string, member *model.Staff) error
	Delete(ctx context.Context, id string) error
}

type mongoStaffRepository struct {
	store *mongodb.Store[model.Staff]
}

func NewMongoStaffRepository(cfg *config.Config) StaffRepository {
	return &mongoStaffRepository{
		store: mongodb.NewStore[model.Staff](cfg.Database(), CollectionName, mongodb.StoreOptions{
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			ErrNotFound:  stafferrors.ErrNotFound,
			ErrInvalidID: stafferrors.ErrInvalidID,
		}),
	}
}

func (r *mongoStaffRepository) Create(ctx context.Context, member *model.Staff) error {
	id, err := r.store.Insert(ctx, member)
	if err != nil {
		return err
	}
	member.ID = id
	return nil
}

func (r *mongoStaffRepository) FindByID(ctx context.Context, id string) (*model.Staff, error) {
	return r.store.FindByID(ctx, id)
}

func (r *mongoStaffRepository) FindAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Staff, error) {
	sort := bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}}
	return r.store.FindPage(ctx, activeFilter(activeOnly), sort, limit, offset)
}

func (r *mongoStaffRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	return r.store.Count(ctx, activeFilter(activeOnly))
}

func (r *mongoStaffRepository) Update(ctx context.Context, id string, member *model.Staff) error {
	return r.store.SetFields(ctx, id, bson.M{
		"first_name": member.FirstName,
		"last_name":  member.LastName,
		"position":   member.Position,
		"phone":      member.Phone,
		"email":      member.Email,
		"hire_date":  member.HireDate,
		"salary":     member.Salary,
		"is_active":  member.IsActive,
	})
}

func (r *mongoStaffRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}

func activeFilter(activeOnly bool) bson.M {
	if activeOnly {
		return bson.M{"is_active": true}
	}
	return bson.M{}
}
