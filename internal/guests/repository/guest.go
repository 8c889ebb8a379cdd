package repository

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	guestserrors "hotelier/internal/guests/errors"
	"hotelier/pkg/config"
	mongodb "hotelier/pkg/db/mongo"
	"hotelier/pkg/model"
)

const (
	CollectionName = "guests"

	searchLimit = 50
)

type GuestRepository interface {
	Create(ctx context.Context, guest *model.Guest) error
	FindByID(ctx context.Context, id string) (*model.Guest, error)
	FindByPhone(ctx context.Context, phone string) (*model.Guest, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Guest, error)
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, query string) ([]*model.Guest, error)
	Update(ctx context.Context, id string, guest *model.Guest) error
	Delete(ctx context.Context, id string) error
}

type mongoGuestRepository struct {
	store *mongodb.Store[model.Guest]
}

func NewMongoGuestRepository(cfg *config.Config) GuestRepository {
	return &mongoGuestRepository{
		store: mongodb.NewStore[model.Guest](cfg.Database(), CollectionName, mongodb.StoreOptions{
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			ErrNotFound:  guestserrors.ErrNotFound,
			ErrInvalidID: guestserrors.ErrInvalidID,
		}),
	}
}

func (r *mongoGuestRepository) Create(ctx context.Context, guest *model.Guest) error {
	id, err := r.store.Insert(ctx, guest)
	if err != nil {
		return err
	}
	guest.ID = id
	return nil
}

func (r *mongoGuestRepository) FindByID(ctx context.Context, id string) (*model.Guest, error) {
	return r.store.FindByID(ctx, id)
}

// FindByPhone returns nil, nil when no guest has phone.
func (r *mongoGuestRepository) FindByPhone(ctx context.Context, phone string) (*model.Guest, error) {
	guest, err := r.store.FindOne(ctx, bson.M{"phone": phone})
	if errors.Is(err, guestserrors.ErrNotFound) {
		return nil, nil
	}
	return guest, err
}

func (r *mongoGuestRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Guest, error) {
	return r.store.FindPage(ctx, bson.M{}, guestSort(), limit, offset)
}

func (r *mongoGuestRepository) Count(ctx context.Context) (int64, error) {
	return r.store.Count(ctx, bson.M{})
}

// Search matches query case-insensitively against names, phone, email and
// document number.
func (r *mongoGuestRepository) Search(ctx context.Context, query string) ([]*model.Guest, error) {
	opts := options.Find().SetSort(guestSort()).SetLimit(searchLimit)
	return r.store.Find(ctx, searchFilter(query), opts)
}

func (r *mongoGuestRepository) Update(ctx context.Context, id string, guest *model.Guest) error {
	return r.store.SetFields(ctx, id, bson.M{
		"first_name":      guest.FirstName,
		"last_name":       guest.LastName,
		"phone":           guest.Phone,
		"email":           guest.Email,
		"document_number": guest.DocumentNumber,
		"date_of_birth":   guest.DateOfBirth,
	})
}

func (r *mongoGuestRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}

func guestSort() bson.D {
	return bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}}
}

func searchFilter(query string) bson.M {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}

	fields := []string{"first_name", "last_name", "phone", "email", "document_number"}
	or := make(bson.A, 0, len(fields))
	for _, field := range fields {
		or = append(or, bson.M{field: pattern})
	}
	return bson.M{"$or": or}
}

func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
