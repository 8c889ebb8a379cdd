package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	saleserrors "hotelier/internal/servicesales/errors"
	"hotelier/internal/servicesales/repository"
	"hotelier/internal/servicesales/validator"
	"hotelier/pkg/config"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/events"
	"hotelier/pkg/model"
	"hotelier/pkg/validation"
)

type SaleService interface {
	Create(ctx context.Context, sale *model.ServiceSale) error
	GetByID(ctx context.Context, id string) (*model.ServiceSale, error)
	GetAll(ctx context.Context, filter model.ServiceSaleFilter, limit int, offset int64) ([]*model.ServiceSale, int64, error)
	// FindByStay lists every sale charged to the stay, cancelled ones included.
	FindByStay(ctx context.Context, stayID string) ([]*model.ServiceSale, error)
	Update(ctx context.Context, id string, updates *model.ServiceSaleUpdate) (*model.ServiceSale, error)
	Delete(ctx context.Context, id string) error
}

// CatalogGetter is implemented by the hotel services catalog.
type CatalogGetter interface {
	GetByID(ctx context.Context, id string) (*model.Service, error)
}

// StayGetter is implemented by the stays service.
type StayGetter interface {
	GetByID(ctx context.Context, id string) (*model.Stay, error)
}

// GuestGetter is implemented by the guests service.
type GuestGetter interface {
	GetByID(ctx context.Context, id string) (*model.Guest, error)
}

type saleService struct {
	repo      repository.SaleRepository
	catalog   CatalogGetter
	stays     StayGetter
	guests    GuestGetter
	publisher events.Publisher
	validator *validator.SaleValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewSaleService(
	repo repository.SaleRepository,
	catalog CatalogGetter,
	stays StayGetter,
	guests GuestGetter,
	publisher events.Publisher,
	validator *validator.SaleValidator,
	cfg *config.Config,
) SaleService {
	return &saleService{
		repo:      repo,
		catalog:   catalog,
		stays:     stays,
		guests:    guests,
		publisher: publisher,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *saleService) Create(ctx context.Context, sale *model.ServiceSale) error {
	sale.ID = ""
	if sale.PaymentStatusID == 0 {
		sale.PaymentStatusID = model.PaymentUnpaid
	}
	if sale.SoldAt.IsZero() {
		sale.SoldAt = s.now().UTC().Truncate(time.Millisecond)
	}

	if err := s.validate(sale); err != nil {
		return err
	}

	catalogEntry, err := s.catalog.GetByID(ctx, sale.ServiceID)
	if err != nil {
		return err
	}
	if !catalogEntry.IsActive {
		return apperrors.Conflict(fmt.Sprintf("Service %q is not currently offered", catalogEntry.Name))
	}

	if sale.StayID != "" {
		if _, err := s.stays.GetByID(ctx, sale.StayID); err != nil {
			return err
		}
	}
	if sale.GuestID != "" {
		if _, err := s.guests.GetByID(ctx, sale.GuestID); err != nil {
			return err
		}
	}

	if sale.UnitPrice.IsZero() {
		sale.UnitPrice = catalogEntry.Price
	}
	if sale.TaxPercent.IsZero() {
		sale.TaxPercent = catalogEntry.TaxPercent
	}
	if err := s.price(sale); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, sale); err != nil {
		s.cfg.Log.Error("Failed to create service sale", "service_id", sale.ServiceID, "stay_id", sale.StayID, "error", err)
		return apperrors.Internal("Failed to create service sale", err)
	}

	s.cfg.Log.Info("Service sale created",
		"sale_id", sale.ID,
		"service_id", sale.ServiceID,
		"stay_id", sale.StayID,
		"total_price", sale.TotalPrice.StringFixed(2),
	)
	s.emit(ctx, events.ServiceSaleCreated, sale)
	return nil
}

func (s *saleService) GetByID(ctx context.Context, id string) (*model.ServiceSale, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(id, err, "Failed to get service sale")
	}
	return sale, nil
}

func (s *saleService) GetAll(ctx context.Context, filter model.ServiceSaleFilter, limit int, offset int64) ([]*model.ServiceSale, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		sales             []*model.ServiceSale
		count             int64
		errCount, errFind error
		wg                sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
	}()
	go func() {
		defer wg.Done()
		sales, errFind = s.repo.FindAll(ctx, filter, limit, offset)
	}()
	wg.Wait()

	if errCount != nil {
		s.cfg.Log.Error("Failed to count service sales", "error", errCount)
		return nil, 0, apperrors.Internal("Failed to count service sales", errCount)
	}
	if errFind != nil {
		s.cfg.Log.Error("Failed to list service sales", "limit", limit, "offset", offset, "error", errFind)
		return nil, 0, apperrors.Internal("Failed to retrieve service sales", errFind)
	}

	return sales, count, nil
}

func (s *saleService) FindByStay(ctx context.Context, stayID string) ([]*model.ServiceSale, error) {
	if _, err := s.stays.GetByID(ctx, stayID); err != nil {
		return nil, err
	}

	sales, err := s.repo.FindByStay(ctx, stayID)
	if err != nil {
		s.cfg.Log.Error("Failed to list service sales for stay", "stay_id", stayID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve service sales", err)
	}
	return sales, nil
}

func (s *saleService) Update(ctx context.Context, id string, updates *model.ServiceSaleUpdate) (*model.ServiceSale, error) {
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, s.validationError(id, err)
	}

	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(id, err, "Failed to get service sale")
	}
	if sale.PaymentStatusID == model.PaymentCancelled {
		return nil, apperrors.Conflict("Service sale is cancelled and can no longer be changed")
	}

	applyUpdate(sale, updates)
	if err := s.validate(sale); err != nil {
		return nil, err
	}
	if err := s.price(sale); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, sale); err != nil {
		return nil, s.mapError(id, err, "Failed to update service sale")
	}

	s.cfg.Log.Info("Service sale updated", "sale_id", id, "payment_status", sale.PaymentStatusID.String())
	s.emit(ctx, events.ServiceSaleUpdated, sale)
	return sale, nil
}

func (s *saleService) Delete(ctx context.Context, id string) error {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapError(id, err, "Failed to get service sale")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapError(id, err, "Failed to delete service sale")
	}

	s.cfg.Log.Info("Service sale deleted", "sale_id", id, "stay_id", sale.StayID)
	s.emit(ctx, events.ServiceSaleDeleted, sale)
	return nil
}

// price recomputes the line total from quantity and unit price.
func (s *saleService) price(sale *model.ServiceSale) error {
	if err := s.validator.ValidatePricing(sale); err != nil {
		return s.validationError(sale.ID, err)
	}
	sale.TotalPrice = sale.UnitPrice.Mul(decimal.NewFromInt(int64(sale.Quantity))).Round(2)
	return nil
}

func (s *saleService) validate(sale *model.ServiceSale) error {
	if err := s.validator.Validate(sale); err != nil {
		return s.validationError(sale.ID, err)
	}
	return nil
}

func (s *saleService) validationError(id string, err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		s.cfg.Log.Warn("Service sale validation failed", "sale_id", id, "error", err)
		return apperrors.Validation("Service sale validation failed", verrs.Details())
	}
	return apperrors.Internal("Failed to validate service sale", err)
}

func (s *saleService) mapError(id string, err error, message string) error {
	switch {
	case errors.Is(err, saleserrors.ErrNotFound):
		return apperrors.NotFoundWithID("ServiceSale", id)
	case errors.Is(err, saleserrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("Invalid service sale ID: %s", id))
	default:
		s.cfg.Log.Error(message, "sale_id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}

func (s *saleService) emit(ctx context.Context, eventType string, sale *model.ServiceSale) {
	events.Emit(ctx, s.publisher, s.cfg.Log, s.cfg.KafkaTopicSales, events.Event{
		Type:        eventType,
		AggregateID: sale.ID,
		Payload:     sale,
	})
}

func applyUpdate(sale *model.ServiceSale, u *model.ServiceSaleUpdate) {
	if u.Quantity != nil {
		sale.Quantity = *u.Quantity
	}
	if u.UnitPrice != nil {
		sale.UnitPrice = *u.UnitPrice
	}
	if u.TaxPercent != nil {
		sale.TaxPercent = *u.TaxPercent
	}
	if u.PaymentStatusID != nil {
		sale.PaymentStatusID = *u.PaymentStatusID
	}
}
