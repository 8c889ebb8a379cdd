package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/shopspring/decimal"

	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
)

type mockSaleService struct {
	createFunc     func(ctx context.Context, sale *model.ServiceSale) error
	getAllFunc     func(ctx context.Context, filter model.ServiceSaleFilter, limit int, offset int64) ([]*model.ServiceSale, int64, error)
	findByStayFunc func(ctx context.Context, stayID string) ([]*model.ServiceSale, error)
}

func (m *mockSaleService) Create(ctx context.Context, sale *model.ServiceSale) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, sale)
	}
	return nil
}

func (m *mockSaleService) GetByID(ctx context.Context, id string) (*model.ServiceSale, error) {
	return nil, apperrors.NotFoundWithID("ServiceSale", id)
}

func (m *mockSaleService) GetAll(ctx context.Context, filter model.ServiceSaleFilter, limit int, offset int64) ([]*model.ServiceSale, int64, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc(ctx, filter, limit, offset)
	}
	return []*model.ServiceSale{}, 0, nil
}

func (m *mockSaleService) FindByStay(ctx context.Context, stayID string) ([]*model.ServiceSale, error) {
	if m.findByStayFunc != nil {
		return m.findByStayFunc(ctx, stayID)
	}
	return []*model.ServiceSale{}, nil
}

func (m *mockSaleService) Update(ctx context.Context, id string, updates *model.ServiceSaleUpdate) (*model.ServiceSale, error) {
	return &model.ServiceSale{ID: id}, nil
}

func (m *mockSaleService) Delete(ctx context.Context, id string) error {
	return nil
}

func serve(svc *mockSaleService, method, target, body string) *httptest.ResponseRecorder {
	router := httprouter.New()
	NewSaleHandler(svc, logger.NewNop()).RegisterRoutes(router)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreate(t *testing.T) {
	svc := &mockSaleService{
		createFunc: func(ctx context.Context, sale *model.ServiceSale) error {
			sale.ID = "sale-1"
			sale.TotalPrice = sale.UnitPrice.Mul(decimal.NewFromInt(int64(sale.Quantity)))
			return nil
		},
	}

	w := serve(svc, http.MethodPost, "/api/v1/service-sales", `{"service_id":"svc-1","quantity":2,"unit_price":"4.25"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data model.ServiceSale `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Data.TotalPrice.Equal(decimal.RequireFromString("8.5")) {
		t.Errorf("unexpected total %s", resp.Data.TotalPrice)
	}
}

func TestGetAll_Filter(t *testing.T) {
	var got model.ServiceSaleFilter
	svc := &mockSaleService{
		getAllFunc: func(ctx context.Context, filter model.ServiceSaleFilter, limit int, offset int64) ([]*model.ServiceSale, int64, error) {
			got = filter
			return []*model.ServiceSale{}, 0, nil
		},
	}

	w := serve(svc, http.MethodGet, "/api/v1/service-sales?stay_id=s1&payment_status_id=3", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got.StayID != "s1" || got.PaymentStatusID != model.PaymentPaid {
		t.Errorf("unexpected filter %+v", got)
	}

	w = serve(svc, http.MethodGet, "/api/v1/service-sales?payment_status_id=9", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestListForStay(t *testing.T) {
	svc := &mockSaleService{
		findByStayFunc: func(ctx context.Context, stayID string) ([]*model.ServiceSale, error) {
			if stayID != "stay-9" {
				return nil, apperrors.NotFoundWithID("Stay", stayID)
			}
			return []*model.ServiceSale{{ID: "a", StayID: stayID}, {ID: "b", StayID: stayID}}, nil
		},
	}

	w := serve(svc, http.MethodGet, "/api/v1/stays/id/stay-9/service-sales", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Data []model.ServiceSale `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Errorf("expected 2 sales, got %d", len(resp.Data))
	}

	w = serve(svc, http.MethodGet, "/api/v1/stays/id/other/service-sales", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestDelete(t *testing.T) {
	w := serve(&mockSaleService{}, http.MethodDelete, "/api/v1/service-sales/id/x", "")
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
}
