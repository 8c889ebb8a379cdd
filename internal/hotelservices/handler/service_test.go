package handler

import (
	"context"
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

type mockCatalogService struct {
	createFunc func(ctx context.Context, svc *model.Service) error
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockCatalogService) Create(ctx context.Context, svc *model.Service) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, svc)
	}
	return nil
}

func (m *mockCatalogService) GetByID(ctx context.Context, id string) (*model.Service, error) {
	return &model.Service{ID: id}, nil
}

func (m *mockCatalogService) GetAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Service, int64, error) {
	return []*model.Service{}, 0, nil
}

func (m *mockCatalogService) Update(ctx context.Context, id string, updates *model.ServiceUpdate) (*model.Service, error) {
	return &model.Service{ID: id}, nil
}

func (m *mockCatalogService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func serve(svc *mockCatalogService, method, target, body string) *httptest.ResponseRecorder {
	router := httprouter.New()
	NewCatalogHandler(svc, logger.NewNop()).RegisterRoutes(router)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreate_DecodesPrice(t *testing.T) {
	var got *model.Service
	svc := &mockCatalogService{
		createFunc: func(ctx context.Context, s *model.Service) error {
			got = s
			s.ID = "507f1f77bcf86cd799439011"
			return nil
		},
	}

	w := serve(svc, http.MethodPost, "/api/v1/services", `{"name":"Spa","price":"45.50","tax_percent":"20","is_active":true}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if !got.Price.Equal(decimal.RequireFromString("45.5")) {
		t.Errorf("expected price 45.5, got %s", got.Price)
	}
}

func TestCreate_DuplicateName(t *testing.T) {
	svc := &mockCatalogService{
		createFunc: func(ctx context.Context, s *model.Service) error {
			return apperrors.Conflict("Service Spa already exists")
		},
	}

	w := serve(svc, http.MethodPost, "/api/v1/services", `{"name":"spa","price":"10"}`)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"missing", apperrors.NotFoundWithID("Service", "507f1f77bcf86cd799439011"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCatalogService{
				deleteFunc: func(ctx context.Context, id string) error { return tt.err },
			}

			w := serve(svc, http.MethodDelete, "/api/v1/services/id/507f1f77bcf86cd799439011", "")

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}
