package service

import (
	"context"
	"errors"
	"testing"
	"time"

	guestserrors "hotelier/internal/guests/errors"
	"hotelier/internal/guests/validator"
	"hotelier/pkg/config"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
)

type mockGuestRepository struct {
	createFunc      func(ctx context.Context, guest *model.Guest) error
	findByIDFunc    func(ctx context.Context, id string) (*model.Guest, error)
	findByPhoneFunc func(ctx context.Context, phone string) (*model.Guest, error)
	searchFunc      func(ctx context.Context, query string) ([]*model.Guest, error)
	updateFunc      func(ctx context.Context, id string, guest *model.Guest) error
	deleteFunc      func(ctx context.Context, id string) error
}

func (m *mockGuestRepository) Create(ctx context.Context, guest *model.Guest) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, guest)
	}
	guest.ID = "665f1c2b9d1e4a00000000aa"
	return nil
}

func (m *mockGuestRepository) FindByID(ctx context.Context, id string) (*model.Guest, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, guestserrors.ErrNotFound
}

func (m *mockGuestRepository) FindByPhone(ctx context.Context, phone string) (*model.Guest, error) {
	if m.findByPhoneFunc != nil {
		return m.findByPhoneFunc(ctx, phone)
	}
	return nil, nil
}

func (m *mockGuestRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Guest, error) {
	return []*model.Guest{}, nil
}

func (m *mockGuestRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockGuestRepository) Search(ctx context.Context, query string) ([]*model.Guest, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query)
	}
	return []*model.Guest{}, nil
}

func (m *mockGuestRepository) Update(ctx context.Context, id string, guest *model.Guest) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, guest)
	}
	return nil
}

func (m *mockGuestRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockBookingChecker struct {
	active bool
	err    error
}

func (m *mockBookingChecker) HasActiveBookingsForGuest(ctx context.Context, guestID string) (bool, error) {
	return m.active, m.err
}

const guestID = "665f1c2b9d1e4a00000000aa"

func newTestService(repo *mockGuestRepository, bookings *mockBookingChecker) GuestService {
	log := logger.NewNop()
	if bookings == nil {
		bookings = &mockBookingChecker{}
	}
	return NewGuestService(repo, bookings, validator.NewGuestValidator(log), &config.Config{Log: log})
}

func appCode(err error) string {
	if err == nil {
		return ""
	}
	return apperrors.AsAppError(err).Code
}

func TestCreate_SanitizesInput(t *testing.T) {
	svc := newTestService(&mockGuestRepository{}, nil)

	guest := &model.Guest{
		FirstName:      "  Ada   ",
		LastName:       "Lovelace",
		Phone:          "020 7123 4567",
		Email:          " Ada@Example.COM ",
		DocumentNumber: "ab 12 34",
	}
	if err := svc.Create(context.Background(), guest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if guest.FirstName != "Ada" || guest.Phone != "+442071234567" || guest.Email != "ada@example.com" || guest.DocumentNumber != "AB1234" {
		t.Errorf("guest not sanitized: %+v", guest)
	}
	if guest.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestCreate_DuplicatePhone(t *testing.T) {
	repo := &mockGuestRepository{
		findByPhoneFunc: func(ctx context.Context, phone string) (*model.Guest, error) {
			return &model.Guest{ID: "existing", Phone: phone}, nil
		},
	}

	err := newTestService(repo, nil).Create(context.Background(), &model.Guest{
		FirstName: "Ada", LastName: "Lovelace", Phone: "+442071234567",
	})
	if appCode(err) != apperrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	future := time.Now().Add(48 * time.Hour)
	tests := []struct {
		name  string
		guest model.Guest
	}{
		{"missing last name", model.Guest{FirstName: "Ada", Phone: "+442071234567"}},
		{"bad phone", model.Guest{FirstName: "Ada", LastName: "L", Phone: "12"}},
		{"bad email", model.Guest{FirstName: "Ada", LastName: "L", Phone: "+442071234567", Email: "nope"}},
		{"birth in future", model.Guest{FirstName: "Ada", LastName: "L", Phone: "+442071234567", DateOfBirth: &future}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guest := tt.guest
			err := newTestService(&mockGuestRepository{}, nil).Create(context.Background(), &guest)
			if appCode(err) != apperrors.CodeValidation {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestFindOrCreateByPhone(t *testing.T) {
	t.Run("existing guest is reused", func(t *testing.T) {
		repo := &mockGuestRepository{
			findByPhoneFunc: func(ctx context.Context, phone string) (*model.Guest, error) {
				return &model.Guest{ID: "existing", FirstName: "Grace", Phone: phone}, nil
			},
			createFunc: func(ctx context.Context, guest *model.Guest) error {
				t.Fatal("create must not be called")
				return nil
			},
		}

		guest, err := newTestService(repo, nil).FindOrCreateByPhone(context.Background(), &model.Guest{
			FirstName: "Ada", LastName: "L", Phone: "+442071234567",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if guest.ID != "existing" {
			t.Errorf("expected existing guest, got %+v", guest)
		}
	})

	t.Run("new guest is created", func(t *testing.T) {
		created := false
		repo := &mockGuestRepository{
			createFunc: func(ctx context.Context, guest *model.Guest) error {
				created = true
				guest.ID = "new"
				return nil
			},
		}

		guest, err := newTestService(repo, nil).FindOrCreateByPhone(context.Background(), &model.Guest{
			FirstName: "Ada", LastName: "L", Phone: "+442071234567",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !created || guest.ID != "new" {
			t.Errorf("expected new guest, got %+v", guest)
		}
	})
}

func TestDelete_NeverFailsOpen(t *testing.T) {
	tests := []struct {
		name     string
		checker  *mockBookingChecker
		wantCode string
	}{
		{"free", &mockBookingChecker{}, ""},
		{"active bookings", &mockBookingChecker{active: true}, apperrors.CodeConflict},
		{"check error", &mockBookingChecker{err: errors.New("timeout")}, apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deleted := false
			repo := &mockGuestRepository{
				findByIDFunc: func(ctx context.Context, id string) (*model.Guest, error) {
					return &model.Guest{ID: id}, nil
				},
				deleteFunc: func(ctx context.Context, id string) error {
					deleted = true
					return nil
				},
			}

			err := newTestService(repo, tt.checker).Delete(context.Background(), guestID)
			if appCode(err) != tt.wantCode {
				t.Errorf("expected %q, got %v", tt.wantCode, err)
			}
			if deleted != (tt.wantCode == "") {
				t.Errorf("unexpected deleted=%v", deleted)
			}
		})
	}
}

func TestDelete_NotFound(t *testing.T) {
	err := newTestService(&mockGuestRepository{}, nil).Delete(context.Background(), guestID)
	if appCode(err) != apperrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	var gotQuery string
	repo := &mockGuestRepository{
		searchFunc: func(ctx context.Context, query string) ([]*model.Guest, error) {
			gotQuery = query
			return []*model.Guest{{ID: "1"}}, nil
		},
	}
	svc := newTestService(repo, nil)

	if _, err := svc.Search(context.Background(), " x "); appCode(err) != apperrors.CodeInvalidInput {
		t.Errorf("expected short query to be rejected, got %v", err)
	}

	if _, err := svc.Search(context.Background(), "  love   lace "); err != nil || gotQuery != "love lace" {
		t.Errorf("unexpected query %q, err %v", gotQuery, err)
	}

	if _, err := svc.Search(context.Background(), "020 7123 4567"); err != nil || gotQuery != "+442071234567" {
		t.Errorf("expected phone query to be normalized, got %q, err %v", gotQuery, err)
	}
}

func TestUpdate_PhoneNormalizedBeforeValidation(t *testing.T) {
	var saved *model.Guest
	repo := &mockGuestRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Guest, error) {
			return &model.Guest{ID: id, FirstName: "Ada", LastName: "L", Phone: "+442071234567"}, nil
		},
		updateFunc: func(ctx context.Context, id string, guest *model.Guest) error {
			saved = guest
			return nil
		},
	}

	phone := "020 7123 4568"
	if _, err := newTestService(repo, nil).Update(context.Background(), guestID, &model.GuestUpdate{Phone: &phone}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved == nil || saved.Phone != "+442071234568" || saved.FirstName != "Ada" {
		t.Errorf("unexpected saved guest %+v", saved)
	}
}
