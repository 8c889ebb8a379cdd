package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"hotelier/pkg/logger"
	"hotelier/pkg/model"
)

func newValidator() *Validator {
	return New(logger.NewNop())
}

func TestMoneyTag(t *testing.T) {
	v := newValidator()
	type priced struct {
		Price decimal.Decimal `json:"price" validate:"money"`
	}

	tests := []struct {
		price string
		valid bool
	}{
		{"0", true},
		{"120.50", true},
		{"99.999", false},
		{"-1", false},
	}

	for _, tt := range tests {
		err := v.Struct(&priced{Price: decimal.RequireFromString(tt.price)})
		if (err == nil) != tt.valid {
			t.Errorf("price %s: err=%v, want valid=%v", tt.price, err, tt.valid)
		}
	}
}

func TestPointerMoneyTagSkipsNil(t *testing.T) {
	v := newValidator()
	type update struct {
		Price *decimal.Decimal `json:"price,omitempty" validate:"omitempty,money"`
	}

	if err := v.Struct(&update{}); err != nil {
		t.Errorf("nil pointer should be skipped, got %v", err)
	}
	bad := decimal.NewFromInt(-5)
	if err := v.Struct(&update{Price: &bad}); err == nil {
		t.Error("negative pointer value should fail")
	}
}

func TestTaxPercentTag(t *testing.T) {
	v := newValidator()
	type taxed struct {
		Tax decimal.Decimal `json:"tax_percent" validate:"tax_percent"`
	}

	for _, tc := range []struct {
		tax   int64
		valid bool
	}{{0, true}, {20, true}, {100, true}, {101, false}, {-1, false}} {
		err := v.Struct(&taxed{Tax: decimal.NewFromInt(tc.tax)})
		if (err == nil) != tc.valid {
			t.Errorf("tax %d: err=%v, want valid=%v", tc.tax, err, tc.valid)
		}
	}
}

func TestErrorsUseJSONFieldNames(t *testing.T) {
	v := newValidator()

	b := &model.Booking{
		RoomID:       "not-an-id",
		GuestID:      "507f1f77bcf86cd799439011",
		CheckInDate:  time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		StatusID:     model.BookingStatus(9),
		GuestsCount:  1,
	}

	err := v.Struct(b)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}

	details := verrs.Details()
	for _, field := range []string{"room_id", "check_out_date", "booking_status_id"} {
		if _, ok := details[field]; !ok {
			t.Errorf("expected error for %s in %v", field, details)
		}
	}
	if details["check_out_date"] != "check_out_date must be after check_in_date" {
		t.Errorf("unexpected message %v", details["check_out_date"])
	}
}

func TestPastDateTag(t *testing.T) {
	v := newValidator()
	future := time.Now().Add(48 * time.Hour)
	g := &model.Guest{FirstName: "Ana", LastName: "Lee", Phone: "+442071234567", DateOfBirth: &future}

	if err := v.Struct(g); err == nil {
		t.Error("future date of birth should fail")
	}
}
