// Package validation builds the go-playground validator shared by every
// domain validator and translates its errors into field messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"hotelier/pkg/logger"
	"hotelier/pkg/model"
)

var (
	maxTaxPercent = decimal.NewFromInt(100)
	maxMoney      = decimal.NewFromInt(100_000_000)
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details renders the errors as a field to message map for API responses.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

func Field(field, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message}}
}

type Validator struct {
	validate *validator.Validate
}

func New(log *logger.Logger) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	custom := map[string]validator.Func{
		"money":          validateMoney,
		"positive_money": validatePositiveMoney,
		"tax_percent":    validateTaxPercent,
		"booking_status": validateBookingStatus,
		"payment_status": validatePaymentStatus,
		"room_type":      validateRoomType,
		"past_date":      validatePastDate,
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatal("Failed to register validator", "tag", tag, "error", err)
		}
	}

	return &Validator{validate: v}
}

// Struct validates s and returns ValidationErrors for field failures.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return translate(validationErrs)
	}
	return err
}

func translate(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, 0, len(errs))

	for _, err := range errs {
		field := err.Field()
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s", field, err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", field, err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", field)
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +442071234567)", field)
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", field)
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", field, toSnake(err.Param()))
		case "money":
			message = fmt.Sprintf("%s must be a non-negative amount with at most 2 decimal places", field)
		case "positive_money":
			message = fmt.Sprintf("%s must be a positive amount with at most 2 decimal places", field)
		case "tax_percent":
			message = fmt.Sprintf("%s must be between 0 and 100", field)
		case "booking_status":
			message = fmt.Sprintf("%s must be one of 1 (pending), 2 (confirmed), 3 (cancelled), 4 (checked in), 5 (completed)", field)
		case "payment_status":
			message = fmt.Sprintf("%s must be one of 1 (unpaid), 2 (partially paid), 3 (paid), 4 (cancelled)", field)
		case "room_type":
			message = fmt.Sprintf("%s must be between %d and %d", field, model.RoomStandard, model.RoomFamily)
		case "past_date":
			message = fmt.Sprintf("%s must be in the past", field)
		}

		out = append(out, ValidationError{Field: field, Message: message})
	}

	return out
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func decimalOf(fl validator.FieldLevel) (decimal.Decimal, bool) {
	switch d := fl.Field().Interface().(type) {
	case decimal.Decimal:
		return d, true
	case *decimal.Decimal:
		if d == nil {
			return decimal.Zero, false
		}
		return *d, true
	default:
		return decimal.Zero, false
	}
}

func isMoney(d decimal.Decimal) bool {
	return d.Sign() >= 0 && d.LessThanOrEqual(maxMoney) && d.Equal(d.Round(2))
}

func validateMoney(fl validator.FieldLevel) bool {
	d, ok := decimalOf(fl)
	return ok && isMoney(d)
}

func validatePositiveMoney(fl validator.FieldLevel) bool {
	d, ok := decimalOf(fl)
	return ok && d.Sign() > 0 && isMoney(d)
}

func validateTaxPercent(fl validator.FieldLevel) bool {
	d, ok := decimalOf(fl)
	return ok && d.Sign() >= 0 && d.LessThanOrEqual(maxTaxPercent)
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	return model.BookingStatus(fl.Field().Int()).Valid()
}

func validatePaymentStatus(fl validator.FieldLevel) bool {
	return model.PaymentStatus(fl.Field().Int()).Valid()
}

func validateRoomType(fl validator.FieldLevel) bool {
	return model.RoomType(fl.Field().Int()).Valid()
}

func validatePastDate(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return t.Before(time.Now())
}
