package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Staff struct {
	ID        string          `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	FirstName string          `json:"first_name" bson:"first_name" validate:"required,min=1,max=100"`
	LastName  string          `json:"last_name" bson:"last_name" validate:"required,min=1,max=100"`
	Position  string          `json:"position" bson:"position" validate:"required,min=2,max=100"`
	Phone     string          `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	Email     string          `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email,max=254"`
	HireDate  time.Time       `json:"hire_date" bson:"hire_date" validate:"required"`
	Salary    decimal.Decimal `json:"salary" bson:"salary" validate:"money"`
	IsActive  bool            `json:"is_active" bson:"is_active"`
}

type StaffUpdate struct {
	FirstName *string          `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  *string          `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Position  *string          `json:"position,omitempty" validate:"omitempty,min=2,max=100"`
	Phone     *string          `json:"phone,omitempty" validate:"omitempty,e164"`
	Email     *string          `json:"email,omitempty" validate:"omitempty,email,max=254"`
	HireDate  *time.Time       `json:"hire_date,omitempty"`
	Salary    *decimal.Decimal `json:"salary,omitempty" validate:"omitempty,money"`
	IsActive  *bool            `json:"is_active,omitempty"`
}
