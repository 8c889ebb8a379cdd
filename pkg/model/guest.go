package model

import "time"

type Guest struct {
	ID             string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	FirstName      string     `json:"first_name" bson:"first_name" validate:"required,min=1,max=100"`
	LastName       string     `json:"last_name" bson:"last_name" validate:"required,min=1,max=100"`
	Phone          string     `json:"phone" bson:"phone" validate:"required,e164"`
	Email          string     `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email,max=254"`
	DocumentNumber string     `json:"document_number,omitempty" bson:"document_number,omitempty" validate:"omitempty,min=3,max=50"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty" bson:"date_of_birth,omitempty" validate:"omitempty,past_date"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at"`
}

type GuestUpdate struct {
	FirstName      *string    `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName       *string    `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone          *string    `json:"phone,omitempty" validate:"omitempty,e164"`
	Email          *string    `json:"email,omitempty" validate:"omitempty,email,max=254"`
	DocumentNumber *string    `json:"document_number,omitempty" validate:"omitempty,min=3,max=50"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty" validate:"omitempty,past_date"`
}
