package model

import "github.com/shopspring/decimal"

type Room struct {
	ID                 string          `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Number             string          `json:"number" bson:"number" validate:"required,min=1,max=10"`
	Floor              int             `json:"floor" bson:"floor" validate:"min=-5,max=200"`
	RoomTypeID         RoomType        `json:"room_type_id" bson:"room_type_id" validate:"required,room_type"`
	Capacity           int             `json:"capacity" bson:"capacity" validate:"required,min=1,max=20"`
	PricePerNight      decimal.Decimal `json:"price_per_night" bson:"price_per_night" validate:"money"`
	IsAvailable        bool            `json:"is_available" bson:"is_available"`
	HasWifi            bool            `json:"has_wifi" bson:"has_wifi"`
	HasAirConditioning bool            `json:"has_air_conditioning" bson:"has_air_conditioning"`
	HasMinibar         bool            `json:"has_minibar" bson:"has_minibar"`
	HasBalcony         bool            `json:"has_balcony" bson:"has_balcony"`
	HasSeaView         bool            `json:"has_sea_view" bson:"has_sea_view"`
	Description        string          `json:"description,omitempty" bson:"description,omitempty" validate:"max=2000"`
}

type RoomUpdate struct {
	Number             *string          `json:"number,omitempty" validate:"omitempty,min=1,max=10"`
	Floor              *int             `json:"floor,omitempty" validate:"omitempty,min=-5,max=200"`
	RoomTypeID         *RoomType        `json:"room_type_id,omitempty" validate:"omitempty,room_type"`
	Capacity           *int             `json:"capacity,omitempty" validate:"omitempty,min=1,max=20"`
	PricePerNight      *decimal.Decimal `json:"price_per_night,omitempty" validate:"omitempty,money"`
	IsAvailable        *bool            `json:"is_available,omitempty"`
	HasWifi            *bool            `json:"has_wifi,omitempty"`
	HasAirConditioning *bool            `json:"has_air_conditioning,omitempty"`
	HasMinibar         *bool            `json:"has_minibar,omitempty"`
	HasBalcony         *bool            `json:"has_balcony,omitempty"`
	HasSeaView         *bool            `json:"has_sea_view,omitempty"`
	Description        *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// RoomFilter narrows room listings. Nil amenity flags are ignored.
type RoomFilter struct {
	RoomTypeID         RoomType
	MinCapacity        int
	OnlyAvailable      bool
	HasWifi            *bool
	HasAirConditioning *bool
	HasMinibar         *bool
	HasBalcony         *bool
	HasSeaView         *bool
}
