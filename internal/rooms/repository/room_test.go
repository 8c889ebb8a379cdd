package repository

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"hotelier/pkg/model"
)

func TestBuildFilter(t *testing.T) {
	yes, no := true, false

	filter := buildFilter(model.RoomFilter{
		RoomTypeID:    model.RoomSuite,
		MinCapacity:   3,
		OnlyAvailable: true,
		HasSeaView:    &yes,
		HasMinibar:    &no,
	})

	if filter["room_type_id"] != model.RoomSuite {
		t.Errorf("unexpected room_type_id %v", filter["room_type_id"])
	}
	if c, ok := filter["capacity"].(bson.M); !ok || c["$gte"] != 3 {
		t.Errorf("unexpected capacity filter %v", filter["capacity"])
	}
	if filter["is_available"] != true || filter["has_sea_view"] != true || filter["has_minibar"] != false {
		t.Errorf("unexpected flag filters %v", filter)
	}
	if _, ok := filter["has_wifi"]; ok {
		t.Error("nil amenity flags must not be filtered on")
	}
}

func TestBuildFilter_Empty(t *testing.T) {
	if f := buildFilter(model.RoomFilter{}); len(f) != 0 {
		t.Errorf("expected empty filter, got %v", f)
	}
}
