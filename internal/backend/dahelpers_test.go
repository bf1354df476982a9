package backend

import (
	"testing"

	"github.com/aquamarinepk/aqm"
)

func TestDecodeSuccessResponseNil(t *testing.T) {
	var dest []Dish
	if err := decodeSuccessResponse(nil, &dest); err == nil {
		t.Error("decodeSuccessResponse(nil) should return error")
	}
}

func TestDecodeSuccessResponse(t *testing.T) {
	resp := &aqm.SuccessResponse{Data: []map[string]interface{}{
		{"id": "d1", "name": "Phở Bò", "price": 50000},
	}}

	var dest []Dish
	if err := decodeSuccessResponse(resp, &dest); err != nil {
		t.Fatalf("decodeSuccessResponse() failed: %v", err)
	}
	if len(dest) != 1 || dest[0].Name != "Phở Bò" || dest[0].Price != 50000 {
		t.Errorf("decoded = %+v", dest)
	}
}

func TestDecodeSuccessResponseShapeMismatch(t *testing.T) {
	resp := &aqm.SuccessResponse{Data: "not a list"}

	var dest []Dish
	if err := decodeSuccessResponse(resp, &dest); err == nil {
		t.Error("decodeSuccessResponse() should fail on shape mismatch")
	}
}
