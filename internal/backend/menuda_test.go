package backend

import (
	"context"
	"testing"
)

func TestNewMenuDataAccess(t *testing.T) {
	da := NewMenuDataAccess(nil)
	if da == nil {
		t.Error("NewMenuDataAccess() returned nil")
	}
}

func TestMenuDataAccessListDishesNilClient(t *testing.T) {
	da := &MenuDataAccess{client: nil}

	_, err := da.ListDishes(context.Background())
	if err == nil {
		t.Error("ListDishes() with nil client should return error")
	}
}

func TestMenuDataAccessListDishesNilDA(t *testing.T) {
	var da *MenuDataAccess

	_, err := da.ListDishes(context.Background())
	if err == nil {
		t.Error("ListDishes() with nil DA should return error")
	}
}

func TestMenuDataAccessGetDishMissingID(t *testing.T) {
	da := NewMenuDataAccess(nil)

	_, err := da.GetDish(context.Background(), "")
	if err == nil {
		t.Error("GetDish() with empty id should return error")
	}
}

func TestMenuDataAccessListToppingsNilClient(t *testing.T) {
	da := &MenuDataAccess{client: nil}

	_, err := da.ListToppings(context.Background())
	if err == nil {
		t.Error("ListToppings() with nil client should return error")
	}
}
