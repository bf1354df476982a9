package backend

import (
	"context"
	"fmt"

	"github.com/aquamarinepk/aqm"
)

// Dish mirrors the dish catalog payload returned by the backend. Prices are
// VND amounts, so integers are exact.
type Dish struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// MenuDataAccess centralizes decoding of dish and topping catalog responses.
type MenuDataAccess struct {
	client *aqm.ServiceClient
}

func NewMenuDataAccess(client *aqm.ServiceClient) *MenuDataAccess {
	return &MenuDataAccess{client: client}
}

func (da *MenuDataAccess) ListDishes(ctx context.Context) ([]Dish, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("menu client not configured")
	}

	resp, err := da.client.List(ctx, "dish")
	if err != nil {
		return nil, err
	}

	var dishes []Dish
	if err := decodeSuccessResponse(resp, &dishes); err != nil {
		return nil, err
	}

	return dishes, nil
}

func (da *MenuDataAccess) GetDish(ctx context.Context, id string) (*Dish, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("menu client not configured")
	}
	if id == "" {
		return nil, fmt.Errorf("missing dish id")
	}

	resp, err := da.client.Get(ctx, "dish", id)
	if err != nil {
		return nil, err
	}

	var dish Dish
	if err := decodeSuccessResponse(resp, &dish); err != nil {
		return nil, err
	}

	return &dish, nil
}

func (da *MenuDataAccess) ListToppings(ctx context.Context) ([]Topping, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("menu client not configured")
	}

	resp, err := da.client.List(ctx, "topping")
	if err != nil {
		return nil, err
	}

	var toppings []Topping
	if err := decodeSuccessResponse(resp, &toppings); err != nil {
		return nil, err
	}

	return toppings, nil
}
