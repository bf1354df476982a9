package backend

import (
	"context"
	"fmt"

	"github.com/aquamarinepk/aqm"
)

// CartContents mirrors the server-held cart payload.
type CartContents struct {
	Items []CartLine `json:"items"`
}

// CartLine is a pending selection inside the server-held cart. Toppings are
// plain names here; the cart endpoint never uses the object encoding.
type CartLine struct {
	DishID   string   `json:"dishId"`
	Toppings []string `json:"toppings"`
	Quantity int      `json:"quantity"`
	Note     string   `json:"note"`
}

// CheckoutRequest posts the whole cart as one order batch.
type CheckoutRequest struct {
	Items []CartLine `json:"items"`
}

// CartDataAccess centralizes decoding of cart responses.
type CartDataAccess struct {
	client *aqm.ServiceClient
}

func NewCartDataAccess(client *aqm.ServiceClient) *CartDataAccess {
	return &CartDataAccess{client: client}
}

func (da *CartDataAccess) GetCart(ctx context.Context) (*CartContents, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("cart client not configured")
	}

	resp, err := da.client.Request(ctx, "GET", "/cart", nil)
	if err != nil {
		return nil, err
	}

	var cart CartContents
	if err := decodeSuccessResponse(resp, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

func (da *CartDataAccess) Checkout(ctx context.Context, payload CheckoutRequest) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("cart client not configured")
	}
	if len(payload.Items) == 0 {
		return fmt.Errorf("empty checkout payload")
	}

	_, err := da.client.Request(ctx, "POST", "/orders/checkout", payload)
	return err
}

func (da *CartDataAccess) Clear(ctx context.Context) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("cart client not configured")
	}

	_, err := da.client.Request(ctx, "DELETE", "/cart", nil)
	return err
}
