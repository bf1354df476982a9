package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/aquamarinepk/aqm"
)

// Order mirrors one entry of the flat order list the backend serves for the
// history and kitchen screens. Table fields are zero for takeaway orders.
type Order struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	TableID   int         `json:"tableId"`
	GroupID   int         `json:"groupId"`
	GroupName string      `json:"groupName"`
	Items     []OrderItem `json:"items"`
}

// OrderItem is one line of a historical order. Older backend records carry
// the dish name under "dish", newer ones under "name"; DisplayName resolves
// whichever is set.
type OrderItem struct {
	Dish     string      `json:"dish"`
	Name     string      `json:"name"`
	Quantity int         `json:"quantity"`
	Note     string      `json:"note"`
	Toppings ToppingList `json:"toppings"`
}

func (i OrderItem) DisplayName() string {
	if name := strings.TrimSpace(i.Dish); name != "" {
		return name
	}
	return strings.TrimSpace(i.Name)
}

// IsDineIn reports whether the order belongs on a table. Anything else,
// including records with no type at all, is takeaway.
func (o Order) IsDineIn() bool {
	return o.Type == "table"
}

// OrderDataAccess centralizes decoding of order list responses.
type OrderDataAccess struct {
	client *aqm.ServiceClient
}

func NewOrderDataAccess(client *aqm.ServiceClient) *OrderDataAccess {
	return &OrderDataAccess{client: client}
}

func (da *OrderDataAccess) ListOrders(ctx context.Context) ([]Order, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	resp, err := da.client.List(ctx, "orders")
	if err != nil {
		return nil, err
	}

	var orders []Order
	if err := decodeSuccessResponse(resp, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// DeleteOrder removes a completed order from the backend. The history
// screen's "complete" action maps straight onto this.
func (da *OrderDataAccess) DeleteOrder(ctx context.Context, id string) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("order client not configured")
	}
	if id == "" {
		return fmt.Errorf("missing order id")
	}

	path := fmt.Sprintf("/orders/%s", id)
	_, err := da.client.Request(ctx, "DELETE", path, nil)
	return err
}
