package backend

import (
	"context"
	"fmt"

	"github.com/aquamarinepk/aqm"
)

// Table mirrors the static table enumeration returned by the backend.
type Table struct {
	TableID int `json:"tableId"`
}

// TableOrder is the per-table aggregate: the named groups currently open on
// a table, each with its ordered lines.
type TableOrder struct {
	TableID int     `json:"tableId"`
	Groups  []Group `json:"groups"`
}

// Group is a named sub-tab of a table's order, used to split the bill.
type Group struct {
	GroupID   int         `json:"groupId"`
	GroupName string      `json:"groupName"`
	Orders    []OrderLine `json:"orders"`
}

// OrderLine is one ordered dish inside a group.
type OrderLine struct {
	DishID   string      `json:"dishId"`
	Name     string      `json:"name"`
	Toppings ToppingList `json:"toppings"`
	Quantity int         `json:"quantity"`
	Price    int         `json:"price"`
}

// CreateGroupRequest defines the payload accepted by the backend when a new
// group is opened on a table.
type CreateGroupRequest struct {
	TableID   int    `json:"tableId"`
	GroupName string `json:"groupName"`
}

// CloseGroupRequest identifies the group being closed. Closing covers both
// cancellation and payment; the backend keeps whatever records it needs.
type CloseGroupRequest struct {
	TableID int `json:"tableId"`
	GroupID int `json:"groupId"`
}

// AddDishRequest appends a dish to a group.
type AddDishRequest struct {
	TableID  int      `json:"tableId"`
	GroupID  int      `json:"groupId"`
	DishID   string   `json:"dishId"`
	Toppings []string `json:"toppings,omitempty"`
	Note     string   `json:"note,omitempty"`
}

// RemoveDishRequest removes a dish line from a group.
type RemoveDishRequest struct {
	TableID int    `json:"tableId"`
	GroupID int    `json:"groupId"`
	DishID  string `json:"dishId"`
}

// UpdateQuantityRequest persists an edited line quantity.
type UpdateQuantityRequest struct {
	TableID  int    `json:"tableId"`
	GroupID  int    `json:"groupId"`
	DishID   string `json:"dishId"`
	Quantity int    `json:"quantity"`
}

// TableOrderDataAccess centralizes decoding of table and table-order
// responses.
type TableOrderDataAccess struct {
	client *aqm.ServiceClient
}

func NewTableOrderDataAccess(client *aqm.ServiceClient) *TableOrderDataAccess {
	return &TableOrderDataAccess{client: client}
}

func (da *TableOrderDataAccess) ListTables(ctx context.Context) ([]Table, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("table client not configured")
	}

	resp, err := da.client.List(ctx, "tables")
	if err != nil {
		return nil, err
	}

	var tables []Table
	if err := decodeSuccessResponse(resp, &tables); err != nil {
		return nil, err
	}

	return tables, nil
}

func (da *TableOrderDataAccess) ListTableOrders(ctx context.Context) ([]TableOrder, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("table client not configured")
	}

	resp, err := da.client.List(ctx, "table-order")
	if err != nil {
		return nil, err
	}

	var orders []TableOrder
	if err := decodeSuccessResponse(resp, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (da *TableOrderDataAccess) CreateGroup(ctx context.Context, payload CreateGroupRequest) (*Group, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("table client not configured")
	}
	if payload.GroupName == "" {
		return nil, fmt.Errorf("missing group name")
	}

	resp, err := da.client.Request(ctx, "POST", "/table-order/create-group", payload)
	if err != nil {
		return nil, err
	}

	var group Group
	if err := decodeSuccessResponse(resp, &group); err != nil {
		return nil, err
	}

	return &group, nil
}

func (da *TableOrderDataAccess) CloseGroup(ctx context.Context, payload CloseGroupRequest) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("table client not configured")
	}

	_, err := da.client.Request(ctx, "DELETE", "/table-order", payload)
	return err
}

func (da *TableOrderDataAccess) AddDish(ctx context.Context, payload AddDishRequest) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("table client not configured")
	}
	if payload.DishID == "" {
		return fmt.Errorf("missing dish id")
	}

	_, err := da.client.Request(ctx, "POST", "/table-order", payload)
	return err
}

func (da *TableOrderDataAccess) RemoveDish(ctx context.Context, payload RemoveDishRequest) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("table client not configured")
	}
	if payload.DishID == "" {
		return fmt.Errorf("missing dish id")
	}

	_, err := da.client.Request(ctx, "DELETE", "/table-order/remove-dish", payload)
	return err
}

func (da *TableOrderDataAccess) UpdateQuantity(ctx context.Context, payload UpdateQuantityRequest) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("table client not configured")
	}
	if payload.DishID == "" {
		return fmt.Errorf("missing dish id")
	}
	if payload.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}

	_, err := da.client.Request(ctx, "PATCH", "/table-order/update-quantity", payload)
	return err
}
