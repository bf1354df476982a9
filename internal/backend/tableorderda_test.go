package backend

import (
	"context"
	"testing"
)

func TestNewTableOrderDataAccess(t *testing.T) {
	da := NewTableOrderDataAccess(nil)
	if da == nil {
		t.Error("NewTableOrderDataAccess() returned nil")
	}
}

func TestTableOrderDataAccessListTablesNilClient(t *testing.T) {
	da := &TableOrderDataAccess{client: nil}

	_, err := da.ListTables(context.Background())
	if err == nil {
		t.Error("ListTables() with nil client should return error")
	}
}

func TestTableOrderDataAccessListTableOrdersNilDA(t *testing.T) {
	var da *TableOrderDataAccess

	_, err := da.ListTableOrders(context.Background())
	if err == nil {
		t.Error("ListTableOrders() with nil DA should return error")
	}
}

func TestTableOrderDataAccessCreateGroupMissingName(t *testing.T) {
	da := NewTableOrderDataAccess(nil)

	_, err := da.CreateGroup(context.Background(), CreateGroupRequest{TableID: 1})
	if err == nil {
		t.Error("CreateGroup() without a name should return error")
	}
}

func TestTableOrderDataAccessAddDishMissingDishID(t *testing.T) {
	da := NewTableOrderDataAccess(nil)

	err := da.AddDish(context.Background(), AddDishRequest{TableID: 1, GroupID: 1})
	if err == nil {
		t.Error("AddDish() without a dish id should return error")
	}
}

func TestTableOrderDataAccessRemoveDishMissingDishID(t *testing.T) {
	da := NewTableOrderDataAccess(nil)

	err := da.RemoveDish(context.Background(), RemoveDishRequest{TableID: 1, GroupID: 1})
	if err == nil {
		t.Error("RemoveDish() without a dish id should return error")
	}
}

func TestTableOrderDataAccessUpdateQuantityValidation(t *testing.T) {
	da := NewTableOrderDataAccess(nil)

	tests := []struct {
		name    string
		payload UpdateQuantityRequest
	}{
		{"missingDishID", UpdateQuantityRequest{TableID: 1, GroupID: 1, Quantity: 2}},
		{"zeroQuantity", UpdateQuantityRequest{TableID: 1, GroupID: 1, DishID: "d1", Quantity: 0}},
		{"negativeQuantity", UpdateQuantityRequest{TableID: 1, GroupID: 1, DishID: "d1", Quantity: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := da.UpdateQuantity(context.Background(), tt.payload); err == nil {
				t.Errorf("UpdateQuantity(%+v) should return error", tt.payload)
			}
		})
	}
}

func TestTableOrderDataAccessCloseGroupNilClient(t *testing.T) {
	da := &TableOrderDataAccess{client: nil}

	err := da.CloseGroup(context.Background(), CloseGroupRequest{TableID: 1, GroupID: 1})
	if err == nil {
		t.Error("CloseGroup() with nil client should return error")
	}
}
