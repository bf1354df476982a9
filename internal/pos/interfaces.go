package pos

import (
	"context"

	"github.com/phohaitrieu/pos/internal/backend"
)

// The screen cores talk to the backend through these interfaces so tests can
// substitute fakes. The production implementations live in internal/backend.

type MenuAPI interface {
	ListDishes(ctx context.Context) ([]backend.Dish, error)
	GetDish(ctx context.Context, id string) (*backend.Dish, error)
	ListToppings(ctx context.Context) ([]backend.Topping, error)
}

type CartAPI interface {
	GetCart(ctx context.Context) (*backend.CartContents, error)
	Checkout(ctx context.Context, payload backend.CheckoutRequest) error
	Clear(ctx context.Context) error
}

type TableOrderAPI interface {
	ListTables(ctx context.Context) ([]backend.Table, error)
	ListTableOrders(ctx context.Context) ([]backend.TableOrder, error)
	CreateGroup(ctx context.Context, payload backend.CreateGroupRequest) (*backend.Group, error)
	CloseGroup(ctx context.Context, payload backend.CloseGroupRequest) error
	AddDish(ctx context.Context, payload backend.AddDishRequest) error
	RemoveDish(ctx context.Context, payload backend.RemoveDishRequest) error
	UpdateQuantity(ctx context.Context, payload backend.UpdateQuantityRequest) error
}

type OrderHistoryAPI interface {
	ListOrders(ctx context.Context) ([]backend.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

type HotpotAPI interface {
	ListHotpots(ctx context.Context) ([]backend.Hotpot, error)
	CreateHotpot(ctx context.Context, payload backend.HotpotRequest) (*backend.Hotpot, error)
	UpdateHotpot(ctx context.Context, id string, payload backend.HotpotRequest) error
	DeleteHotpot(ctx context.Context, id string) error
}
