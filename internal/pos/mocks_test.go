package pos

import (
	"context"
	"errors"
	"sync"

	"github.com/aquamarinepk/aqm/events"

	"github.com/phohaitrieu/pos/internal/backend"
)

// MockMenuAPI implements MenuAPI for testing
type MockMenuAPI struct {
	ListDishesFunc   func(ctx context.Context) ([]backend.Dish, error)
	GetDishFunc      func(ctx context.Context, id string) (*backend.Dish, error)
	ListToppingsFunc func(ctx context.Context) ([]backend.Topping, error)
}

func (m *MockMenuAPI) ListDishes(ctx context.Context) ([]backend.Dish, error) {
	if m.ListDishesFunc != nil {
		return m.ListDishesFunc(ctx)
	}
	return nil, nil
}

func (m *MockMenuAPI) GetDish(ctx context.Context, id string) (*backend.Dish, error) {
	if m.GetDishFunc != nil {
		return m.GetDishFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *MockMenuAPI) ListToppings(ctx context.Context) ([]backend.Topping, error) {
	if m.ListToppingsFunc != nil {
		return m.ListToppingsFunc(ctx)
	}
	return nil, nil
}

// MockCartAPI implements CartAPI for testing
type MockCartAPI struct {
	GetCartFunc  func(ctx context.Context) (*backend.CartContents, error)
	CheckoutFunc func(ctx context.Context, payload backend.CheckoutRequest) error
	ClearFunc    func(ctx context.Context) error

	CheckoutCalls []backend.CheckoutRequest
}

func (m *MockCartAPI) GetCart(ctx context.Context) (*backend.CartContents, error) {
	if m.GetCartFunc != nil {
		return m.GetCartFunc(ctx)
	}
	return &backend.CartContents{}, nil
}

func (m *MockCartAPI) Checkout(ctx context.Context, payload backend.CheckoutRequest) error {
	m.CheckoutCalls = append(m.CheckoutCalls, payload)
	if m.CheckoutFunc != nil {
		return m.CheckoutFunc(ctx, payload)
	}
	return nil
}

func (m *MockCartAPI) Clear(ctx context.Context) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	return nil
}

// MockTableOrderAPI implements TableOrderAPI for testing
type MockTableOrderAPI struct {
	ListTablesFunc      func(ctx context.Context) ([]backend.Table, error)
	ListTableOrdersFunc func(ctx context.Context) ([]backend.TableOrder, error)
	CreateGroupFunc     func(ctx context.Context, payload backend.CreateGroupRequest) (*backend.Group, error)
	CloseGroupFunc      func(ctx context.Context, payload backend.CloseGroupRequest) error
	AddDishFunc         func(ctx context.Context, payload backend.AddDishRequest) error
	RemoveDishFunc      func(ctx context.Context, payload backend.RemoveDishRequest) error
	UpdateQuantityFunc  func(ctx context.Context, payload backend.UpdateQuantityRequest) error

	CreateGroupCalls    []backend.CreateGroupRequest
	CloseGroupCalls     []backend.CloseGroupRequest
	AddDishCalls        []backend.AddDishRequest
	RemoveDishCalls     []backend.RemoveDishRequest
	UpdateQuantityCalls []backend.UpdateQuantityRequest
	ListCalls           int
}

func (m *MockTableOrderAPI) ListTables(ctx context.Context) ([]backend.Table, error) {
	if m.ListTablesFunc != nil {
		return m.ListTablesFunc(ctx)
	}
	return nil, nil
}

func (m *MockTableOrderAPI) ListTableOrders(ctx context.Context) ([]backend.TableOrder, error) {
	m.ListCalls++
	if m.ListTableOrdersFunc != nil {
		return m.ListTableOrdersFunc(ctx)
	}
	return nil, nil
}

func (m *MockTableOrderAPI) CreateGroup(ctx context.Context, payload backend.CreateGroupRequest) (*backend.Group, error) {
	m.CreateGroupCalls = append(m.CreateGroupCalls, payload)
	if m.CreateGroupFunc != nil {
		return m.CreateGroupFunc(ctx, payload)
	}
	return &backend.Group{GroupName: payload.GroupName}, nil
}

func (m *MockTableOrderAPI) CloseGroup(ctx context.Context, payload backend.CloseGroupRequest) error {
	m.CloseGroupCalls = append(m.CloseGroupCalls, payload)
	if m.CloseGroupFunc != nil {
		return m.CloseGroupFunc(ctx, payload)
	}
	return nil
}

func (m *MockTableOrderAPI) AddDish(ctx context.Context, payload backend.AddDishRequest) error {
	m.AddDishCalls = append(m.AddDishCalls, payload)
	if m.AddDishFunc != nil {
		return m.AddDishFunc(ctx, payload)
	}
	return nil
}

func (m *MockTableOrderAPI) RemoveDish(ctx context.Context, payload backend.RemoveDishRequest) error {
	m.RemoveDishCalls = append(m.RemoveDishCalls, payload)
	if m.RemoveDishFunc != nil {
		return m.RemoveDishFunc(ctx, payload)
	}
	return nil
}

func (m *MockTableOrderAPI) UpdateQuantity(ctx context.Context, payload backend.UpdateQuantityRequest) error {
	m.UpdateQuantityCalls = append(m.UpdateQuantityCalls, payload)
	if m.UpdateQuantityFunc != nil {
		return m.UpdateQuantityFunc(ctx, payload)
	}
	return nil
}

// MockOrderHistoryAPI implements OrderHistoryAPI for testing
type MockOrderHistoryAPI struct {
	ListOrdersFunc  func(ctx context.Context) ([]backend.Order, error)
	DeleteOrderFunc func(ctx context.Context, id string) error

	DeleteCalls []string
	ListCalls   int
}

func (m *MockOrderHistoryAPI) ListOrders(ctx context.Context) ([]backend.Order, error) {
	m.ListCalls++
	if m.ListOrdersFunc != nil {
		return m.ListOrdersFunc(ctx)
	}
	return nil, nil
}

func (m *MockOrderHistoryAPI) DeleteOrder(ctx context.Context, id string) error {
	m.DeleteCalls = append(m.DeleteCalls, id)
	if m.DeleteOrderFunc != nil {
		return m.DeleteOrderFunc(ctx, id)
	}
	return nil
}

// MockHotpotAPI implements HotpotAPI for testing
type MockHotpotAPI struct {
	ListHotpotsFunc  func(ctx context.Context) ([]backend.Hotpot, error)
	CreateHotpotFunc func(ctx context.Context, payload backend.HotpotRequest) (*backend.Hotpot, error)
	UpdateHotpotFunc func(ctx context.Context, id string, payload backend.HotpotRequest) error
	DeleteHotpotFunc func(ctx context.Context, id string) error

	CreateCalls []backend.HotpotRequest
	DeleteCalls []string
}

func (m *MockHotpotAPI) ListHotpots(ctx context.Context) ([]backend.Hotpot, error) {
	if m.ListHotpotsFunc != nil {
		return m.ListHotpotsFunc(ctx)
	}
	return nil, nil
}

func (m *MockHotpotAPI) CreateHotpot(ctx context.Context, payload backend.HotpotRequest) (*backend.Hotpot, error) {
	m.CreateCalls = append(m.CreateCalls, payload)
	if m.CreateHotpotFunc != nil {
		return m.CreateHotpotFunc(ctx, payload)
	}
	return &backend.Hotpot{ID: "hp-1", Price: payload.Price, Note: payload.Note}, nil
}

func (m *MockHotpotAPI) UpdateHotpot(ctx context.Context, id string, payload backend.HotpotRequest) error {
	if m.UpdateHotpotFunc != nil {
		return m.UpdateHotpotFunc(ctx, id, payload)
	}
	return nil
}

func (m *MockHotpotAPI) DeleteHotpot(ctx context.Context, id string) error {
	m.DeleteCalls = append(m.DeleteCalls, id)
	if m.DeleteHotpotFunc != nil {
		return m.DeleteHotpotFunc(ctx, id)
	}
	return nil
}

// MockPublisher records published events
type MockPublisher struct {
	mu       sync.Mutex
	Messages []PublishedMessage
	Err      error
}

type PublishedMessage struct {
	Topic string
	Data  []byte
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, PublishedMessage{Topic: topic, Data: msg})
	return nil
}

func (m *MockPublisher) Published(topic string) []PublishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []PublishedMessage
	for _, msg := range m.Messages {
		if msg.Topic == topic {
			out = append(out, msg)
		}
	}
	return out
}

// MockSubscriber captures topic handlers so tests can feed events in
type MockSubscriber struct {
	mu       sync.Mutex
	handlers map[string][]events.HandlerFunc
}

func (m *MockSubscriber) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handlers == nil {
		m.handlers = make(map[string][]events.HandlerFunc)
	}
	m.handlers[topic] = append(m.handlers[topic], handler)
	return nil
}

func (m *MockSubscriber) Emit(ctx context.Context, topic string, msg []byte) error {
	m.mu.Lock()
	handlers := append([]events.HandlerFunc(nil), m.handlers[topic]...)
	m.mu.Unlock()

	var firstErr error
	for _, handler := range handlers {
		if err := handler(ctx, msg); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
