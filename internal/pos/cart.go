package pos

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/google/uuid"

	"github.com/phohaitrieu/pos/internal/backend"
	"github.com/phohaitrieu/pos/pkg/event"
)

// ErrNoDishSelected is returned when add-to-cart runs without a dish pick.
// The message is shown to the waiter verbatim.
var ErrNoDishSelected = errors.New("Vui lòng chọn món ăn")

// ErrEmptyCart is returned when checkout runs with nothing in the cart.
var ErrEmptyCart = errors.New("Giỏ hàng trống")

// ErrToppingRequired is returned when a dish whose rule demands a topping
// is added without one.
var ErrToppingRequired = errors.New("Vui lòng chọn topping")

// CartItem is one aggregated cart line. Lines are identified by dish,
// topping set and note; adding the same combination again bumps Quantity.
// ID is a client-side handle for the increase/decrease endpoints.
type CartItem struct {
	ID       string   `json:"id"`
	DishID   string   `json:"dishId"`
	Name     string   `json:"name"`
	Toppings []string `json:"toppings,omitempty"`
	Note     string   `json:"note,omitempty"`
	Quantity int      `json:"quantity"`
	Price    int      `json:"price"`
}

func (i CartItem) key() string {
	return i.DishID + "|" + strings.Join(i.Toppings, ",") + "|" + i.Note
}

// Cart holds the takeaway cart of one device. Aggregation happens locally;
// checkout hands the lines to the backend in one request and emits the
// outbound order event for kitchen displays.
type Cart struct {
	mu        sync.Mutex
	api       CartAPI
	rules     ToppingRules
	publisher events.Publisher
	logger    aqm.Logger

	items []CartItem
}

func NewCart(api CartAPI, rules ToppingRules, publisher events.Publisher, logger aqm.Logger) *Cart {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if rules == nil {
		rules = DefaultToppingRules()
	}
	return &Cart{api: api, rules: rules, publisher: publisher, logger: logger}
}

// Add turns the current menu selection into a cart line. Identical
// selections collapse into one line with a higher quantity; a different
// topping set on the same dish stays a separate line. Dishes whose rule
// demands a topping are rejected until one is picked.
func (c *Cart) Add(sel Selection) error {
	if sel.Dish == nil {
		return ErrNoDishSelected
	}
	if c.rules.For(sel.Dish.Name) == RuleRequiredTopping && len(backend.NormalizeToppings(sel.Toppings)) == 0 {
		return ErrToppingRequired
	}

	item := CartItem{
		ID:       uuid.NewString(),
		DishID:   sel.Dish.ID,
		Name:     sel.Dish.Name,
		Toppings: backend.NormalizeToppings(sel.Toppings).Names(),
		Note:     strings.TrimSpace(sel.Note),
		Quantity: 1,
		Price:    sel.Dish.Price,
	}
	sort.Strings(item.Toppings)

	c.mu.Lock()
	defer c.mu.Unlock()

	key := item.key()
	for i := range c.items {
		if c.items[i].key() == key {
			c.items[i].Quantity++
			return nil
		}
	}
	c.items = append(c.items, item)
	return nil
}

func (c *Cart) indexLocked(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Increase bumps the quantity of a line. Unknown ids are ignored.
func (c *Cart) Increase(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(id); i >= 0 {
		c.items[i].Quantity++
	}
}

// Decrease lowers the quantity of a line, removing the line when it would
// drop below one.
func (c *Cart) Decrease(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		return
	}
	if c.items[i].Quantity <= 1 {
		c.items = append(c.items[:i], c.items[i+1:]...)
		return
	}
	c.items[i].Quantity--
}

// Remove drops a line regardless of quantity.
func (c *Cart) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(id); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Total is the sum of price times quantity over all lines, in VND.
func (c *Cart) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, item := range c.items {
		total += item.Price * item.Quantity
	}
	return total
}

// Size is the number of distinct lines, not the summed quantity.
func (c *Cart) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Submit checks the cart out as a takeaway order and announces it on the
// realtime channel. The local cart only empties after the backend accepted
// the order; a failed checkout leaves it untouched so the waiter can retry.
func (c *Cart) Submit(ctx context.Context) error {
	c.mu.Lock()
	items := make([]CartItem, len(c.items))
	copy(items, c.items)
	c.mu.Unlock()

	if len(items) == 0 {
		return ErrEmptyCart
	}
	if c.api == nil {
		return errors.New("cart client not configured")
	}

	payload := backend.CheckoutRequest{Items: make([]backend.CartLine, 0, len(items))}
	for _, item := range items {
		payload.Items = append(payload.Items, backend.CartLine{
			DishID:   item.DishID,
			Toppings: item.Toppings,
			Quantity: item.Quantity,
			Note:     item.Note,
		})
	}

	if err := c.api.Checkout(ctx, payload); err != nil {
		return err
	}

	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()

	c.announce(ctx, items)
	return nil
}

// announce publishes the outbound order event. Publish failures are logged
// and swallowed: the order is already placed, displays catch up on the next
// full fetch.
func (c *Cart) announce(ctx context.Context, items []CartItem) {
	if c.publisher == nil {
		return
	}

	order, err := json.Marshal(map[string]interface{}{
		"id":    uuid.NewString(),
		"type":  event.OrderKindTakeaway,
		"items": items,
	})
	if err != nil {
		c.logger.Error("cannot encode outbound order", "error", err)
		return
	}

	msg, err := json.Marshal(event.OrderSentEvent{
		EventType:  event.EventOrderSent,
		OccurredAt: time.Now().UTC(),
		Order:      order,
	})
	if err != nil {
		c.logger.Error("cannot encode order event", "error", err)
		return
	}

	if err := c.publisher.Publish(ctx, event.OrderSendTopic, msg); err != nil {
		c.logger.Error("cannot publish order event", "error", err)
	}
}

// Refresh replaces the local lines with the server-side cart, resolving dish
// names through the lookup. It is used when a device reconnects.
func (c *Cart) Refresh(ctx context.Context, lookup DishLookup) error {
	if c.api == nil {
		return errors.New("cart client not configured")
	}

	contents, err := c.api.GetCart(ctx)
	if err != nil {
		return err
	}

	items := make([]CartItem, 0, len(contents.Items))
	for _, line := range contents.Items {
		toppings := backend.NormalizeToppings(line.Toppings).Names()
		sort.Strings(toppings)
		items = append(items, CartItem{
			ID:       uuid.NewString(),
			DishID:   line.DishID,
			Name:     lookup.Name(line.DishID),
			Toppings: toppings,
			Note:     line.Note,
			Quantity: line.Quantity,
		})
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return nil
}

// Clear empties both the local lines and the server-side cart.
func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()

	if c.api == nil {
		return nil
	}
	return c.api.Clear(ctx)
}
