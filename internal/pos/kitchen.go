package pos

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aquamarinepk/aqm"

	"github.com/phohaitrieu/pos/internal/backend"
	"github.com/phohaitrieu/pos/pkg/event"
)

// KitchenTicket is one card on the kitchen board. Origin is either the
// table group label or a takeaway marker.
type KitchenTicket struct {
	ID         string        `json:"id"`
	Kind       string        `json:"kind"`
	Origin     string        `json:"origin"`
	Items      []HistoryItem `json:"items"`
	ReceivedAt time.Time     `json:"receivedAt"`
}

// KitchenBoard shows incoming orders to the kitchen. It is warmed with the
// current backlog on startup and then appended to by realtime pushes,
// deduplicating on order id so a push racing the warm load cannot double a
// ticket.
type KitchenBoard struct {
	mu     sync.Mutex
	orders OrderHistoryAPI
	logger aqm.Logger

	tickets []KitchenTicket
	seen    map[string]struct{}
}

func NewKitchenBoard(orders OrderHistoryAPI, logger aqm.Logger) *KitchenBoard {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &KitchenBoard{orders: orders, logger: logger, seen: make(map[string]struct{})}
}

func ticketOrigin(order backend.Order) string {
	if !order.IsDineIn() {
		return "Mang về"
	}
	label := order.GroupName
	if label == "" {
		label = fmt.Sprintf("%s %d", groupNamePrefix, order.GroupID)
	}
	return fmt.Sprintf("Bàn %d · %s", order.TableID, label)
}

func (b *KitchenBoard) ticketFor(order backend.Order, receivedAt time.Time) KitchenTicket {
	kind := event.OrderKindTakeaway
	if order.IsDineIn() {
		kind = event.OrderKindTable
	}
	return KitchenTicket{
		ID:         order.ID,
		Kind:       kind,
		Origin:     ticketOrigin(order),
		Items:      historyItems(order.Items),
		ReceivedAt: receivedAt,
	}
}

// Load warms the board with the backend's current backlog.
func (b *KitchenBoard) Load(ctx context.Context) error {
	orders, err := b.orders.ListOrders(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, order := range orders {
		b.pushLocked(b.ticketFor(order, now))
	}
	return nil
}

// Push appends a realtime order to the board.
func (b *KitchenBoard) Push(order backend.Order, receivedAt time.Time) {
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pushLocked(b.ticketFor(order, receivedAt))
}

func (b *KitchenBoard) pushLocked(ticket KitchenTicket) {
	if ticket.ID != "" {
		if _, dup := b.seen[ticket.ID]; dup {
			return
		}
		b.seen[ticket.ID] = struct{}{}
	}
	b.tickets = append(b.tickets, ticket)
}

// Tickets returns the board in arrival order, oldest first.
func (b *KitchenBoard) Tickets() []KitchenTicket {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]KitchenTicket, len(b.tickets))
	copy(out, b.tickets)
	return out
}

// Complete clears a finished ticket from the board and deletes the backend
// record, so a later warm load does not bring it back.
func (b *KitchenBoard) Complete(ctx context.Context, id string) error {
	if err := b.orders.DeleteOrder(ctx, id); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ticket := range b.tickets {
		if ticket.ID == id {
			b.tickets = append(b.tickets[:i], b.tickets[i+1:]...)
			break
		}
	}
	return nil
}
