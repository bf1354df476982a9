package pos

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aquamarinepk/aqm"

	"github.com/phohaitrieu/pos/internal/backend"
)

// HistoryItem is one merged line of a history bucket. Toppings are kept as
// a sorted set so repeated pushes for the same dish stay stable.
type HistoryItem struct {
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	Note     string   `json:"note,omitempty"`
	Toppings []string `json:"toppings,omitempty"`
}

// DineInEntry is one raw order inside a bucket. Entries keep their order id
// so a single kitchen run can be completed without settling the group.
type DineInEntry struct {
	OrderID string        `json:"orderId,omitempty"`
	Items   []HistoryItem `json:"items"`
}

// DineInBucket collects the orders of a single table group. Pushes for the
// same table and group land in the one bucket instead of stacking as
// separate cards, but each order stays its own entry.
type DineInBucket struct {
	TableID   int           `json:"tableId"`
	GroupID   int           `json:"groupId"`
	GroupName string        `json:"groupName"`
	Entries   []DineInEntry `json:"entries"`
}

func (b DineInBucket) key() string {
	return fmt.Sprintf("%d-%d", b.TableID, b.GroupID)
}

// TakeawayOrder is one takeaway card on the history screen.
type TakeawayOrder struct {
	ID    string        `json:"id"`
	Items []HistoryItem `json:"items"`
}

// HistoryState keeps the order history screen: takeaway cards and dine-in
// buckets keyed by table and group. Full fetches and realtime pushes both
// land here and produce the same grouping, so a pushed order and a fetched
// one never diverge. Fetch responses carry a monotonic token; a stale
// response never overwrites newer state.
type HistoryState struct {
	mu     sync.Mutex
	orders OrderHistoryAPI
	tables TableOrderAPI
	logger aqm.Logger

	takeaway []TakeawayOrder
	dineIn   map[string]*DineInBucket
	seen     map[string]struct{}

	seq     uint64
	applied uint64
}

func NewHistoryState(orders OrderHistoryAPI, tables TableOrderAPI, logger aqm.Logger) *HistoryState {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &HistoryState{
		orders: orders,
		tables: tables,
		logger: logger,
		dineIn: make(map[string]*DineInBucket),
		seen:   make(map[string]struct{}),
	}
}

func historyItems(items []backend.OrderItem) []HistoryItem {
	out := make([]HistoryItem, 0, len(items))
	for _, item := range items {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		toppings := item.Toppings.Names()
		sort.Strings(toppings)
		out = append(out, HistoryItem{
			Name:     item.DisplayName(),
			Quantity: quantity,
			Note:     item.Note,
			Toppings: toppings,
		})
	}
	return out
}

// mergeItems folds incoming lines into existing ones within a single entry.
// Lines with the same dish name and note combine: quantities add up, topping
// sets union.
func mergeItems(existing []HistoryItem, incoming []HistoryItem) []HistoryItem {
	for _, in := range incoming {
		merged := false
		for i := range existing {
			if existing[i].Name == in.Name && existing[i].Note == in.Note {
				existing[i].Quantity += in.Quantity
				existing[i].Toppings = unionToppings(existing[i].Toppings, in.Toppings)
				merged = true
				break
			}
		}
		if !merged {
			existing = append(existing, in)
		}
	}
	return existing
}

func unionToppings(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	set := make(map[string]struct{}, len(a)+len(b))
	for _, name := range a {
		set[name] = struct{}{}
	}
	for _, name := range b {
		set[name] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Fetch rebuilds the whole screen from the backend's flat order list. The
// same grouping rule used for pushes applies, so multiple records for one
// table group land in a single bucket while staying separate entries.
func (h *HistoryState) Fetch(ctx context.Context) error {
	h.mu.Lock()
	h.seq++
	token := h.seq
	h.mu.Unlock()

	orders, err := h.orders.ListOrders(ctx)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if token <= h.applied {
		h.logger.Debug("discarding stale order history response")
		return nil
	}
	h.applied = token

	h.takeaway = nil
	h.dineIn = make(map[string]*DineInBucket)
	h.seen = make(map[string]struct{})

	for _, order := range orders {
		h.applyLocked(order)
	}
	return nil
}

// ApplyUpdate folds one pushed order into the screen without a refetch.
func (h *HistoryState) ApplyUpdate(order backend.Order) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.applyLocked(order)
}

func (h *HistoryState) applyLocked(order backend.Order) {
	items := mergeItems(nil, historyItems(order.Items))

	if !order.IsDineIn() {
		if order.ID != "" {
			if _, dup := h.seen[order.ID]; dup {
				return
			}
			h.seen[order.ID] = struct{}{}
		}
		h.takeaway = append(h.takeaway, TakeawayOrder{ID: order.ID, Items: items})
		return
	}

	bucket := DineInBucket{
		TableID:   order.TableID,
		GroupID:   order.GroupID,
		GroupName: order.GroupName,
	}
	key := bucket.key()

	existing, ok := h.dineIn[key]
	if !ok {
		bucket.Entries = []DineInEntry{{OrderID: order.ID, Items: items}}
		h.dineIn[key] = &bucket
		return
	}

	if existing.GroupName == "" {
		existing.GroupName = order.GroupName
	}
	if order.ID != "" {
		for i := range existing.Entries {
			// A repeated push for a known order carries the full record;
			// the latest one wins instead of double counting.
			if existing.Entries[i].OrderID == order.ID {
				existing.Entries[i].Items = items
				return
			}
		}
	}
	existing.Entries = append(existing.Entries, DineInEntry{OrderID: order.ID, Items: items})
}

// Takeaway returns the takeaway cards in arrival order.
func (h *HistoryState) Takeaway() []TakeawayOrder {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]TakeawayOrder, len(h.takeaway))
	copy(out, h.takeaway)
	return out
}

// DineIn returns the table buckets sorted by table then group, so the
// screen renders in a stable order.
func (h *HistoryState) DineIn() []DineInBucket {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]DineInBucket, 0, len(h.dineIn))
	for _, bucket := range h.dineIn {
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TableID != out[j].TableID {
			return out[i].TableID < out[j].TableID
		}
		return out[i].GroupID < out[j].GroupID
	})
	return out
}

// CompleteTakeaway marks a takeaway order done: the backend record is
// deleted, then the screen refetches.
func (h *HistoryState) CompleteTakeaway(ctx context.Context, id string) error {
	if err := h.orders.DeleteOrder(ctx, id); err != nil {
		return err
	}
	return h.Fetch(ctx)
}

// CompleteDineIn marks one dine-in order done without settling the group:
// its backend record is deleted, then the screen refetches. The bucket stays
// as long as other entries remain.
func (h *HistoryState) CompleteDineIn(ctx context.Context, id string) error {
	if err := h.orders.DeleteOrder(ctx, id); err != nil {
		return err
	}
	return h.Fetch(ctx)
}

// SettleGroup pays out a dine-in bucket. Payment is the group close: the
// backend settles the bill, then the screen refetches.
func (h *HistoryState) SettleGroup(ctx context.Context, tableID, groupID int) error {
	if h.tables == nil {
		return fmt.Errorf("table client not configured")
	}
	err := h.tables.CloseGroup(ctx, backend.CloseGroupRequest{TableID: tableID, GroupID: groupID})
	if err != nil {
		return err
	}
	return h.Fetch(ctx)
}
