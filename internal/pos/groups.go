package pos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"

	"github.com/phohaitrieu/pos/internal/backend"
	"github.com/phohaitrieu/pos/pkg/event"
)

// ErrGroupNameTaken is returned when a group name is already open on the
// table, including names whose create request is still in flight.
var ErrGroupNameTaken = errors.New("Tên nhóm đã tồn tại")

// ErrEditInProgress is returned when a second quantity edit starts before
// the first one is confirmed or cancelled.
var ErrEditInProgress = errors.New("edit already in progress")

// ErrLineNotFound is returned when an edit targets a dish that is not on
// the group.
var ErrLineNotFound = errors.New("order line not found")

const groupNamePrefix = "Nhóm"

// GroupDisplayName renders the tab label for a group: its explicit name
// when set, otherwise a numbered default.
func GroupDisplayName(g backend.Group) string {
	if g.GroupName != "" {
		return g.GroupName
	}
	return fmt.Sprintf("%s %d", groupNamePrefix, g.GroupID)
}

// GroupTotal sums price times quantity over the group's lines, in VND.
func GroupTotal(g backend.Group) int {
	total := 0
	for _, line := range g.Orders {
		total += line.Price * line.Quantity
	}
	return total
}

// groupOrdinal extracts the N from a "Nhóm N" name, 0 when the name does
// not follow the default pattern.
func groupOrdinal(name string) int {
	rest, ok := strings.CutPrefix(name, groupNamePrefix+" ")
	if !ok {
		return 0
	}
	n := 0
	for _, r := range rest {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// QuantityEdit is an in-progress quantity change on one order line. The
// change stays local until confirmed; cancelling makes no backend call.
type QuantityEdit struct {
	TableID  int
	GroupID  int
	DishID   string
	Quantity int
}

// TableScreen is the dine-in screen state: open groups per table, one
// optional quantity edit, and names of groups whose creation is still in
// flight. Every mutation goes through the backend and is followed by a
// resync; responses that arrive out of order are discarded via a monotonic
// token so the newest fetch always wins.
type TableScreen struct {
	mu        sync.Mutex
	api       TableOrderAPI
	publisher events.Publisher
	logger    aqm.Logger

	tables  []backend.Table
	orders  map[int]backend.TableOrder
	pending map[int]map[string]struct{}
	edit    *QuantityEdit

	seq     uint64
	applied uint64
}

func NewTableScreen(api TableOrderAPI, publisher events.Publisher, logger aqm.Logger) *TableScreen {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &TableScreen{
		api:       api,
		publisher: publisher,
		logger:    logger,
		orders:    make(map[int]backend.TableOrder),
		pending:   make(map[int]map[string]struct{}),
	}
}

// LoadTables fetches the static table enumeration.
func (s *TableScreen) LoadTables(ctx context.Context) error {
	tables, err := s.api.ListTables(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.tables = tables
	s.mu.Unlock()
	return nil
}

func (s *TableScreen) Tables() []backend.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]backend.Table, len(s.tables))
	copy(out, s.tables)
	return out
}

// Resync refetches all table orders. A token is issued before the request
// goes out; when the response returns, it is applied only if no newer
// response beat it, so a slow fetch cannot overwrite fresher state.
func (s *TableScreen) Resync(ctx context.Context) error {
	s.mu.Lock()
	s.seq++
	token := s.seq
	s.mu.Unlock()

	orders, err := s.api.ListTableOrders(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if token <= s.applied {
		s.logger.Debug("discarding stale table order response")
		return nil
	}
	s.applied = token

	s.orders = make(map[int]backend.TableOrder, len(orders))
	for _, order := range orders {
		s.orders[order.TableID] = order
	}

	// In-flight names confirmed by the server stop being pending.
	for tableID, names := range s.pending {
		for _, group := range s.orders[tableID].Groups {
			delete(names, group.GroupName)
		}
		if len(names) == 0 {
			delete(s.pending, tableID)
		}
	}
	return nil
}

// TableOrder returns the current aggregate for a table. Tables with no open
// groups return an empty aggregate.
func (s *TableScreen) TableOrder(tableID int) backend.TableOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order, ok := s.orders[tableID]; ok {
		return order
	}
	return backend.TableOrder{TableID: tableID}
}

// Groups returns the open groups on a table.
func (s *TableScreen) Groups(tableID int) []backend.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	groups := s.orders[tableID].Groups
	out := make([]backend.Group, len(groups))
	copy(out, groups)
	return out
}

func (s *TableScreen) nameTakenLocked(tableID int, name string) bool {
	for _, group := range s.orders[tableID].Groups {
		if GroupDisplayName(group) == name {
			return true
		}
	}
	_, taken := s.pending[tableID][name]
	return taken
}

// nextGroupNameLocked picks the first free "Nhóm N": one past the highest
// ordinal among open and in-flight groups on the table.
func (s *TableScreen) nextGroupNameLocked(tableID int) string {
	max := 0
	for _, group := range s.orders[tableID].Groups {
		if n := groupOrdinal(GroupDisplayName(group)); n > max {
			max = n
		}
	}
	for name := range s.pending[tableID] {
		if n := groupOrdinal(name); n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s %d", groupNamePrefix, max+1)
}

// NextGroupName suggests a default name for a new group on the table.
func (s *TableScreen) NextGroupName(tableID int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextGroupNameLocked(tableID)
}

// CreateGroup opens a group on a table. An empty name gets the next default
// "Nhóm N". The name is reserved locally before the request goes out, so a
// second create with the same name is rejected even before the resync
// lands; a failed create releases the reservation.
func (s *TableScreen) CreateGroup(ctx context.Context, tableID int, name string) (*backend.Group, error) {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	if name == "" {
		name = s.nextGroupNameLocked(tableID)
	}
	if s.nameTakenLocked(tableID, name) {
		s.mu.Unlock()
		return nil, ErrGroupNameTaken
	}
	if s.pending[tableID] == nil {
		s.pending[tableID] = make(map[string]struct{})
	}
	s.pending[tableID][name] = struct{}{}
	s.mu.Unlock()

	group, err := s.api.CreateGroup(ctx, backend.CreateGroupRequest{TableID: tableID, GroupName: name})
	if err != nil {
		s.mu.Lock()
		delete(s.pending[tableID], name)
		s.mu.Unlock()
		return nil, err
	}

	if err := s.Resync(ctx); err != nil {
		s.logger.Error("cannot resync table orders after create", "error", err)
	}
	return group, nil
}

// CloseGroup closes a group and resyncs. Payment is a close: the backend
// settles the bill and the tab disappears from the screen.
func (s *TableScreen) CloseGroup(ctx context.Context, tableID, groupID int) error {
	err := s.api.CloseGroup(ctx, backend.CloseGroupRequest{TableID: tableID, GroupID: groupID})
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.edit != nil && s.edit.TableID == tableID && s.edit.GroupID == groupID {
		s.edit = nil
	}
	s.mu.Unlock()

	return s.Resync(ctx)
}

// AddDish appends the current menu selection to a group, resyncs, and tells
// other devices via a history patch so their screens merge the new line
// without a full refetch.
func (s *TableScreen) AddDish(ctx context.Context, tableID, groupID int, sel Selection) error {
	if sel.Dish == nil {
		return ErrNoDishSelected
	}

	err := s.api.AddDish(ctx, backend.AddDishRequest{
		TableID:  tableID,
		GroupID:  groupID,
		DishID:   sel.Dish.ID,
		Toppings: backend.NormalizeToppings(sel.Toppings).Names(),
		Note:     strings.TrimSpace(sel.Note),
	})
	if err != nil {
		return err
	}

	if err := s.Resync(ctx); err != nil {
		return err
	}

	s.announce(ctx, tableID, groupID, sel)
	return nil
}

func (s *TableScreen) announce(ctx context.Context, tableID, groupID int, sel Selection) {
	if s.publisher == nil {
		return
	}

	s.mu.Lock()
	groupName := ""
	for _, group := range s.orders[tableID].Groups {
		if group.GroupID == groupID {
			groupName = GroupDisplayName(group)
			break
		}
	}
	s.mu.Unlock()

	order, err := json.Marshal(map[string]interface{}{
		"type":      event.OrderKindTable,
		"tableId":   tableID,
		"groupId":   groupID,
		"groupName": groupName,
		"items": []map[string]interface{}{{
			"name":     sel.Dish.Name,
			"quantity": 1,
			"note":     strings.TrimSpace(sel.Note),
			"toppings": backend.NormalizeToppings(sel.Toppings).Names(),
		}},
	})
	if err != nil {
		s.logger.Error("cannot encode history patch", "error", err)
		return
	}

	msg, err := json.Marshal(event.OrderHistoryUpdatedEvent{
		EventType:  event.EventOrderHistoryUpdated,
		OccurredAt: time.Now().UTC(),
		Kind:       event.OrderKindTable,
		Order:      order,
	})
	if err != nil {
		s.logger.Error("cannot encode history event", "error", err)
		return
	}

	if err := s.publisher.Publish(ctx, event.OrderHistoryTopic, msg); err != nil {
		s.logger.Error("cannot publish history event", "error", err)
	}
}

// RemoveDish drops a line from a group and resyncs.
func (s *TableScreen) RemoveDish(ctx context.Context, tableID, groupID int, dishID string) error {
	err := s.api.RemoveDish(ctx, backend.RemoveDishRequest{TableID: tableID, GroupID: groupID, DishID: dishID})
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.edit != nil && s.edit.TableID == tableID && s.edit.GroupID == groupID && s.edit.DishID == dishID {
		s.edit = nil
	}
	s.mu.Unlock()

	return s.Resync(ctx)
}

// BeginEdit starts a quantity edit on one line, seeded with the line's
// current quantity. Only one edit can be active at a time.
func (s *TableScreen) BeginEdit(tableID, groupID int, dishID string) (*QuantityEdit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.edit != nil {
		return nil, ErrEditInProgress
	}

	for _, group := range s.orders[tableID].Groups {
		if group.GroupID != groupID {
			continue
		}
		for _, line := range group.Orders {
			if line.DishID == dishID {
				s.edit = &QuantityEdit{TableID: tableID, GroupID: groupID, DishID: dishID, Quantity: line.Quantity}
				copied := *s.edit
				return &copied, nil
			}
		}
	}
	return nil, ErrLineNotFound
}

// Edit returns the active edit, nil when none.
func (s *TableScreen) Edit() *QuantityEdit {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit == nil {
		return nil
	}
	copied := *s.edit
	return &copied
}

// Increment bumps the edited quantity locally.
func (s *TableScreen) Increment() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit != nil {
		s.edit.Quantity++
	}
}

// Decrement lowers the edited quantity locally, never below one.
func (s *TableScreen) Decrement() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit != nil && s.edit.Quantity > 1 {
		s.edit.Quantity--
	}
}

// ConfirmEdit persists the edited quantity and resyncs. The edit closes
// regardless of the resync outcome once the backend accepted the change.
func (s *TableScreen) ConfirmEdit(ctx context.Context) error {
	s.mu.Lock()
	if s.edit == nil {
		s.mu.Unlock()
		return ErrLineNotFound
	}
	edit := *s.edit
	s.mu.Unlock()

	err := s.api.UpdateQuantity(ctx, backend.UpdateQuantityRequest{
		TableID:  edit.TableID,
		GroupID:  edit.GroupID,
		DishID:   edit.DishID,
		Quantity: edit.Quantity,
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.edit = nil
	s.mu.Unlock()

	return s.Resync(ctx)
}

// CancelEdit discards the in-progress edit without touching the backend.
func (s *TableScreen) CancelEdit() {
	s.mu.Lock()
	s.edit = nil
	s.mu.Unlock()
}
