package event

import (
	"encoding/json"
	"time"
)

const (
	// OrderReceivedTopic delivers freshly placed orders to kitchen displays.
	OrderReceivedTopic = "orders.received"
	// OrderSendTopic carries takeaway orders pushed by front-of-house devices.
	OrderSendTopic = "orders.send"
	// OrderHistoryTopic groups events that keep the history screen in sync.
	OrderHistoryTopic = "orders.history"

	// EventOrderReceived identifies a new order payload for the kitchen board.
	EventOrderReceived = "order.received"
	// EventOrderSent identifies an outbound takeaway order payload.
	EventOrderSent = "order.sent"
	// EventOrderHistoryUpdated identifies a single-order history patch.
	EventOrderHistoryUpdated = "order.history.updated"
	// EventOrderHistoryFetch signals that listeners should refetch the full history.
	EventOrderHistoryFetch = "order.history.fetch"
)

// Order kinds as transmitted by the backend. Anything that is not a table
// order is treated as takeaway by consumers.
const (
	OrderKindTable    = "table"
	OrderKindTakeaway = "takeaway"
)

// OrderReceivedEvent wraps a raw order pushed to kitchen displays. The order
// payload keeps the backend wire shape; consumers decode it at their boundary.
type OrderReceivedEvent struct {
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Order      json.RawMessage `json:"order"`
}

// OrderSentEvent carries a takeaway order emitted by a front-of-house device
// alongside the checkout request.
type OrderSentEvent struct {
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Source     string          `json:"source,omitempty"`
	Order      json.RawMessage `json:"order"`
}

// OrderHistoryUpdatedEvent patches a single order into the history screen
// without a full refetch. Kind tells consumers which bucket the order
// belongs to (table or takeaway).
type OrderHistoryUpdatedEvent struct {
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Kind       string          `json:"type"`
	Order      json.RawMessage `json:"order"`
}

// OrderHistoryFetchEvent is a signal-only event: no payload beyond metadata.
type OrderHistoryFetchEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Source     string    `json:"source,omitempty"`
}
