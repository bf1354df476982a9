package pos

import (
	"context"
	"encoding/json"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"

	"github.com/phohaitrieu/pos/internal/backend"
	"github.com/phohaitrieu/pos/pkg/event"
)

// HistorySubscriber keeps the history screen current from the realtime
// channel: single-order patches are merged in place, fetch signals trigger
// a full reload.
type HistorySubscriber struct {
	subscriber events.Subscriber
	history    *HistoryState
	logger     aqm.Logger
}

func NewHistorySubscriber(subscriber events.Subscriber, history *HistoryState, logger aqm.Logger) *HistorySubscriber {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &HistorySubscriber{subscriber: subscriber, history: history, logger: logger}
}

func (s *HistorySubscriber) Start(ctx context.Context) error {
	return s.subscriber.Subscribe(ctx, event.OrderHistoryTopic, s.handleEvent)
}

func (s *HistorySubscriber) handleEvent(ctx context.Context, msg []byte) error {
	var envelope struct {
		EventType string `json:"event_type"`
	}
	if err := json.Unmarshal(msg, &envelope); err != nil {
		s.logger.Error("cannot decode history event", "error", err)
		return err
	}

	switch envelope.EventType {
	case event.EventOrderHistoryUpdated:
		return s.handleUpdated(msg)
	case event.EventOrderHistoryFetch:
		if err := s.history.Fetch(ctx); err != nil {
			s.logger.Error("cannot refetch order history", "error", err)
			return err
		}
		return nil
	default:
		s.logger.Debug("ignoring history event", "event_type", envelope.EventType)
		return nil
	}
}

func (s *HistorySubscriber) handleUpdated(msg []byte) error {
	var evt event.OrderHistoryUpdatedEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.logger.Error("cannot decode history update", "error", err)
		return err
	}

	var order backend.Order
	if err := json.Unmarshal(evt.Order, &order); err != nil {
		s.logger.Error("cannot decode pushed order", "error", err)
		return err
	}

	// Some backends put the order kind on the envelope only.
	if order.Type == "" {
		order.Type = evt.Kind
	}

	s.history.ApplyUpdate(order)
	return nil
}
