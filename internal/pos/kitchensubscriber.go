package pos

import (
	"context"
	"encoding/json"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"

	"github.com/phohaitrieu/pos/internal/backend"
	"github.com/phohaitrieu/pos/pkg/event"
)

// KitchenSubscriber feeds the kitchen board from the realtime channel. Both
// backend pushes and locally sent takeaway orders land on the board; the
// board itself deduplicates against the warm load.
type KitchenSubscriber struct {
	subscriber events.Subscriber
	board      *KitchenBoard
	logger     aqm.Logger
}

func NewKitchenSubscriber(subscriber events.Subscriber, board *KitchenBoard, logger aqm.Logger) *KitchenSubscriber {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &KitchenSubscriber{subscriber: subscriber, board: board, logger: logger}
}

func (s *KitchenSubscriber) Start(ctx context.Context) error {
	if err := s.subscriber.Subscribe(ctx, event.OrderReceivedTopic, s.handleEvent); err != nil {
		return err
	}
	return s.subscriber.Subscribe(ctx, event.OrderSendTopic, s.handleEvent)
}

func (s *KitchenSubscriber) handleEvent(ctx context.Context, msg []byte) error {
	var evt event.OrderReceivedEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.logger.Error("cannot decode kitchen event", "error", err)
		return err
	}

	switch evt.EventType {
	case event.EventOrderReceived, event.EventOrderSent:
	default:
		s.logger.Debug("ignoring kitchen event", "event_type", evt.EventType)
		return nil
	}

	var order backend.Order
	if err := json.Unmarshal(evt.Order, &order); err != nil {
		s.logger.Error("cannot decode pushed order", "error", err)
		return err
	}

	s.board.Push(order, evt.OccurredAt)
	return nil
}
