package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"

	"github.com/phohaitrieu/pos/pkg"
	"github.com/phohaitrieu/pos/pkg/event"
)

// SimulateOrder publishes one demo takeaway order on the realtime channel,
// handy for exercising kitchen displays without walking through the cart.
func SimulateOrder(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	natsURL, _ := config.GetString("nats.url")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	channel, err := pkg.NewChannel(natsURL)
	if err != nil {
		return err
	}
	defer channel.Close()

	order, err := json.Marshal(map[string]interface{}{
		"id":   uuid.NewString(),
		"type": event.OrderKindTakeaway,
		"items": []map[string]interface{}{
			{"name": "Phở Bò", "quantity": 2, "toppings": []string{"Tái", "Nạm"}},
			{"name": "Bún Bò", "quantity": 1, "note": "ít cay"},
		},
	})
	if err != nil {
		return fmt.Errorf("cannot encode demo order: %w", err)
	}

	msg, err := json.Marshal(event.OrderSentEvent{
		EventType:  event.EventOrderSent,
		OccurredAt: time.Now().UTC(),
		Source:     "pos-utils",
		Order:      order,
	})
	if err != nil {
		return fmt.Errorf("cannot encode order event: %w", err)
	}

	if err := channel.Publish(ctx, event.OrderSendTopic, msg); err != nil {
		return fmt.Errorf("cannot publish demo order: %w", err)
	}

	logger.Info("published demo order", "topic", event.OrderSendTopic)
	return nil
}
