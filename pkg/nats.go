package pkg

import (
	"context"
	"fmt"

	"github.com/aquamarinepk/aqm/events"
	"github.com/nats-io/nats.go"
)

// Channel is the realtime connection to the backend. A single connection is
// owned by the application root and handed to screens as events.Publisher /
// events.Subscriber, so tests can swap in a fake.
type Channel struct {
	conn *nats.Conn
}

func NewChannel(url string) (*Channel, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Channel{conn: conn}, nil
}

func (c *Channel) Publish(ctx context.Context, topic string, msg []byte) error {
	if c == nil || c.conn == nil {
		return fmt.Errorf("channel not connected")
	}
	return c.conn.Publish(topic, msg)
}

func (c *Channel) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error {
	if c == nil || c.conn == nil {
		return fmt.Errorf("channel not connected")
	}
	_, err := c.conn.Subscribe(topic, func(msg *nats.Msg) {
		// Handler failures are the handler's problem to log; a realtime
		// miss is recovered by the next full refetch.
		_ = handler(ctx, msg.Data)
	})
	return err
}

func (c *Channel) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	c.conn.Close()
	return nil
}
