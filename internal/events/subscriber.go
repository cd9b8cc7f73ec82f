package events

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Handler receives decoded event envelopes
type Handler func(env Envelope)

// Subscriber fans inventory events out to in-process consumers (the
// websocket hub and the cache invalidation hook). Delivery is
// at-least-once, best-effort.
type Subscriber struct {
	client *Client
	logger *logrus.Logger
	sub    *nats.Subscription
}

// NewSubscriber creates a new event subscriber
func NewSubscriber(client *Client, logger *logrus.Logger) *Subscriber {
	return &Subscriber{client: client, logger: logger}
}

// Start subscribes to every tenant's inventory subjects and dispatches
// envelopes to the handler
func (s *Subscriber) Start(handler Handler) error {
	sub, err := s.client.Conn().Subscribe("inventory.>", func(msg *nats.Msg) {
		var env Envelope
		if err := json.Unmarshal(msg.Data, &env); err != nil {
			s.logger.WithError(err).WithField("subject", msg.Subject).Warn("Dropping malformed event")
			return
		}
		handler(env)
	})
	if err != nil {
		return err
	}
	s.sub = sub
	s.logger.Info("Subscribed to inventory events")
	return nil
}

// Stop unsubscribes
func (s *Subscriber) Stop() {
	if s.sub != nil {
		s.sub.Unsubscribe()
	}
}
