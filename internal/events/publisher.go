package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// AMQPNotifier publishes events to a durable RabbitMQ queue. Publish
// enqueues onto a buffered channel and returns immediately; a
// background goroutine drains it, so a slow or dead broker never slows
// down a booking.
type AMQPNotifier struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  *logrus.Logger
	pending chan Event
	done    chan struct{}
}

// NewAMQPNotifier connects to the broker and declares the durable queue
func NewAMQPNotifier(url, queue string, logger *logrus.Logger) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	// Durable so events survive broker restarts
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	n := &AMQPNotifier{
		conn:    conn,
		channel: ch,
		queue:   queue,
		logger:  logger,
		pending: make(chan Event, 256),
		done:    make(chan struct{}),
	}
	go n.drain()

	return n, nil
}

// Publish enqueues an event for delivery. When the buffer is full the
// event is dropped with a warning rather than blocking the caller.
func (n *AMQPNotifier) Publish(event Event) {
	select {
	case n.pending <- event:
	default:
		n.logger.WithFields(logrus.Fields{
			"kind":      event.Kind,
			"record_id": event.RecordID,
		}).Warn("Event buffer full, dropping change event")
	}
}

func (n *AMQPNotifier) drain() {
	for event := range n.pending {
		if err := n.publish(event); err != nil {
			n.logger.WithFields(logrus.Fields{
				"kind":      event.Kind,
				"table":     event.Table,
				"record_id": event.RecordID,
				"error":     err.Error(),
			}).Error("Failed to publish change event")
		}
	}
	close(n.done)
}

func (n *AMQPNotifier) publish(event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return n.channel.PublishWithContext(ctx,
		"",      // default exchange
		n.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
}

// Close stops the drain goroutine after flushing buffered events and
// closes the broker connection
func (n *AMQPNotifier) Close() error {
	close(n.pending)
	select {
	case <-n.done:
	case <-time.After(5 * time.Second):
	}

	n.channel.Close()
	return n.conn.Close()
}

// NoopNotifier discards all events. Used in tests and when no broker is
// configured.
type NoopNotifier struct{}

// Publish discards the event
func (NoopNotifier) Publish(Event) {}

// Close is a no-op
func (NoopNotifier) Close() error { return nil }
