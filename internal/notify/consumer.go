package notify

import (
	"context"
	"fmt"
	"log"

	"freshtrack/internal/models"
)

const receiveBatchSize = 10

// Consumer drains expiry envelopes off the dispatcher and turns them
// into alerts. Deliveries are acked only after a successful send, so a
// crash mid-handling redelivers rather than drops.
type Consumer struct {
	dispatcher Dispatcher
	notifier   Notifier
}

func NewConsumer(dispatcher Dispatcher, notifier Notifier) *Consumer {
	return &Consumer{dispatcher: dispatcher, notifier: notifier}
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	log.Println("Notification consumer started")
	for {
		select {
		case <-ctx.Done():
			log.Println("Notification consumer stopped")
			return
		default:
		}

		deliveries, err := c.dispatcher.Receive(ctx, receiveBatchSize)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("Notification consumer stopped")
				return
			}
			log.Printf("Failed to receive notifications: %v", err)
			continue
		}

		for _, delivery := range deliveries {
			c.handle(ctx, delivery)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, delivery Delivery) {
	if delivery.Envelope == nil {
		// Poison message: ack it away so it cannot block the stream.
		log.Printf("Discarding malformed notification %s: %v", delivery.ID, models.ErrMalformedEnvelope)
		if err := c.dispatcher.Ack(ctx, delivery.ID); err != nil {
			log.Printf("Failed to ack malformed notification %s: %v", delivery.ID, err)
		}
		return
	}

	envelope := delivery.Envelope
	if len(envelope.ExpiredItems) == 0 && len(envelope.ExpiringSoonItems) == 0 {
		if err := c.dispatcher.Ack(ctx, delivery.ID); err != nil {
			log.Printf("Failed to ack notification %s: %v", delivery.ID, err)
		}
		return
	}

	subject := fmt.Sprintf("Inventory expiry report: %d expired, %d expiring soon",
		len(envelope.ExpiredItems), len(envelope.ExpiringSoonItems))

	lines := make([]string, 0, len(envelope.ExpiredItems)+len(envelope.ExpiringSoonItems))
	for _, item := range envelope.ExpiredItems {
		lines = append(lines, renderNotice(item))
	}
	for _, item := range envelope.ExpiringSoonItems {
		lines = append(lines, renderNotice(item))
	}

	if err := c.notifier.SendAlert(ctx, subject, lines); err != nil {
		// Leave unacked; the visibility timeout will redeliver it.
		log.Printf("Failed to send alert for notification %s: %v", delivery.ID, err)
		return
	}

	if err := c.dispatcher.Ack(ctx, delivery.ID); err != nil {
		log.Printf("Failed to ack notification %s: %v", delivery.ID, err)
	}
}

func renderNotice(notice models.ExpiryNotice) string {
	switch {
	case notice.DaysToExpiry < 0:
		return fmt.Sprintf("%s (batch %s) expired %d day(s) ago on %s",
			notice.ProductName, notice.BatchID, -notice.DaysToExpiry, notice.ExpiryDate)
	case notice.DaysToExpiry == 0:
		return fmt.Sprintf("%s (batch %s) expires today (%s)",
			notice.ProductName, notice.BatchID, notice.ExpiryDate)
	default:
		return fmt.Sprintf("%s (batch %s) expires in %d day(s) on %s",
			notice.ProductName, notice.BatchID, notice.DaysToExpiry, notice.ExpiryDate)
	}
}
