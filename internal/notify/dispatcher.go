package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"freshtrack/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	// payloadField is the single stream field carrying the JSON envelope.
	payloadField = "payload"

	defaultBlockWait = 5 * time.Second
)

// Dispatcher moves expiry envelopes through a Redis stream with
// at-least-once consumer semantics: a received delivery stays pending
// until it is acknowledged, and deliveries idle past the visibility
// timeout are claimed back for redelivery.
type Dispatcher interface {
	Send(ctx context.Context, envelope *models.ExpiryEnvelope) error
	Receive(ctx context.Context, max int64) ([]Delivery, error)
	Ack(ctx context.Context, deliveryID string) error
}

// Delivery pairs a decoded envelope with the stream ID needed to ack it.
type Delivery struct {
	ID       string
	Envelope *models.ExpiryEnvelope
}

type streamDispatcher struct {
	client            *redis.Client
	stream            string
	group             string
	consumer          string
	visibilityTimeout time.Duration
}

func NewStreamDispatcher(client *redis.Client, stream, group, consumer string, visibilityTimeout time.Duration) Dispatcher {
	return &streamDispatcher{
		client:            client,
		stream:            stream,
		group:             group,
		consumer:          consumer,
		visibilityTimeout: visibilityTimeout,
	}
}

// EnsureGroup creates the consumer group, tolerating a pre-existing one.
func (d *streamDispatcher) EnsureGroup(ctx context.Context) error {
	err := d.client.XGroupCreateMkStream(ctx, d.stream, d.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (d *streamDispatcher) Send(ctx context.Context, envelope *models.ExpiryEnvelope) error {
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to encode expiry envelope: %w", err)
	}
	return d.client.XAdd(ctx, &redis.XAddArgs{
		Stream: d.stream,
		Values: map[string]any{payloadField: data},
	}).Err()
}

func (d *streamDispatcher) Receive(ctx context.Context, max int64) ([]Delivery, error) {
	if err := d.EnsureGroup(ctx); err != nil {
		return nil, err
	}

	// Reclaim deliveries another consumer received but never acked.
	claimed, _, err := d.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   d.stream,
		Group:    d.group,
		Consumer: d.consumer,
		MinIdle:  d.visibilityTimeout,
		Start:    "0-0",
		Count:    max,
	}).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	if len(claimed) > 0 {
		return d.decode(claimed)
	}

	streams, err := d.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    d.group,
		Consumer: d.consumer,
		Streams:  []string{d.stream, ">"},
		Count:    max,
		Block:    defaultBlockWait,
	}).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // nothing arrived within the block window
		}
		return nil, err
	}

	var messages []redis.XMessage
	for _, s := range streams {
		messages = append(messages, s.Messages...)
	}
	return d.decode(messages)
}

func (d *streamDispatcher) Ack(ctx context.Context, deliveryID string) error {
	return d.client.XAck(ctx, d.stream, d.group, deliveryID).Err()
}

func (d *streamDispatcher) decode(messages []redis.XMessage) ([]Delivery, error) {
	deliveries := make([]Delivery, 0, len(messages))
	for _, msg := range messages {
		raw, ok := msg.Values[payloadField].(string)
		if !ok {
			deliveries = append(deliveries, Delivery{ID: msg.ID, Envelope: nil})
			continue
		}
		var envelope models.ExpiryEnvelope
		if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
			// Malformed payloads surface as nil envelopes so the consumer
			// can ack and discard them instead of looping forever.
			deliveries = append(deliveries, Delivery{ID: msg.ID, Envelope: nil})
			continue
		}
		deliveries = append(deliveries, Delivery{ID: msg.ID, Envelope: &envelope})
	}
	return deliveries, nil
}
