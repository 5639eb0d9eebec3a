package provisioning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/corpdesk/corpdesk/internal/directory"
	"github.com/corpdesk/corpdesk/pkg/logger"
	"github.com/corpdesk/corpdesk/pkg/metrics"
)

// ShadowStore is the slice of the directory repository the consumer writes to.
type ShadowStore interface {
	InsertIfAbsent(ctx context.Context, e *directory.Employee) (bool, error)
	Upsert(ctx context.Context, e *directory.Employee) error
	Delete(ctx context.Context, authUserID string) (bool, error)
}

// Consumer applies identity-lifecycle events to the local shadow records.
// Delivery is at-least-once; every apply path is idempotent. A failed apply is
// logged and the message dropped — there is no retry or dead-letter path.
type Consumer struct {
	reader *kafka.Reader
	store  ShadowStore
}

// NewConsumer builds a group consumer for the identity lifecycle topic.
func NewConsumer(brokers []string, topic, groupID string, store ShadowStore) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	return &Consumer{reader: reader, store: store}
}

// Run consumes until ctx is cancelled. Blocking; run it on its own goroutine.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if err := c.handle(ctx, msg.Value); err != nil {
			logger.Errorf("provisioning: dropping event (offset %d): %v", msg.Offset, err)
			metrics.ProvisioningEvents.WithLabelValues("unknown", "dropped").Inc()
		}
	}
}

// Close releases the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

func (c *Consumer) handle(ctx context.Context, value []byte) error {
	var ev Event
	if err := json.Unmarshal(value, &ev); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	return Apply(ctx, c.store, &ev)
}

// Apply mutates the shadow store according to one event:
// CREATED inserts if absent (duplicate delivery is a no-op), UPDATED upserts
// (an update arriving before its create falls back to creating the record),
// DELETED removes if present.
func Apply(ctx context.Context, store ShadowStore, ev *Event) error {
	if ev.UserID == "" {
		return fmt.Errorf("event without userId")
	}
	e := &directory.Employee{
		AuthUserID: ev.UserID,
		Username:   ev.Username,
		Email:      ev.Email,
		FullName:   ev.FullName,
	}
	switch ev.EventType {
	case EventCreated:
		inserted, err := store.InsertIfAbsent(ctx, e)
		if err != nil {
			return err
		}
		if !inserted {
			logger.Debugf("provisioning: duplicate create for %s ignored", ev.UserID)
		}
		metrics.ProvisioningEvents.WithLabelValues("created", "applied").Inc()
		return nil
	case EventUpdated:
		if err := store.Upsert(ctx, e); err != nil {
			return err
		}
		metrics.ProvisioningEvents.WithLabelValues("updated", "applied").Inc()
		return nil
	case EventDeleted:
		if _, err := store.Delete(ctx, ev.UserID); err != nil {
			return err
		}
		metrics.ProvisioningEvents.WithLabelValues("deleted", "applied").Inc()
		return nil
	default:
		return fmt.Errorf("unknown event type %q", ev.EventType)
	}
}
