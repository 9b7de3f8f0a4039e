// Package organization handles Kafka event production for organization status updates.
package organization

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/ortelius/orgmap-backend/model"
	"github.com/segmentio/kafka-go"
)

// OrganizationProducer sends status update events to Kafka
type OrganizationProducer struct {
	Writer *kafka.Writer
	Source string
}

// NewOrganizationProducer initializes a Kafka writer for organization events
func NewOrganizationProducer(brokers []string, topic, source string) *OrganizationProducer {
	return &OrganizationProducer{
		Writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
		Source: source,
	}
}

// NewStatusUpdatedEvent builds the event contract for an updated organization
func NewStatusUpdatedEvent(org model.Organization, source string) StatusUpdatedEvent {
	return StatusUpdatedEvent{
		EventType:     EventTypeStatusUpdated,
		EventID:       uuid.New().String(),
		EventTime:     time.Now().UTC(),
		SchemaVersion: SchemaVersion,
		Source:        source,
		Organization:  org,
	}
}

// PublishStatusUpdated sends the event keyed by organization id, so updates of
// one organization stay ordered within a partition
func (p *OrganizationProducer) PublishStatusUpdated(ctx context.Context, org model.Organization) error {
	payload, err := json.Marshal(NewStatusUpdatedEvent(org, p.Source))
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(org.ID)),
		Value: payload,
	})
}

// Close cleans up the Kafka writer
func (p *OrganizationProducer) Close() error {
	return p.Writer.Close()
}
