// Package organization handles Kafka event processing for organization status updates.
package organization

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// HandleStatusUpdatedWithService merges a status update event into the registry.
// Events of other types are ignored.
func HandleStatusUpdatedWithService(_ context.Context, msg []byte, service RegistryService, logger *zap.Logger) error {
	var event StatusUpdatedEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal StatusUpdatedEvent: %w", err)
	}
	if event.EventType != EventTypeStatusUpdated {
		return nil
	}
	if event.Organization.ID <= 0 {
		return fmt.Errorf("invalid event %s: missing organization id", event.EventID)
	}

	if service.ApplyRemote(event) {
		logger.Info("Applied remote status update",
			zap.Int("org_id", event.Organization.ID),
			zap.String("status", event.Organization.Status),
			zap.String("source", event.Source),
			zap.String("event_id", event.EventID))
	}
	return nil
}
