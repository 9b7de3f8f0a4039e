// Package organization defines the Kafka event contract for organization status updates.
package organization

import (
	"github.com/ortelius/orgmap-backend/model"
)

// Event contract constants
const (
	EventTypeStatusUpdated = "organization.status.updated"
	SchemaVersion          = "v1"
)

// StatusUpdatedEvent is published after every successful status or note update
type StatusUpdatedEvent = model.StatusUpdatedEvent

// RegistryService defines the registry operations the consumer needs.
type RegistryService interface {
	ApplyRemote(event model.StatusUpdatedEvent) bool
}
