package models

import (
	"time"

	"gorm.io/datatypes"
)

// Activity outcomes. A reverted entry records an optimistic change the
// backend refused.
const (
	ActivityOutcomeCommitted = "committed"
	ActivityOutcomeReverted  = "reverted"
)

// ActivityLog is one mutating portal action forwarded to the backend. It is
// the only record the portal owns.
type ActivityLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ActorID    string            `gorm:"size:64;not null;index" json:"actor_id"`
	ActorRole  string            `gorm:"size:16;not null" json:"actor_role"`
	Action     string            `gorm:"size:64;not null;index" json:"action"`
	EntityType string            `gorm:"size:32;not null;index:idx_activity_entity" json:"entity_type"`
	EntityID   string            `gorm:"size:64;index:idx_activity_entity" json:"entity_id"`
	Outcome    string            `gorm:"size:16;not null;default:committed;index" json:"outcome"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time         `gorm:"index" json:"created_at"`
}

// TableName pins the table name independent of gorm's pluralisation.
func (ActivityLog) TableName() string {
	return "portal_activity_logs"
}
