package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog records an audit entry for every gate-pass transition.
type ActivityLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ActorID    uint              `gorm:"index" json:"actor_id"`
	ActorRole  Role              `gorm:"size:20" json:"actor_role"`
	Action     string            `gorm:"size:64;not null;index" json:"action"`
	EntityType string            `gorm:"size:32;not null" json:"entity_type"`
	EntityID   *uint             `json:"entity_id,omitempty"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
}
