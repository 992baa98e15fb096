package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records who did what to which resource. Appointments are never
// physically deleted, so the status history lives here.
type AuditLog struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ActorName    string    `db:"actor_name" json:"actor_name"`
	ActorRole    Role      `db:"actor_role" json:"actor_role"`
	Action       string    `db:"action" json:"action"`
	ResourceType string    `db:"resource_type" json:"resource_type"`
	ResourceID   uuid.UUID `db:"resource_id" json:"resource_id"`
	Detail       JSONMap   `db:"-" json:"detail,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
