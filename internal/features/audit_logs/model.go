package audit_logs

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is one entry of the entity mutation trail. ActorID is nil
// for changes made by the system itself (bootstrap, migrations).
type AuditLog struct {
	ID        uuid.UUID  `json:"id"        gorm:"column:id;primaryKey"`
	ActorID   *uuid.UUID `json:"actorId"   gorm:"column:actor_id"`
	Entity    string     `json:"entity"    gorm:"column:entity"`
	EntityKey string     `json:"entityKey" gorm:"column:entity_key"`
	Action    string     `json:"action"    gorm:"column:action"`
	CreatedAt time.Time  `json:"createdAt" gorm:"column:created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
