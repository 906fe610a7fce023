// models/audit.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OverrideAudit records every conflict override: who authorized it, the
// appointment state before and after, and the conflicts that were bypassed.
// A mutation that skips conflict checks without one of these rows is a bug.
type OverrideAudit struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;index;not null" json:"appointmentId"`
	ActorID       uuid.UUID `gorm:"type:uuid;index;not null" json:"actorId"`
	Action        string    `gorm:"size:30;not null" json:"action"` // create, update, assign_workers
	Before        JSONB     `gorm:"type:jsonb" json:"before"`
	After         JSONB     `gorm:"type:jsonb" json:"after"`
	Conflicts     JSONB     `gorm:"type:jsonb" json:"conflicts"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (a *OverrideAudit) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
