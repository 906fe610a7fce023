package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkerAvailability declares a worker's window for one weekday
// (0=Sunday … 6=Saturday). It is advisory: an appointment outside the
// window surfaces as a soft conflict the caller may override.
type WorkerAvailability struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	WorkerID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_worker_weekday,priority:1" json:"workerId"`
	Weekday     int       `gorm:"not null;uniqueIndex:idx_worker_weekday,priority:2" json:"weekday"`
	StartTime   string    `gorm:"size:10" json:"startTime"` // "09:00"
	EndTime     string    `gorm:"size:10" json:"endTime"`   // "17:00"
	IsAvailable bool      `gorm:"default:true" json:"isAvailable"`

	gorm.Model `json:"-"`
}

func (a *WorkerAvailability) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
