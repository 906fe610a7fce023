package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TimeOffPending  = "PENDING"
	TimeOffApproved = "APPROVED"
	TimeOffRejected = "REJECTED"
)

// TimeOffRequest is a worker leave request. Only APPROVED requests
// participate in conflict detection. StartDate and EndDate are inclusive.
type TimeOffRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	WorkerID  uuid.UUID `gorm:"type:uuid;index;not null" json:"workerId"`
	StartDate time.Time `gorm:"type:date;not null" json:"startDate"`
	EndDate   time.Time `gorm:"type:date;not null" json:"endDate"`
	Status    string    `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	Reason    string    `gorm:"type:text" json:"reason"`

	gorm.Model `json:"-"`
}

func (t *TimeOffRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

// Covers reports whether date falls inside the inclusive leave window.
func (t *TimeOffRequest) Covers(date time.Time) bool {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(t.StartDate.Year(), t.StartDate.Month(), t.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(t.EndDate.Year(), t.EndDate.Month(), t.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(start) && !day.After(end)
}
