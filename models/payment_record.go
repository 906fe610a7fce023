package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment record statuses, mirroring gateway intent states. reserved and
// capturable are the only non-terminal states; captured, canceled and
// refunded rows are immutable history.
const (
	PaymentStatusReserved   = "reserved"
	PaymentStatusCapturable = "capturable"
	PaymentStatusCaptured   = "captured"
	PaymentStatusCanceled   = "canceled"
	PaymentStatusRefunded   = "refunded"
)

// PaymentRecord is one ledger line against an appointment. Negative amounts
// are refunds. Invariant: at most one reserved/capturable row per
// appointment at any time (a single live hold).
type PaymentRecord struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AppointmentID   uuid.UUID `gorm:"type:uuid;index;not null" json:"appointmentId"`
	GatewayIntentID string    `gorm:"size:100;index" json:"gatewayIntentId"`
	Amount          float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status          string    `gorm:"size:20;not null" json:"status"`
	Currency        string    `gorm:"size:3;not null;default:'usd'" json:"currency"`
	Description     string    `json:"description"`
	IdempotencyKey  string    `gorm:"size:120;index" json:"idempotencyKey"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (p *PaymentRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// Live reports whether this record still represents money the gateway is
// holding but has not settled.
func (p *PaymentRecord) Live() bool {
	return p.Status == PaymentStatusReserved || p.Status == PaymentStatusCapturable
}
