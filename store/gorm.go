package store

import "gorm.io/gorm"

// NewGorm wires every repository onto one gorm handle.
func NewGorm(db *gorm.DB) *Stores {
	return &Stores{
		Appointments: &gormAppointments{db: db},
		Assignments:  &gormAssignments{db: db},
		TimeOff:      &gormTimeOff{db: db},
		Availability: &gormAvailability{db: db},
		PricingRules: &gormPricingRules{db: db},
		Payments:     &gormPayments{db: db},
		Users:        &gormUsers{db: db},
		Audits:       &gormAudits{db: db},
	}
}
