package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingEntry is one row of the shared queue: either a walk-in created
// by a barber or a reservation submitted through the booking form.
type BookingEntry struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID string `gorm:"type:uuid;index;not null" json:"owner_id"`

	FullName string `gorm:"size:100" json:"full_name"`
	Phone    string `gorm:"size:20" json:"phone"`

	// Service is the comma-joined list of selected service names, as
	// submitted by the booking form.
	Service string `gorm:"size:255" json:"service"`
	Barber  string `gorm:"size:100" json:"barber"`

	ServiceTime *time.Time `json:"service_time"`

	Type   string `gorm:"size:20;not null" json:"type"`
	Status string `gorm:"size:20;default:'at queue'" json:"status"`

	EtaStart *time.Time `json:"eta_start"`
	EtaEnd   *time.Time `json:"eta_end"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *BookingEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
