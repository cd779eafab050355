package models

import "time"

// Service is one entry of the shop's service catalog shown on the
// booking form. Prices are display strings (e.g. "Rp65K").
type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Price       string `gorm:"size:20" json:"price"`
	DurationMin int    `json:"duration_minutes"`
	Notes       string `gorm:"size:255" json:"notes"`
	Active      bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
