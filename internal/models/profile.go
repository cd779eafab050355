package models

import "time"

// Profile holds per-account metadata. Role is the sole authorization
// discriminant: "barber" unlocks status changes, deletes and the
// global queue view.
type Profile struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	FullName  string `gorm:"size:100" json:"full_name"`
	Email     string `gorm:"size:100;uniqueIndex" json:"email"`
	AvatarURL string `gorm:"size:255" json:"avatar_url"`
	Role      string `gorm:"size:20" json:"role"`

	PasswordHash string `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const RoleBarber = "barber"

func (p *Profile) IsBarber() bool {
	return p != nil && p.Role == RoleBarber
}
