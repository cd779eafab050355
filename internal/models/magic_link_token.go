package models

import "time"

// MagicLinkToken is a single-use sign-in token sent by email.
type MagicLinkToken struct {
	Token string `gorm:"size:64;primaryKey" json:"-"`
	Email string `gorm:"size:100;index;not null" json:"email"`

	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at"`

	CreatedAt time.Time `json:"created_at"`
}

func (t *MagicLinkToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
