package models

import (
	"time"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Password     string `json:"-"`                       // Hash; empty for OAuth-only accounts
	Provider     string `gorm:"size:20" json:"provider"` // "local", "google"
	ProviderID   string `gorm:"index" json:"-"`          // Google subject ID
	ReferralCode string `gorm:"uniqueIndex;size:20;not null" json:"referral_code"`

	// Affiliate counters
	TotalClicks      int     `gorm:"default:0" json:"total_clicks"`
	TotalConversions int     `gorm:"default:0" json:"total_conversions"`
	PendingEarnings  float64 `gorm:"default:0" json:"pending_earnings"`
	PaidEarnings     float64 `gorm:"default:0" json:"paid_earnings"`

	// Running average of trust ratings received from other users.
	// TrustScore is meaningless while TrustRatingCount is 0.
	TrustScore       float64 `gorm:"default:0" json:"trust_score"`
	TrustRatingCount int     `gorm:"default:0" json:"trust_rating_count"`

	Role      string    `gorm:"size:20;default:'user';not null" json:"role"` // user, admin
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
