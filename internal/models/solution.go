package models

import (
	"time"
)

type Solution struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Slug         string `gorm:"uniqueIndex;size:100;not null" json:"slug"`
	Description  string `gorm:"type:text" json:"description"`
	Category     string `gorm:"size:50;index" json:"category"`
	WebsiteURL   string `json:"website_url"`
	AffiliateURL string `json:"affiliate_url"` // Optional; empty when no affiliate program
	LogoURL      string `json:"logo_url"`

	// Denormalized aggregate over this solution's reviews. Recomputed on
	// every review creation; never authored directly.
	RDSScore    int `gorm:"default:0" json:"rds_score"`
	ReviewCount int `gorm:"default:0" json:"review_count"`

	CommissionRate float64   `gorm:"default:0" json:"commission_rate"` // e.g. 0.30 for 30%
	CurrentVersion string    `gorm:"size:50" json:"current_version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
