package models

import (
	"time"
)

// Submission is a community-submitted tool waiting for moderation before it
// becomes a Solution.
type Submission struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Name           string     `gorm:"not null" json:"name"`
	WebsiteURL     string     `gorm:"not null" json:"website_url"`
	Description    string     `gorm:"type:text" json:"description"`
	Category       string     `gorm:"size:50" json:"category"`
	SubmitterEmail string     `gorm:"not null" json:"submitter_email"`
	SubmitterName  string     `json:"submitter_name"`
	Status         string     `gorm:"size:20;default:'pending'" json:"status"` // pending, approved, rejected
	PublishedAt    *time.Time `json:"published_at"`
	CreatedAt      time.Time  `json:"created_at"`
}
