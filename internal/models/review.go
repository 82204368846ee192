package models

import (
	"time"
)

type Review struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	SolutionID uint     `gorm:"not null;index;uniqueIndex:idx_review_user_solution" json:"solution_id"`
	Solution   Solution `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID     uint     `gorm:"not null;index;uniqueIndex:idx_review_user_solution" json:"user_id"`
	User       User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	// Six rating dimensions, integers on the 1-10 scale
	Performance int `gorm:"not null" json:"performance"`
	Reliability int `gorm:"not null" json:"reliability"`
	EaseOfUse   int `gorm:"not null" json:"ease_of_use"`
	Value       int `gorm:"not null" json:"value"`
	Trust       int `gorm:"not null" json:"trust"`
	Delight     int `gorm:"not null" json:"delight"`

	ReviewText string `gorm:"type:text;not null" json:"review_text"`
	YouTubeURL string `json:"youtube_url"`            // Optional video review
	Version    string `gorm:"size:50" json:"version"` // Solution version reviewed

	// Helpful-vote counters. Counters only, no per-voter records.
	HelpfulYes   int `gorm:"default:0" json:"helpful_yes"`
	HelpfulTotal int `gorm:"default:0" json:"helpful_total"`

	CreatedAt time.Time `json:"created_at"`
}
