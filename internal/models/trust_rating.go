package models

import (
	"time"
)

// TrustRating records one user rating the credibility of a review's author.
// The unique index on (rater_id, review_id) enforces at most one rating per
// rater per review; each fact contributes exactly once to the reviewer's
// running trust score.
type TrustRating struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RaterID    uint      `gorm:"not null;index;uniqueIndex:idx_rater_review" json:"rater_id"`
	ReviewerID uint      `gorm:"not null;index" json:"reviewer_id"`
	ReviewID   uint      `gorm:"not null;index;uniqueIndex:idx_rater_review" json:"review_id"`
	Rating     int       `gorm:"not null" json:"rating"` // 1-10
	CreatedAt  time.Time `json:"created_at"`
}
