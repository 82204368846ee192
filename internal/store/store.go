// Package store defines the persistence operations the scoring core consumes.
// The production adapter is gormstore (Postgres); memstore backs the tests.
// Every call can fail: the external data store is on the far side of a
// network hop.
package store

import (
	"errors"

	"robotdance/internal/models"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateRating = errors.New("you have already rated this review")
	ErrAlreadyReviewed = errors.New("you have already reviewed this solution")
	ErrDuplicateSlug   = errors.New("a solution with this slug already exists")
)

// SolutionFilter narrows and orders solution listings.
type SolutionFilter struct {
	Category string
	Search   string
	Sort     string // column name; defaults to rds_score
	Order    string // "asc" or "desc"
	Page     int
	Limit    int
}

type Store interface {
	// Solutions
	FindSolution(id uint) (*models.Solution, error)
	FindSolutionBySlug(slug string) (*models.Solution, error)
	ListSolutions(f SolutionFilter) ([]models.Solution, int64, error)
	CreateSolution(s *models.Solution) error
	// UpdateSolutionAggregate writes the denormalized (rds_score,
	// review_count) pair onto the solution record.
	UpdateSolutionAggregate(solutionID uint, score, count int) error

	// Reviews
	FindReview(id uint) (*models.Review, error)
	FindReviewsBySolution(solutionID uint) ([]models.Review, error)
	FindReviewsByUser(userID uint) ([]models.Review, error)
	HasUserReviewed(userID, solutionID uint) (bool, error)
	CreateReview(r *models.Review) error
	// IncrementHelpful bumps helpful_total, and helpful_yes when isHelpful,
	// atomically.
	IncrementHelpful(reviewID uint, isHelpful bool) error

	// Users
	FindUser(id uint) (*models.User, error)
	FindUserByEmail(email string) (*models.User, error)
	FindUserByProviderID(provider, providerID string) (*models.User, error)
	FindUserByReferralCode(code string) (*models.User, error)
	CreateUser(u *models.User) error
	IncrementUserClicks(userID uint) error

	// Trust ratings
	ExistsTrustRating(raterID, reviewID uint) (bool, error)
	// ApplyTrustRating creates the TrustRating fact and folds the new rating
	// into the reviewer's running average in one logical transaction. It
	// returns the reviewer's new (score, count) pair.
	ApplyTrustRating(raterID, reviewerID, reviewID uint, rating int) (float64, int, error)

	// Submissions
	CreateSubmission(s *models.Submission) error
	FindSubmission(id uint) (*models.Submission, error)
	FindSubmissionByURL(url string) (*models.Submission, error)
	MarkSubmissionPublished(id uint) error
}
