// Package gormstore is the Postgres adapter behind store.Store.
package gormstore

import (
	"errors"
	"fmt"
	"strings"

	"robotdance/internal/models"
	"robotdance/internal/rds"
	"robotdance/internal/store"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ---------- Solutions ----------

func (s *Store) FindSolution(id uint) (*models.Solution, error) {
	var sol models.Solution
	if err := s.db.First(&sol, id).Error; err != nil {
		return nil, translate(err)
	}
	return &sol, nil
}

func (s *Store) FindSolutionBySlug(slug string) (*models.Solution, error) {
	var sol models.Solution
	if err := s.db.Where("slug = ?", slug).First(&sol).Error; err != nil {
		return nil, translate(err)
	}
	return &sol, nil
}

func (s *Store) ListSolutions(f store.SolutionFilter) ([]models.Solution, int64, error) {
	q := s.db.Model(&models.Solution{})

	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := f.Sort
	switch sort {
	case "rds_score", "review_count", "created_at", "name":
	default:
		sort = "rds_score"
	}
	order := "DESC"
	if f.Order == "asc" {
		order = "ASC"
	}
	q = q.Order(fmt.Sprintf("%s %s", sort, order))

	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * f.Limit).Limit(f.Limit)
	}

	var solutions []models.Solution
	if err := q.Find(&solutions).Error; err != nil {
		return nil, 0, err
	}
	return solutions, total, nil
}

func (s *Store) CreateSolution(sol *models.Solution) error {
	if err := s.db.Create(sol).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return store.ErrDuplicateSlug
		}
		return err
	}
	return nil
}

func (s *Store) UpdateSolutionAggregate(solutionID uint, score, count int) error {
	result := s.db.Model(&models.Solution{}).
		Where("id = ?", solutionID).
		UpdateColumns(map[string]interface{}{
			"rds_score":    score,
			"review_count": count,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ---------- Reviews ----------

func (s *Store) FindReview(id uint) (*models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, id).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (s *Store) FindReviewsBySolution(solutionID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.Where("solution_id = ?", solutionID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (s *Store) FindReviewsByUser(userID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (s *Store) HasUserReviewed(userID, solutionID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Review{}).
		Where("user_id = ? AND solution_id = ?", userID, solutionID).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) CreateReview(r *models.Review) error {
	if err := s.db.Create(r).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return store.ErrAlreadyReviewed
		}
		return err
	}
	return nil
}

func (s *Store) IncrementHelpful(reviewID uint, isHelpful bool) error {
	updates := map[string]interface{}{
		"helpful_total": gorm.Expr("helpful_total + 1"),
	}
	if isHelpful {
		updates["helpful_yes"] = gorm.Expr("helpful_yes + 1")
	}
	result := s.db.Model(&models.Review{}).Where("id = ?", reviewID).UpdateColumns(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ---------- Users ----------

func (s *Store) FindUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) FindUserByProviderID(provider, providerID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("provider = ? AND provider_id = ?", provider, providerID).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) FindUserByReferralCode(code string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("referral_code = ?", code).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) CreateUser(u *models.User) error {
	return s.db.Create(u).Error
}

func (s *Store) IncrementUserClicks(userID uint) error {
	result := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("total_clicks", gorm.Expr("total_clicks + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ---------- Trust ratings ----------

func (s *Store) ExistsTrustRating(raterID, reviewID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.TrustRating{}).
		Where("rater_id = ? AND review_id = ?", raterID, reviewID).
		Count(&count).Error
	return count > 0, err
}

// ApplyTrustRating creates the rating fact and folds the rating into the
// reviewer's running average in one transaction. The reviewer row is locked
// so that concurrent ratings cannot lose an update to the (score, count)
// pair; the unique index on (rater_id, review_id) backstops the service-level
// duplicate check.
func (s *Store) ApplyTrustRating(raterID, reviewerID, reviewID uint, rating int) (float64, int, error) {
	var newScore float64
	var newCount int

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var reviewer models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&reviewer, reviewerID).Error; err != nil {
			return translate(err)
		}

		fact := models.TrustRating{
			RaterID:    raterID,
			ReviewerID: reviewerID,
			ReviewID:   reviewID,
			Rating:     rating,
		}
		if err := tx.Create(&fact).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return store.ErrDuplicateRating
			}
			return err
		}

		newCount = reviewer.TrustRatingCount + 1
		newScore = rds.Round1((reviewer.TrustScore*float64(reviewer.TrustRatingCount) + float64(rating)) / float64(newCount))

		return tx.Model(&models.User{}).
			Where("id = ?", reviewerID).
			UpdateColumns(map[string]interface{}{
				"trust_score":        newScore,
				"trust_rating_count": newCount,
			}).Error
	})
	if err != nil {
		return 0, 0, err
	}
	return newScore, newCount, nil
}

// ---------- Submissions ----------

func (s *Store) CreateSubmission(sub *models.Submission) error {
	return s.db.Create(sub).Error
}

func (s *Store) FindSubmission(id uint) (*models.Submission, error) {
	var sub models.Submission
	if err := s.db.First(&sub, id).Error; err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

// FindSubmissionByURL matches on the normalized form of the stored URL:
// scheme stripped, trailing slashes removed, lowercased. Callers pass an
// already-normalized URL.
func (s *Store) FindSubmissionByURL(url string) (*models.Submission, error) {
	var sub models.Submission
	err := s.db.Where(
		"LOWER(TRIM(TRAILING '/' FROM REPLACE(REPLACE(website_url, 'https://', ''), 'http://', ''))) = ?",
		url,
	).First(&sub).Error
	if err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (s *Store) MarkSubmissionPublished(id uint) error {
	result := s.db.Model(&models.Submission{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"status":       "approved",
			"published_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}
