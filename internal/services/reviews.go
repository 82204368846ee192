package services

import (
	"errors"
	"log"
	"strings"

	"robotdance/internal/models"
	"robotdance/internal/rds"
	"robotdance/internal/store"
)

var ErrReviewTooShort = errors.New("review text must be at least 10 characters")

// ReviewInput is a submitted review before validation.
type ReviewInput struct {
	SolutionID  uint   `json:"solution_id" binding:"required"`
	Performance int    `json:"performance"`
	Reliability int    `json:"reliability"`
	EaseOfUse   int    `json:"ease_of_use"`
	Value       int    `json:"value"`
	Trust       int    `json:"trust"`
	Delight     int    `json:"delight"`
	ReviewText  string `json:"review_text"`
	YouTubeURL  string `json:"youtube_url"`
	Version     string `json:"version"`
}

// ReviewService owns review creation and the helpful-vote counters.
type ReviewService struct {
	st  store.Store
	rds *RDSService
}

func NewReviewService(st store.Store, rdsService *RDSService) *ReviewService {
	return &ReviewService{st: st, rds: rdsService}
}

// SubmitReview validates and persists a review, then recomputes the
// solution's cached RDS score. The review is the primary record: if the
// write-back of the cached score fails after the review exists, the error is
// logged, the recompute is queued for retry, and the review is still
// returned — the cache is transiently stale, not the review lost.
func (s *ReviewService) SubmitReview(userID uint, in ReviewInput) (*models.Review, error) {
	if _, err := rds.FromInts(in.Performance, in.Reliability, in.EaseOfUse, in.Value, in.Trust, in.Delight); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(in.ReviewText)) < 10 {
		return nil, ErrReviewTooShort
	}

	if _, err := s.st.FindSolution(in.SolutionID); err != nil {
		return nil, err
	}

	reviewed, err := s.st.HasUserReviewed(userID, in.SolutionID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, store.ErrAlreadyReviewed
	}

	review := &models.Review{
		SolutionID:  in.SolutionID,
		UserID:      userID,
		Performance: in.Performance,
		Reliability: in.Reliability,
		EaseOfUse:   in.EaseOfUse,
		Value:       in.Value,
		Trust:       in.Trust,
		Delight:     in.Delight,
		ReviewText:  strings.TrimSpace(in.ReviewText),
		YouTubeURL:  in.YouTubeURL,
		Version:     in.Version,
	}
	if err := s.st.CreateReview(review); err != nil {
		return nil, err
	}

	if err := s.rds.Recompute(in.SolutionID); err != nil {
		log.Printf("RDS write-back for solution %d failed after review %d was created: %v", in.SolutionID, review.ID, err)
		s.rds.ScheduleUpdate(in.SolutionID)
	}

	return review, nil
}

// VoteHelpful bumps a review's helpful counters. Votes are anonymous
// counters; there is deliberately no per-voter record here, and the store
// seam is where identity-keyed dedup would slot in.
func (s *ReviewService) VoteHelpful(reviewID uint, isHelpful bool) error {
	return s.st.IncrementHelpful(reviewID, isHelpful)
}
