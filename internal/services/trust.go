package services

import (
	"errors"
	"fmt"

	"robotdance/internal/rds"
	"robotdance/internal/store"
)

var ErrSelfRating = errors.New("you cannot rate your own review")

// TrustService maintains reviewer trust scores: a running average of 1-10
// credibility ratings from other users, updated incrementally without ever
// replaying the individual ratings.
type TrustService struct {
	st store.Store
}

func NewTrustService(st store.Store) *TrustService {
	return &TrustService{st: st}
}

// SubmitTrustRating checks the preconditions in order — rating range, review
// exists, no self-rating, no duplicate — and then records the rating fact
// together with the reviewer's updated running average in one transaction.
func (s *TrustService) SubmitTrustRating(raterID, reviewID uint, rating int) error {
	if rating < 1 || rating > 10 {
		return fmt.Errorf("invalid trust rating: %w", rds.ErrOutOfRange)
	}

	review, err := s.st.FindReview(reviewID)
	if err != nil {
		return err
	}

	if review.UserID == raterID {
		return ErrSelfRating
	}

	rated, err := s.st.ExistsTrustRating(raterID, reviewID)
	if err != nil {
		return err
	}
	if rated {
		return store.ErrDuplicateRating
	}

	_, _, err = s.st.ApplyTrustRating(raterID, review.UserID, reviewID, rating)
	return err
}
