package services

import (
	"errors"
	"sort"

	"robotdance/internal/models"
	"robotdance/internal/store"
)

// Trusted reviewer badge thresholds.
const (
	TrustedReviewerThreshold = 7.5
	TrustedMinRatings        = 3
)

// TrustInfo is the slice of a reviewer's record the ranking policy needs.
type TrustInfo struct {
	Score float64
	Count int
}

// Trusted reports whether a reviewer qualifies for the trusted tier.
func (t TrustInfo) Trusted() bool {
	return t.Count >= TrustedMinRatings && t.Score >= TrustedReviewerThreshold
}

// RankReviews orders a solution's reviews for display: trusted reviewers
// first; within a tier, reviewers who both have at least one trust rating
// sort by trust score; otherwise newest review first. The sort is stable, so
// any remaining ties keep their original relative order.
func RankReviews(reviews []models.Review, trust map[uint]TrustInfo) []models.Review {
	ranked := make([]models.Review, len(reviews))
	copy(ranked, reviews)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		ta, tb := trust[a.UserID], trust[b.UserID]

		if ta.Trusted() != tb.Trusted() {
			return ta.Trusted()
		}

		if ta.Count > 0 && tb.Count > 0 && ta.Score != tb.Score {
			return ta.Score > tb.Score
		}

		return a.CreatedAt.After(b.CreatedAt)
	})

	return ranked
}

// RankedReviews fetches a solution's reviews plus their authors and returns
// the reviews in display order alongside the reviewer records.
func (s *ReviewService) RankedReviews(solutionID uint) ([]models.Review, map[uint]models.User, error) {
	reviews, err := s.st.FindReviewsBySolution(solutionID)
	if err != nil {
		return nil, nil, err
	}

	reviewers := make(map[uint]models.User)
	trust := make(map[uint]TrustInfo)
	for _, r := range reviews {
		if _, ok := reviewers[r.UserID]; ok {
			continue
		}
		user, err := s.st.FindUser(r.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, nil, err
		}
		reviewers[r.UserID] = *user
		trust[r.UserID] = TrustInfo{Score: user.TrustScore, Count: user.TrustRatingCount}
	}

	return RankReviews(reviews, trust), reviewers, nil
}
