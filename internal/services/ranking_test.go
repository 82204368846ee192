package services

import (
	"testing"
	"time"

	"robotdance/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewAt(id, userID uint, createdAt time.Time) models.Review {
	return models.Review{ID: id, UserID: userID, CreatedAt: createdAt}
}

func TestTrusted(t *testing.T) {
	assert.True(t, TrustInfo{Score: 7.5, Count: 3}.Trusted())
	assert.True(t, TrustInfo{Score: 9.9, Count: 10}.Trusted())
	assert.False(t, TrustInfo{Score: 7.4, Count: 3}.Trusted())
	assert.False(t, TrustInfo{Score: 10, Count: 2}.Trusted())
	assert.False(t, TrustInfo{}.Trusted())
}

func TestRankReviewsTiers(t *testing.T) {
	now := time.Now()
	// A is trusted; B has a higher raw score but too few ratings; C is
	// unrated and newest.
	reviews := []models.Review{
		reviewAt(1, 10, now.Add(-3*time.Hour)), // A
		reviewAt(2, 20, now.Add(-2*time.Hour)), // B
		reviewAt(3, 30, now.Add(-1*time.Hour)), // C
	}
	trust := map[uint]TrustInfo{
		10: {Score: 8.0, Count: 5},
		20: {Score: 9.0, Count: 2},
	}

	ranked := RankReviews(reviews, trust)
	require.Len(t, ranked, 3)
	assert.Equal(t, uint(1), ranked[0].ID)
	// B vs C: C has no ratings, so the trust-score rule does not apply and
	// recency decides. C's review is newer.
	assert.Equal(t, uint(3), ranked[1].ID)
	assert.Equal(t, uint(2), ranked[2].ID)

	// Input order untouched.
	assert.Equal(t, uint(1), reviews[0].ID)
}

func TestRankReviewsTrustScoreWithinTier(t *testing.T) {
	now := time.Now()
	reviews := []models.Review{
		reviewAt(1, 10, now.Add(-1*time.Hour)), // rated 6.0, newest
		reviewAt(2, 20, now.Add(-2*time.Hour)), // rated 9.0
	}
	trust := map[uint]TrustInfo{
		10: {Score: 6.0, Count: 2},
		20: {Score: 9.0, Count: 2},
	}

	ranked := RankReviews(reviews, trust)
	assert.Equal(t, uint(2), ranked[0].ID)
	assert.Equal(t, uint(1), ranked[1].ID)
}

func TestRankReviewsStableOnTies(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reviews := []models.Review{
		reviewAt(1, 10, ts),
		reviewAt(2, 20, ts),
		reviewAt(3, 30, ts),
	}
	trust := map[uint]TrustInfo{
		10: {Score: 8.0, Count: 1},
		20: {Score: 8.0, Count: 1},
	}

	ranked := RankReviews(reviews, trust)
	// Same trust score and same timestamp everywhere: original order holds.
	assert.Equal(t, uint(1), ranked[0].ID)
	assert.Equal(t, uint(2), ranked[1].ID)
	assert.Equal(t, uint(3), ranked[2].ID)
}

func TestRankedReviewsFetchesReviewers(t *testing.T) {
	st, svc := newTestServices(t)
	sol := seedSolution(t, st)
	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")

	seedReview(t, st, alice.ID, sol.ID)
	seedReview(t, st, bob.ID, sol.ID)

	ranked, reviewers, err := svc.RankedReviews(sol.ID)
	require.NoError(t, err)
	assert.Len(t, ranked, 2)
	assert.Contains(t, reviewers, alice.ID)
	assert.Contains(t, reviewers, bob.ID)
}
