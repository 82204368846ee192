package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"robotdance/internal/models"
	"robotdance/internal/rds"
	"robotdance/internal/store"
	"robotdance/internal/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T) (*memstore.Store, *ReviewService) {
	t.Helper()
	st := memstore.New()
	return st, NewReviewService(st, NewRDSService(st))
}

func seedSolution(t *testing.T, st *memstore.Store) *models.Solution {
	t.Helper()
	sol := &models.Solution{Name: "Claude", Slug: "claude"}
	require.NoError(t, st.CreateSolution(sol))
	return sol
}

func seedUser(t *testing.T, st *memstore.Store, name string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com"}
	require.NoError(t, st.CreateUser(u))
	return u
}

func uniformInput(solutionID uint, rating int) ReviewInput {
	return ReviewInput{
		SolutionID:  solutionID,
		Performance: rating,
		Reliability: rating,
		EaseOfUse:   rating,
		Value:       rating,
		Trust:       rating,
		Delight:     rating,
		ReviewText:  "long enough review text",
	}
}

func TestSubmitReviewUpdatesAggregate(t *testing.T) {
	st, svc := newTestServices(t)
	sol := seedSolution(t, st)
	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")

	review, err := svc.SubmitReview(alice.ID, uniformInput(sol.ID, 10))
	require.NoError(t, err)
	assert.NotZero(t, review.ID)

	got, err := st.FindSolution(sol.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.RDSScore)
	assert.Equal(t, 1, got.ReviewCount)

	// Second review of all 6s: average is all 8s, score 80.
	_, err = svc.SubmitReview(bob.ID, uniformInput(sol.ID, 6))
	require.NoError(t, err)

	got, err = st.FindSolution(sol.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, got.RDSScore)
	assert.Equal(t, 2, got.ReviewCount)
}

func TestSubmitReviewValidation(t *testing.T) {
	st, svc := newTestServices(t)
	sol := seedSolution(t, st)
	alice := seedUser(t, st, "alice")

	bad := uniformInput(sol.ID, 7)
	bad.Trust = 11
	_, err := svc.SubmitReview(alice.ID, bad)
	assert.ErrorIs(t, err, rds.ErrOutOfRange)

	short := uniformInput(sol.ID, 7)
	short.ReviewText = "   meh    "
	_, err = svc.SubmitReview(alice.ID, short)
	assert.ErrorIs(t, err, ErrReviewTooShort)

	_, err = svc.SubmitReview(alice.ID, uniformInput(sol.ID+99, 7))
	assert.ErrorIs(t, err, store.ErrNotFound)

	// No review was created, so the aggregate stays at the sentinel.
	got, err := st.FindSolution(sol.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.RDSScore)
	assert.Equal(t, 0, got.ReviewCount)
}

func TestSubmitReviewOnePerUser(t *testing.T) {
	st, svc := newTestServices(t)
	sol := seedSolution(t, st)
	alice := seedUser(t, st, "alice")

	_, err := svc.SubmitReview(alice.ID, uniformInput(sol.ID, 8))
	require.NoError(t, err)

	_, err = svc.SubmitReview(alice.ID, uniformInput(sol.ID, 9))
	assert.ErrorIs(t, err, store.ErrAlreadyReviewed)

	got, err := st.FindSolution(sol.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ReviewCount)
}

func TestRecomputeNoReviewsWritesZeroPair(t *testing.T) {
	st := memstore.New()
	sol := seedSolution(t, st)
	// Pretend a stale cache survived a review purge.
	require.NoError(t, st.UpdateSolutionAggregate(sol.ID, 77, 9))

	rdsService := NewRDSService(st)
	require.NoError(t, rdsService.Recompute(sol.ID))

	got, err := st.FindSolution(sol.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.RDSScore)
	assert.Equal(t, 0, got.ReviewCount)
}

// aggregateWriteFails persists reviews normally but rejects every write of
// the cached (rds_score, review_count) pair.
type aggregateWriteFails struct {
	*memstore.Store
}

func (s aggregateWriteFails) UpdateSolutionAggregate(solutionID uint, score, count int) error {
	return errors.New("connection reset by peer")
}

// A failed score write-back after the review is persisted is a degraded
// success: the review comes back with no error and the recompute is left to
// the retry queue.
func TestSubmitReviewWriteBackFailure(t *testing.T) {
	st := memstore.New()
	sol := seedSolution(t, st)
	alice := seedUser(t, st, "alice")

	failing := aggregateWriteFails{st}
	svc := NewReviewService(failing, NewRDSService(failing))

	review, err := svc.SubmitReview(alice.ID, uniformInput(sol.ID, 8))
	require.NoError(t, err)
	require.NotNil(t, review)
	assert.NotZero(t, review.ID)

	reviews, err := st.FindReviewsBySolution(sol.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	// The cached aggregate never got the write.
	got, err := st.FindSolution(sol.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.RDSScore)
	assert.Equal(t, 0, got.ReviewCount)
}

// Concurrent submissions from distinct users must all land, and the last
// write-back must reflect every one of them.
func TestSubmitReviewConcurrent(t *testing.T) {
	st, svc := newTestServices(t)
	sol := seedSolution(t, st)

	const n = 20
	users := make([]*models.User, n)
	for i := range users {
		users[i] = seedUser(t, st, fmt.Sprintf("user%d", i))
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(u *models.User) {
			defer wg.Done()
			_, err := svc.SubmitReview(u.ID, uniformInput(sol.ID, 8))
			assert.NoError(t, err)
		}(users[i])
	}
	wg.Wait()

	got, err := st.FindSolution(sol.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got.ReviewCount)
	assert.Equal(t, 80, got.RDSScore)
}

func TestVoteHelpful(t *testing.T) {
	st, svc := newTestServices(t)
	sol := seedSolution(t, st)
	alice := seedUser(t, st, "alice")

	review, err := svc.SubmitReview(alice.ID, uniformInput(sol.ID, 8))
	require.NoError(t, err)

	require.NoError(t, svc.VoteHelpful(review.ID, true))
	require.NoError(t, svc.VoteHelpful(review.ID, false))
	require.NoError(t, svc.VoteHelpful(review.ID, true))

	got, err := st.FindReview(review.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.HelpfulYes)
	assert.Equal(t, 3, got.HelpfulTotal)

	assert.ErrorIs(t, svc.VoteHelpful(review.ID+99, true), store.ErrNotFound)
}
