package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"robotdance/internal/middleware"
	"robotdance/internal/models"
	"robotdance/internal/services"
	"robotdance/internal/store/memstore"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feedbackFixture struct {
	st     *memstore.Store
	router *gin.Engine
	review *models.Review
	author *models.User
	rater  *models.User
}

// newFeedbackFixture wires the feedback routes against an in-memory store,
// with a test middleware that plants the given user the way LoadUser would.
func newFeedbackFixture(t *testing.T, sessionUser **models.User) *feedbackFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := memstore.New()
	solution := &models.Solution{Name: "Claude", Slug: "claude"}
	require.NoError(t, st.CreateSolution(solution))

	author := &models.User{Name: "author", Email: "author@example.com"}
	require.NoError(t, st.CreateUser(author))
	rater := &models.User{Name: "rater", Email: "rater@example.com"}
	require.NoError(t, st.CreateUser(rater))

	review := &models.Review{
		SolutionID: solution.ID, UserID: author.ID,
		Performance: 8, Reliability: 8, EaseOfUse: 8, Value: 8, Trust: 8, Delight: 8,
		ReviewText: "solid tool, use it daily",
	}
	require.NoError(t, st.CreateReview(review))

	reviews := services.NewReviewService(st, services.NewRDSService(st))
	h := NewFeedbackHandler(reviews, services.NewTrustService(st))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if *sessionUser != nil {
			c.Set(middleware.CheckUserKey, *sessionUser)
		}
	})
	r.POST("/api/feedback/helpful", h.Helpful)
	r.POST("/api/feedback/trust-rating", h.TrustRating)

	return &feedbackFixture{st: st, router: r, review: review, author: author, rater: rater}
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHelpfulEndpoint(t *testing.T) {
	var nobody *models.User
	f := newFeedbackFixture(t, &nobody)

	w := postJSON(t, f.router, "/api/feedback/helpful",
		fmt.Sprintf(`{"review_id": %d, "is_helpful": true}`, f.review.ID))
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, f.router, "/api/feedback/helpful",
		fmt.Sprintf(`{"review_id": %d, "is_helpful": false}`, f.review.ID))
	assert.Equal(t, http.StatusOK, w.Code)

	got, err := f.st.FindReview(f.review.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.HelpfulYes)
	assert.Equal(t, 2, got.HelpfulTotal)
}

func TestHelpfulEndpointValidation(t *testing.T) {
	var nobody *models.User
	f := newFeedbackFixture(t, &nobody)

	// is_helpful missing entirely
	w := postJSON(t, f.router, "/api/feedback/helpful",
		fmt.Sprintf(`{"review_id": %d}`, f.review.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// unknown review
	w = postJSON(t, f.router, "/api/feedback/helpful",
		`{"review_id": 9999, "is_helpful": true}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrustRatingEndpoint(t *testing.T) {
	var sessionUser *models.User
	f := newFeedbackFixture(t, &sessionUser)
	body := fmt.Sprintf(`{"review_id": %d, "rating": 9}`, f.review.ID)

	// Signed out
	w := postJSON(t, f.router, "/api/feedback/trust-rating", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Signed in
	sessionUser = f.rater
	w = postJSON(t, f.router, "/api/feedback/trust-rating", body)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	author, err := f.st.FindUser(f.author.ID)
	require.NoError(t, err)
	assert.Equal(t, 9.0, author.TrustScore)
	assert.Equal(t, 1, author.TrustRatingCount)

	// Rating the same review again conflicts.
	w = postJSON(t, f.router, "/api/feedback/trust-rating", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Rating your own review conflicts too.
	sessionUser = f.author
	w = postJSON(t, f.router, "/api/feedback/trust-rating", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Out-of-range rating is a 400.
	sessionUser = f.rater
	w = postJSON(t, f.router, "/api/feedback/trust-rating",
		fmt.Sprintf(`{"review_id": %d, "rating": 11}`, f.review.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
