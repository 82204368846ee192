package handlers

import (
	"net/http"

	"robotdance/internal/services"

	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	reviews *services.ReviewService
	trust   *services.TrustService
}

func NewFeedbackHandler(reviews *services.ReviewService, trust *services.TrustService) *FeedbackHandler {
	return &FeedbackHandler{reviews: reviews, trust: trust}
}

type helpfulRequest struct {
	ReviewID  uint  `json:"review_id" binding:"required"`
	IsHelpful *bool `json:"is_helpful" binding:"required"`
}

// Helpful records an anonymous was-this-helpful vote on a review.
func (h *FeedbackHandler) Helpful(c *gin.Context) {
	var req helpfulRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Missing review_id or is_helpful")
		return
	}

	if err := h.reviews.VoteHelpful(req.ReviewID, *req.IsHelpful); err != nil {
		FailErr(c, err)
		return
	}
	OK(c, nil)
}

type trustRatingRequest struct {
	ReviewID uint `json:"review_id" binding:"required"`
	Rating   int  `json:"rating" binding:"required"`
}

// TrustRating lets a signed-in user rate a review author's credibility once
// per review.
func (h *FeedbackHandler) TrustRating(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Fail(c, http.StatusUnauthorized, "Must be signed in to rate reviewers")
		return
	}

	var req trustRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Missing review_id or rating")
		return
	}

	if err := h.trust.SubmitTrustRating(user.ID, req.ReviewID, req.Rating); err != nil {
		FailErr(c, err)
		return
	}
	OK(c, nil)
}
