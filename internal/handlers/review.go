package handlers

import (
	"net/http"

	"robotdance/internal/services"
	"robotdance/internal/store"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	st      store.Store
	reviews *services.ReviewService
	mail    *services.MailService
}

func NewReviewHandler(st store.Store, reviews *services.ReviewService, mail *services.MailService) *ReviewHandler {
	return &ReviewHandler{st: st, reviews: reviews, mail: mail}
}

// Create submits a review for a solution. The solution's RDS score is
// recomputed before the response goes out; the confirmation email is
// fire-and-forget.
func (h *ReviewHandler) Create(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Fail(c, http.StatusUnauthorized, "You must be signed in to review")
		return
	}

	var in services.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	review, err := h.reviews.SubmitReview(user.ID, in)
	if err != nil {
		FailErr(c, err)
		return
	}

	if solution, err := h.st.FindSolution(in.SolutionID); err == nil {
		h.mail.SendReviewThanks(user.Email, solution.Name)
	}

	OK(c, review)
}

// ListMine returns the signed-in user's reviews, newest first.
func (h *ReviewHandler) ListMine(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Fail(c, http.StatusUnauthorized, "You must be signed in")
		return
	}

	reviews, err := h.st.FindReviewsByUser(user.ID)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, reviews)
}
