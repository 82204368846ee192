package handlers

import (
	"net/http"

	"robotdance/internal/models"
	"robotdance/internal/services"
	"robotdance/internal/store"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	st        store.Store
	referrals *services.ReferralService
}

func NewUserHandler(st store.Store, referrals *services.ReferralService) *UserHandler {
	return &UserHandler{st: st, referrals: referrals}
}

type dashboardReview struct {
	models.Review
	SolutionName string `json:"solution_name"`
	SolutionSlug string `json:"solution_slug"`
	ReferralLink string `json:"referral_link"`
}

type dashboardResponse struct {
	User    *models.User      `json:"user"`
	Trusted bool              `json:"trusted"`
	Reviews []dashboardReview `json:"reviews"`
}

// Dashboard returns the signed-in user's reviews with per-solution referral
// links, plus their affiliate and trust stats.
func (h *UserHandler) Dashboard(c *gin.Context) {
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

	out := make([]dashboardReview, 0, len(reviews))
	for _, r := range reviews {
		entry := dashboardReview{Review: r}
		if solution, err := h.st.FindSolution(r.SolutionID); err == nil {
			entry.SolutionName = solution.Name
			entry.SolutionSlug = solution.Slug
			entry.ReferralLink = h.referrals.ReferralLink(user.ReferralCode, solution.Slug)
		}
		out = append(out, entry)
	}

	info := services.TrustInfo{Score: user.TrustScore, Count: user.TrustRatingCount}
	OK(c, dashboardResponse{
		User:    user,
		Trusted: info.Trusted(),
		Reviews: out,
	})
}
