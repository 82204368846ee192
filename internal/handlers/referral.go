package handlers

import (
	"errors"
	"net/http"

	"robotdance/internal/services"
	"robotdance/internal/store"

	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	st        store.Store
	referrals *services.ReferralService
}

func NewReferralHandler(st store.Store, referrals *services.ReferralService) *ReferralHandler {
	return &ReferralHandler{st: st, referrals: referrals}
}

// Redirect handles a referral link visit. Resolution never fails: every
// outcome is some redirect, and click tracking errors are swallowed so the
// visitor always lands somewhere sensible.
func (h *ReferralHandler) Redirect(c *gin.Context) {
	target := h.referrals.Resolve(c.Param("code"), c.Param("slug"))
	c.Redirect(http.StatusFound, target)
}

// Track is the JSON variant of the redirect resolution, for clients that
// want the target URL without following a redirect.
func (h *ReferralHandler) Track(c *gin.Context) {
	code := c.Query("code")
	slug := c.Query("slug")
	if code == "" || slug == "" {
		Fail(c, http.StatusBadRequest, "Missing code or slug")
		return
	}

	user, err := h.st.FindUserByReferralCode(code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			Fail(c, http.StatusNotFound, "Invalid referral code")
			return
		}
		FailErr(c, err)
		return
	}

	solution, err := h.st.FindSolutionBySlug(slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			Fail(c, http.StatusNotFound, "Solution not found")
			return
		}
		FailErr(c, err)
		return
	}

	if err := h.st.IncrementUserClicks(user.ID); err != nil {
		FailErr(c, err)
		return
	}

	redirectURL := solution.WebsiteURL
	if solution.AffiliateURL != "" {
		built, err := services.BuildAffiliateURL(solution.AffiliateURL, code, slug)
		if err != nil {
			FailErr(c, err)
			return
		}
		redirectURL = built
	}

	OK(c, gin.H{"redirect_url": redirectURL})
}
