package handlers

import (
	"fmt"
	"html/template"
	"time"

	"robotdance/internal/models"
	"robotdance/internal/rds"
	"robotdance/internal/services"
	"robotdance/internal/store"
	"robotdance/internal/utils"

	"github.com/gin-gonic/gin"
)

type SolutionHandler struct {
	st      store.Store
	reviews *services.ReviewService
}

func NewSolutionHandler(st store.Store, reviews *services.ReviewService) *SolutionHandler {
	return &SolutionHandler{st: st, reviews: reviews}
}

const (
	solutionListTTL  = 2 * time.Minute
	defaultPageLimit = 24
	maxPageLimit     = 100
)

type solutionListResponse struct {
	Data       []models.Solution `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// List returns filtered, sorted, paginated solutions. Results are cached
// briefly; the listing is the hottest read path and tolerates a slightly
// stale rds_score.
func (h *SolutionHandler) List(c *gin.Context) {
	filter := store.SolutionFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Order:    c.Query("order"),
		Page:     utils.StringToInt(c.DefaultQuery("page", "1")),
		Limit:    utils.StringToInt(c.DefaultQuery("limit", "24")),
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	cacheKey := fmt.Sprintf("solutions:%s:%s:%s:%s:%d:%d",
		filter.Category, filter.Search, filter.Sort, filter.Order, filter.Page, filter.Limit)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		OK(c, cached)
		return
	}

	solutions, total, err := h.st.ListSolutions(filter)
	if err != nil {
		FailErr(c, err)
		return
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	resp := solutionListResponse{
		Data:       solutions,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}

	utils.GetCache().Set(cacheKey, resp, solutionListTTL)
	OK(c, resp)
}

type reviewView struct {
	models.Review
	ReviewHTML       template.HTML `json:"review_html"`
	ReviewerName     string        `json:"reviewer_name"`
	ReviewerTrusted  bool          `json:"reviewer_trusted"`
	TrustScore       float64       `json:"reviewer_trust_score"`
	TrustRatingCount int           `json:"reviewer_trust_rating_count"`
}

type solutionDetailResponse struct {
	models.Solution
	RDSLabel              string       `json:"rds_label"`
	RDSColor              string       `json:"rds_color"`
	RDSBgColor            string       `json:"rds_bg_color"`
	RDSBreakdown          rds.Vector   `json:"rds_breakdown"`
	Reviews               []reviewView `json:"reviews"`
	AffiliateReviewerCode string       `json:"affiliate_reviewer_code,omitempty"`
}

// Detail returns one solution with its reviews in display order. The
// top-ranked review's author gets the page-level affiliate attribution.
func (h *SolutionHandler) Detail(c *gin.Context) {
	solution, err := h.st.FindSolutionBySlug(c.Param("slug"))
	if err != nil {
		FailErr(c, err)
		return
	}

	ranked, reviewers, err := h.reviews.RankedReviews(solution.ID)
	if err != nil {
		FailErr(c, err)
		return
	}

	views := make([]reviewView, 0, len(ranked))
	for _, r := range ranked {
		view := reviewView{
			Review:     r,
			ReviewHTML: utils.RenderMarkdown(r.ReviewText),
		}
		if reviewer, ok := reviewers[r.UserID]; ok {
			info := services.TrustInfo{Score: reviewer.TrustScore, Count: reviewer.TrustRatingCount}
			view.ReviewerName = reviewer.Name
			view.ReviewerTrusted = info.Trusted()
			view.TrustScore = reviewer.TrustScore
			view.TrustRatingCount = reviewer.TrustRatingCount
		}
		views = append(views, view)
	}

	resp := solutionDetailResponse{
		Solution:   *solution,
		RDSLabel:   rds.Classify(solution.RDSScore),
		RDSColor:   rds.Color(solution.RDSScore),
		RDSBgColor: rds.BgColor(solution.RDSScore),
		Reviews:    views,
	}

	if len(ranked) > 0 {
		if reviewer, ok := reviewers[ranked[0].UserID]; ok {
			resp.AffiliateReviewerCode = reviewer.ReferralCode
		}
		resp.RDSBreakdown = rds.AverageRatings(services.RatingVectors(ranked))
	}

	OK(c, resp)
}
