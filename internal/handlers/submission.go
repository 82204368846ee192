package handlers

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"robotdance/internal/models"
	"robotdance/internal/services"
	"robotdance/internal/store"
	"robotdance/internal/utils"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	st   store.Store
	mail *services.MailService
}

func NewSubmissionHandler(st store.Store, mail *services.MailService) *SubmissionHandler {
	return &SubmissionHandler{st: st, mail: mail}
}

type submissionRequest struct {
	Name           string `json:"name"`
	WebsiteURL     string `json:"website_url"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	SubmitterEmail string `json:"submitter_email"`
	SubmitterName  string `json:"submitter_name"`
}

// Create accepts a community tool submission into the moderation queue.
// Confirmation and admin-alert emails are fire-and-forget.
func (h *SubmissionHandler) Create(c *gin.Context) {
	var req submissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.WebsiteURL = strings.TrimSpace(req.WebsiteURL)
	req.Description = strings.TrimSpace(req.Description)
	req.SubmitterEmail = strings.TrimSpace(req.SubmitterEmail)

	if req.Name == "" || req.WebsiteURL == "" || req.Description == "" {
		Fail(c, http.StatusBadRequest, "Name, website URL and description are required")
		return
	}
	if !strings.Contains(req.SubmitterEmail, "@") {
		Fail(c, http.StatusBadRequest, "A valid submitter email is required")
		return
	}

	// Duplicate check compares scheme-stripped lowercased URLs; the stored
	// record keeps the URL as submitted.
	if _, err := h.st.FindSubmissionByURL(utils.NormalizeURL(req.WebsiteURL)); err == nil {
		Fail(c, http.StatusConflict, "This tool has already been submitted")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		FailErr(c, err)
		return
	}

	submission := models.Submission{
		Name:           req.Name,
		WebsiteURL:     req.WebsiteURL,
		Description:    req.Description,
		Category:       req.Category,
		SubmitterEmail: req.SubmitterEmail,
		SubmitterName:  strings.TrimSpace(req.SubmitterName),
		Status:         "pending",
	}
	if err := h.st.CreateSubmission(&submission); err != nil {
		FailErr(c, err)
		return
	}

	h.mail.SendSubmissionConfirmation(submission.SubmitterEmail, submission.Name)
	if adminEmail := os.Getenv("ADMIN_EMAIL"); adminEmail != "" {
		h.mail.SendSubmissionAlert(adminEmail, submission.Name, submission.WebsiteURL, submission.SubmitterEmail)
	}

	OK(c, submission)
}

// Publish promotes an approved submission to a live solution with a fresh
// slug and an empty aggregate.
func (h *SubmissionHandler) Publish(c *gin.Context) {
	submission, err := h.st.FindSubmission(utils.StringToUint(c.Param("id")))
	if err != nil {
		FailErr(c, err)
		return
	}

	solution := models.Solution{
		Name:        submission.Name,
		Slug:        utils.GenerateSlug(submission.Name),
		Description: submission.Description,
		Category:    submission.Category,
		WebsiteURL:  submission.WebsiteURL,
	}
	if err := h.st.CreateSolution(&solution); err != nil {
		FailErr(c, err)
		return
	}

	if err := h.st.MarkSubmissionPublished(submission.ID); err != nil {
		FailErr(c, err)
		return
	}

	OK(c, solution)
}
