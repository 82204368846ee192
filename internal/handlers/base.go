package handlers

import (
	"errors"
	"net/http"

	"robotdance/internal/middleware"
	"robotdance/internal/models"
	"robotdance/internal/rds"
	"robotdance/internal/services"
	"robotdance/internal/store"

	"github.com/gin-gonic/gin"
)

// OK writes the success envelope.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// Fail writes the error envelope.
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// FailErr maps known sentinel errors to their HTTP status; anything
// unexpected becomes a generic 500 so storage details never leak to clients.
func FailErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, rds.ErrOutOfRange),
		errors.Is(err, services.ErrReviewTooShort),
		errors.Is(err, services.ErrInvalidURL):
		Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		Fail(c, http.StatusNotFound, "Not found")
	case errors.Is(err, store.ErrDuplicateRating),
		errors.Is(err, store.ErrAlreadyReviewed),
		errors.Is(err, store.ErrDuplicateSlug),
		errors.Is(err, services.ErrSelfRating):
		Fail(c, http.StatusConflict, err.Error())
	default:
		Fail(c, http.StatusInternalServerError, "Something went wrong, please try again")
	}
}

// CurrentUser returns the session user loaded by middleware.LoadUser, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		if u, ok := user.(*models.User); ok {
			return u
		}
	}
	return nil
}
