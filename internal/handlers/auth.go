package handlers

import (
	"net/http"
	"strings"

	"robotdance/internal/models"
	"robotdance/internal/services"
	"robotdance/internal/store"
	"robotdance/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	st        store.Store
	referrals *services.ReferralService
}

func NewAuthHandler(st store.Store, referrals *services.ReferralService) *AuthHandler {
	return &AuthHandler{st: st, referrals: referrals}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// createUser creates a local account with a fresh referral code.
func (h *AuthHandler) createUser(name, email, password string) (*models.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	code, err := h.referrals.NewCode(name)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		Password:     hash,
		Provider:     "local",
		ReferralCode: code,
	}
	if err := h.st.CreateUser(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	if req.Name == "" {
		Fail(c, http.StatusBadRequest, "Name is required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		Fail(c, http.StatusBadRequest, "Invalid email address")
		return
	}
	if len(req.Password) < 6 {
		Fail(c, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	if _, err := h.st.FindUserByEmail(req.Email); err == nil {
		Fail(c, http.StatusConflict, "Email already registered")
		return
	}

	user, err := h.createUser(req.Name, req.Email, req.Password)
	if err != nil {
		FailErr(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	OK(c, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.st.FindUserByEmail(strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil || !utils.CheckPassword(req.Password, user.Password) {
		Fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	OK(c, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	OK(c, nil)
}

// Me returns the signed-in user.
func (h *AuthHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Fail(c, http.StatusUnauthorized, "Not signed in")
		return
	}
	OK(c, user)
}
