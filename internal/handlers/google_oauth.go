package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"robotdance/internal/models"
	"robotdance/internal/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var googleOauthConfig *oauth2.Config

// InitGoogleOAuth wires the Google OAuth client from the environment.
func InitGoogleOAuth() {
	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = "http://localhost:8080"
	}

	googleOauthConfig = &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  siteURL + "/auth/google/callback",
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleLogin starts the OAuth flow with a random state nonce bound to the
// session.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if googleOauthConfig == nil || googleOauthConfig.ClientID == "" {
		Fail(c, http.StatusServiceUnavailable, "Google sign-in is not configured")
		return
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		FailErr(c, err)
		return
	}
	state := base64.URLEncoding.EncodeToString(b)

	session := sessions.Default(c)
	session.Set("oauth_state", state)
	session.Save()

	c.Redirect(http.StatusFound, googleOauthConfig.AuthCodeURL(state))
}

// GoogleCallback finishes the flow: verifies state, exchanges the code,
// fetches the profile, and signs the user in (creating the account with a
// referral code on first visit).
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	session := sessions.Default(c)
	expectedState, _ := session.Get("oauth_state").(string)
	session.Delete("oauth_state")
	session.Save()

	if expectedState == "" || c.Query("state") != expectedState {
		Fail(c, http.StatusBadRequest, "Invalid OAuth state")
		return
	}

	token, err := googleOauthConfig.Exchange(context.Background(), c.Query("code"))
	if err != nil {
		Fail(c, http.StatusBadRequest, "OAuth code exchange failed")
		return
	}

	client := googleOauthConfig.Client(context.Background(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		FailErr(c, err)
		return
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		FailErr(c, err)
		return
	}
	if info.Email == "" {
		Fail(c, http.StatusBadRequest, "Google account has no email")
		return
	}

	user, err := h.findOrCreateGoogleUser(info)
	if err != nil {
		FailErr(c, err)
		return
	}

	session.Set("user_id", user.ID)
	session.Save()

	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = "http://localhost:8080"
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("%s/dashboard", siteURL))
}

func (h *AuthHandler) findOrCreateGoogleUser(info googleUserInfo) (*models.User, error) {
	if user, err := h.st.FindUserByProviderID("google", info.ID); err == nil {
		return user, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	// Link an existing local account with the same email.
	if user, err := h.st.FindUserByEmail(info.Email); err == nil {
		return user, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	code, err := h.referrals.NewCode(info.Name)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         info.Name,
		Email:        info.Email,
		Provider:     "google",
		ProviderID:   info.ID,
		ReferralCode: code,
	}
	if err := h.st.CreateUser(&user); err != nil {
		return nil, err
	}
	return &user, nil
}
