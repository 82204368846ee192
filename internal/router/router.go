package router

import (
	"robotdance/internal/handlers"
	"robotdance/internal/middleware"
	"robotdance/internal/services"
	"robotdance/internal/store"

	"github.com/gin-gonic/gin"
)

// Deps carries the wired services the handlers need.
type Deps struct {
	Store     store.Store
	Reviews   *services.ReviewService
	Trust     *services.TrustService
	Referrals *services.ReferralService
	Mail      *services.MailService
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Handlers
	authHandler := handlers.NewAuthHandler(d.Store, d.Referrals)
	solutionHandler := handlers.NewSolutionHandler(d.Store, d.Reviews)
	reviewHandler := handlers.NewReviewHandler(d.Store, d.Reviews, d.Mail)
	feedbackHandler := handlers.NewFeedbackHandler(d.Reviews, d.Trust)
	referralHandler := handlers.NewReferralHandler(d.Store, d.Referrals)
	userHandler := handlers.NewUserHandler(d.Store, d.Referrals)
	submissionHandler := handlers.NewSubmissionHandler(d.Store, d.Mail)

	// Referral links redirect; everything else is a JSON API
	r.GET("/r/:code/:slug", referralHandler.Redirect)

	api := r.Group("/api")
	{
		// Public routes
		api.GET("/solutions", solutionHandler.List)          // directory listing
		api.GET("/solutions/:slug", solutionHandler.Detail)  // detail with ranked reviews
		api.GET("/track", referralHandler.Track)             // JSON referral resolution
		api.POST("/feedback/helpful", feedbackHandler.Helpful)
		api.POST("/submissions", submissionHandler.Create) // tool submission queue

		api.POST("/auth/signup", authHandler.Signup)
		api.POST("/auth/login", authHandler.Login)
		api.GET("/auth/logout", authHandler.Logout)
		api.GET("/auth/me", authHandler.Me)

		// Protected routes
		authorized := api.Group("/")
		authorized.Use(middleware.AuthRequired())
		{
			authorized.POST("/reviews", reviewHandler.Create)
			authorized.GET("/reviews", reviewHandler.ListMine)
			authorized.POST("/feedback/trust-rating", feedbackHandler.TrustRating)
			authorized.GET("/dashboard", userHandler.Dashboard)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.POST("/submissions/:id/publish", submissionHandler.Publish)
		}
	}

	// Google OAuth
	r.GET("/auth/google", authHandler.GoogleLogin)
	r.GET("/auth/google/callback", authHandler.GoogleCallback)
}
