package main

import (
	"log"
	"os"

	"robotdance/internal/db"
	"robotdance/internal/handlers"
	"robotdance/internal/middleware"
	"robotdance/internal/router"
	"robotdance/internal/services"
	"robotdance/internal/store/gormstore"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()
	st := gormstore.New(db.DB)

	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = "http://localhost:8080"
	}

	// Services: the RDS aggregator starts its background worker here
	rdsService := services.NewRDSService(st)
	deps := router.Deps{
		Store:     st,
		Reviews:   services.NewReviewService(st, rdsService),
		Trust:     services.NewTrustService(st),
		Referrals: services.NewReferralService(st, siteURL),
		Mail:      services.NewMailService(),
	}

	handlers.InitGoogleOAuth()

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	sessionStore := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("robotdance_session", sessionStore))

	// Middleware
	r.Use(middleware.LoadUser(st))

	router.RegisterRoutes(r, deps)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("RobotDance server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
