package db

import (
	"log"
	"os"

	"robotdance/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=robotdance port=5432 sslmode=disable"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		// Unique-violation errors surface as gorm.ErrDuplicatedKey so the
		// store can translate them into conflicts.
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	err = DB.AutoMigrate(
		&models.User{},
		&models.Solution{},
		&models.Review{},
		&models.TrustRating{},
		&models.Submission{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	seedSolutions()
}

func seedSolutions() {
	var count int64
	DB.Model(&models.Solution{}).Count(&count)
	if count > 0 {
		log.Println("Solutions already seeded, skipping")
		return
	}

	solutions := []models.Solution{
		{
			Name:        "Claude",
			Slug:        "claude",
			Description: "Conversational AI assistant for analysis, writing and coding",
			Category:    "assistant",
			WebsiteURL:  "https://claude.ai",
		},
		{
			Name:        "GitHub Copilot",
			Slug:        "github-copilot",
			Description: "AI pair programmer integrated into the editor",
			Category:    "coding",
			WebsiteURL:  "https://github.com/features/copilot",
		},
		{
			Name:        "Midjourney",
			Slug:        "midjourney",
			Description: "Text-to-image generation",
			Category:    "image",
			WebsiteURL:  "https://midjourney.com",
		},
		{
			Name:        "ElevenLabs",
			Slug:        "elevenlabs",
			Description: "AI voice synthesis and cloning",
			Category:    "audio",
			WebsiteURL:  "https://elevenlabs.io",
		},
	}

	for _, solution := range solutions {
		if err := DB.Create(&solution).Error; err != nil {
			log.Printf("Failed to create solution %s: %v", solution.Name, err)
		}
	}
	log.Println("Initial solutions created successfully")
}
