package main

import (
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v71/github"
	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"feedback-github-sync/handlers"
	"feedback-github-sync/models"
	"feedback-github-sync/services"
)

func parseAppID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func main() {
	godotenv.Load()

	// TranslateError lets the dedup gate and the serial allocator match
	// gorm.ErrDuplicatedKey instead of sniffing driver error strings
	db, err := gorm.Open(sqlite.Open("feedback.db"), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal(err)
	}
	db.AutoMigrate(
		&models.Organization{},
		&models.Team{},
		&models.FeedbackItem{},
		&models.TeamSerialCounter{},
		&models.Installation{},
		&models.WebhookDelivery{},
	)

	secret := os.Getenv("GITHUB_WEBHOOK_SECRET")
	if secret == "" {
		log.Println("GITHUB_WEBHOOK_SECRET is not set, webhook requests will be rejected")
	}

	appID := parseAppID(os.Getenv("GITHUB_APP_ID"))
	privateKey := []byte(os.Getenv("GITHUB_APP_PRIVATE_KEY"))

	r := gin.Default()

	webhook := handlers.NewWebhookHandler(db, []byte(secret))
	r.POST("/webhook", webhook.HandleWebhook)

	admin := handlers.NewAdminHandler(db, os.Getenv("GITHUB_APP_SLUG"), func(installAppID, installationID int64) (*github.Client, error) {
		if installAppID == 0 {
			installAppID = appID
		}
		return services.NewInstallationClient(installAppID, installationID, privateKey)
	})
	r.GET("/api/github/install-url", admin.HandleInstallURL)
	r.GET("/api/installations/:installation_id", admin.HandleInstallationStatus)
	r.POST("/api/installations/:installation_id/link", admin.HandleLinkInstallation)
	r.POST("/api/installations/:installation_id/unlink", admin.HandleUnlinkInstallation)

	feedback := handlers.NewFeedbackHandler(db)
	r.POST("/api/feedback", feedback.HandleCreateFeedback)
	r.GET("/api/feedback/:id/branch", feedback.HandleBranchSuggestion)

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
