package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"feedback-github-sync/models"
)

func setupFeedbackRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewFeedbackHandler(db)
	r.POST("/api/feedback", handler.HandleCreateFeedback)
	r.GET("/api/feedback/:id/branch", handler.HandleBranchSuggestion)
	return r
}

func createFeedback(t *testing.T, router *gin.Engine, teamID, title string) map[string]interface{} {
	payload, _ := json.Marshal(map[string]string{"team_id": teamID, "title": title})
	req, _ := http.NewRequest("POST", "/api/feedback", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

func TestHandleCreateFeedbackMintsSequentialKeys(t *testing.T) {
	db := setupTestDB(t)
	db.Create(&models.Team{ID: "team-1", OrganizationID: "org-1", Name: "Product Engineering"})
	router := setupFeedbackRouter(db)

	first := createFeedback(t, router, "team-1", "Add login page")
	second := createFeedback(t, router, "team-1", "Dark mode")
	third := createFeedback(t, router, "team-1", "Export to CSV")

	assert.Equal(t, "pe-1", first["issue_key"])
	assert.Equal(t, "pe-2", second["issue_key"])
	assert.Equal(t, "pe-3", third["issue_key"])
}

func TestHandleCreateFeedbackUnknownTeam(t *testing.T) {
	db := setupTestDB(t)
	router := setupFeedbackRouter(db)

	payload, _ := json.Marshal(map[string]string{"team_id": "nope", "title": "x"})
	req, _ := http.NewRequest("POST", "/api/feedback", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleBranchSuggestion(t *testing.T) {
	db := setupTestDB(t)
	item := seedPipeline(db)
	router := setupFeedbackRouter(db)

	req, _ := http.NewRequest("GET", "/api/feedback/"+item.ID+"/branch?assignee=Ayush", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	assert.Equal(t, "ayush/pe-2/fix-typo", body["branch"])
}

func TestHandleBranchSuggestionWithoutKey(t *testing.T) {
	db := setupTestDB(t)
	db.Create(&models.FeedbackItem{ID: "feedback-1", OrganizationID: "org-1", Title: "No key yet", Status: models.StatusOpen})
	router := setupFeedbackRouter(db)

	req, _ := http.NewRequest("GET", "/api/feedback/feedback-1/branch", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

// The full loop: a team's first items get pe-1..pe-3, a pr on a pe-2 branch
// moves it to in-progress, merging to the default branch completes it, and
// merging to a release branch instead pauses it.
func TestFeedbackLifecycleEndToEnd(t *testing.T) {
	db := setupTestDB(t)
	db.Create(&models.Organization{ID: "org-1", Name: "Acme", Slug: "acme"})
	db.Create(&models.Installation{ID: "inst-row-1", InstallationID: 12345, AccountLogin: "acme", OrganizationID: "org-1"})
	db.Create(&models.Team{ID: "team-1", OrganizationID: "org-1", Name: "Product Engineering"})

	feedbackRouter := setupFeedbackRouter(db)
	webhookRouter := setupWebhookRouter(db, testSecret)

	createFeedback(t, feedbackRouter, "team-1", "First item")
	second := createFeedback(t, feedbackRouter, "team-1", "Fix typo")
	createFeedback(t, feedbackRouter, "team-1", "Third item")
	assert.Equal(t, "pe-2", second["issue_key"])
	id := second["id"].(string)

	body := pullRequestPayload("opened", "pe-2/fix-typo", "main", "main", false)
	w := postWebhook(webhookRouter, "delivery-1", "pull_request", body, signBody(body))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusInProgress, feedbackStatus(t, db, id))

	body = pullRequestPayload("closed", "pe-2/fix-typo", "main", "main", true)
	w = postWebhook(webhookRouter, "delivery-2", "pull_request", body, signBody(body))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusCompleted, feedbackStatus(t, db, id))

	// the alternate ending: merged into a release branch instead
	body = pullRequestPayload("closed", "pe-2/fix-typo", "release/1.0", "main", true)
	w = postWebhook(webhookRouter, "delivery-3", "pull_request", body, signBody(body))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusPaused, feedbackStatus(t, db, id))
}
