package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"feedback-github-sync/models"
	"feedback-github-sync/services"
)

// FeedbackHandler serves the feedback-creation path that mints issue keys,
// and the branch-name suggestion that pairs with branch extraction.
type FeedbackHandler struct {
	DB *gorm.DB
}

func NewFeedbackHandler(db *gorm.DB) *FeedbackHandler {
	return &FeedbackHandler{DB: db}
}

func (h *FeedbackHandler) HandleCreateFeedback(c *gin.Context) {
	var body struct {
		TeamID string `json:"team_id" binding:"required"`
		Title  string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "team_id and title are required"})
		return
	}

	var team models.Team
	err := h.DB.Where("id = ?", body.TeamID).First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "team not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up team"})
		return
	}

	item, err := services.CreateFeedbackWithIssueKey(h.DB, team, body.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create feedback"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        item.ID,
		"issue_key": item.IssueKey,
		"title":     item.Title,
		"status":    item.Status,
	})
}

// HandleBranchSuggestion returns a branch name for a feedback item, like
// "ayush/pe-102/add-login". The assignee prefix is optional.
func (h *FeedbackHandler) HandleBranchSuggestion(c *gin.Context) {
	var item models.FeedbackItem
	err := h.DB.Where("id = ?", c.Param("id")).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "feedback not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up feedback"})
		return
	}
	if item.IssueKey == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "feedback has no issue key yet"})
		return
	}

	branch := services.BuildBranchName(item.IssueKey, item.Title, c.Query("assignee"))
	c.JSON(http.StatusOK, gin.H{"branch": branch})
}
