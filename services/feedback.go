package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"feedback-github-sync/models"
)

// CreateFeedbackWithIssueKey creates a feedback item and mints its issue
// key from the team's serial counter. The stored key is lowercase, which
// is what branch extraction hands back later.
func CreateFeedbackWithIssueKey(db *gorm.DB, team models.Team, title string) (*models.FeedbackItem, error) {
	serial, err := GetAndUpdatePostSerialCount(db, team.ID)
	if err != nil {
		return nil, err
	}

	item := models.FeedbackItem{
		ID:             uuid.NewString(),
		OrganizationID: team.OrganizationID,
		TeamID:         team.ID,
		IssueKey:       GenerateIssueKey(team.Name, serial),
		Title:          title,
		Status:         models.StatusOpen,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to create feedback item: %w", err)
	}

	log.Printf("feedback %s created with issue key %s", item.ID, item.IssueKey)
	return &item, nil
}

// UpdateFeedbackStatusByIssueKey applies a mapped status to the feedback
// item carrying the key, scoped to one organization because issue keys are
// only unique per team namespace. A missing item is a benign no-op: the
// feedback may have been deleted, or the branch key may belong to a
// different org than the installation resolves to.
func UpdateFeedbackStatusByIssueKey(db *gorm.DB, organizationID, issueKey string, status models.FeedbackStatus) error {
	var item models.FeedbackItem
	err := db.Where("organization_id = ? AND issue_key = ?", organizationID, strings.ToLower(issueKey)).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("no feedback found for issue key %s in organization %s", issueKey, organizationID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up feedback by issue key: %w", err)
	}

	item.Status = status
	item.UpdatedAt = time.Now()
	if err := db.Save(&item).Error; err != nil {
		return fmt.Errorf("failed to update feedback status: %w", err)
	}

	log.Printf("feedback %s (%s) status set to %s", item.ID, item.IssueKey, status)
	return nil
}
