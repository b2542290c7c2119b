package models

import (
	"time"

	"gorm.io/gorm"
)

// FeedbackStatus is the triage status of a feedback item. Kept as a closed
// set of constants so the PR mapper can switch over it exhaustively.
type FeedbackStatus string

const (
	StatusOpen            FeedbackStatus = "open"
	StatusInProgress      FeedbackStatus = "in-progress"
	StatusTechnicalReview FeedbackStatus = "technical-review"
	StatusCompleted       FeedbackStatus = "completed"
	StatusPaused          FeedbackStatus = "paused"
)

type FeedbackItem struct {
	ID             string `gorm:"primaryKey"`
	OrganizationID string `gorm:"index:idx_org_issue_key"`
	TeamID         string `gorm:"index"`
	IssueKey       string `gorm:"index:idx_org_issue_key"` // e.g. "pe-102", lowercase, empty until promoted
	Title          string
	Status         FeedbackStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}
