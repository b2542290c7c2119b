package models

import (
	"time"

	"gorm.io/gorm"
)

type Organization struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	Slug      string `gorm:"uniqueIndex"` // url-safe identifier, also matched against github account logins
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type Team struct {
	ID             string `gorm:"primaryKey"`
	OrganizationID string `gorm:"index"`
	Name           string // display name, source of the issue key slug
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}
