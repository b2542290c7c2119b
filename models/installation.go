package models

import "time"

// Installation is one GitHub App installation. OrganizationID is set when
// the installation is linked to an organization, either automatically at
// creation time (account login matches an organization slug) or later by
// an admin. Deleted rows are removed outright: a reinstall arrives with
// the same installation id and must not trip the unique index on a
// soft-deleted leftover.
type Installation struct {
	ID             string `gorm:"primaryKey"`
	InstallationID int64  `gorm:"uniqueIndex"` // github's installation id
	AccountLogin   string
	AccountID      int64
	AppID          int64
	OrganizationID string `gorm:"index"` // empty until linked
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
